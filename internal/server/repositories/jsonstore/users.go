package jsonstore

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
)

type UserRepository struct {
	h *handle
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}

	err := r.h.write(func(d *Document) error {
		for _, u := range d.Users {
			if u.Username == user.Username || (user.Email != "" && u.Email == user.Email) {
				return common.ErrorAlreadyExists
			}
		}
		user.ID = d.nextID(seqUsers)
		d.Users = append(d.Users, copyUser(user))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) find(match func(u *models.User) bool) (*models.User, error) {
	var out *models.User
	err := r.h.read(func(d *Document) error {
		for _, u := range d.Users {
			if match(u) {
				out = copyUser(u)
				return nil
			}
		}
		return common.ErrorNotFound
	})
	return out, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *UserRepository) GetByLogin(ctx context.Context, identifier string) (*models.User, error) {
	return r.find(func(u *models.User) bool {
		return u.Username == identifier || (u.Email != "" && u.Email == identifier)
	})
}

func (r *UserRepository) FindStudentByFullName(ctx context.Context, fullName string) (*models.User, error) {
	return r.find(func(u *models.User) bool {
		return u.Role == models.RoleStudent && u.FullName == fullName
	})
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	err := r.h.read(func(d *Document) error {
		for _, u := range d.Users {
			out = append(out, copyUser(u))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *models.User) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.h.read(func(d *Document) error {
		n = len(d.Users)
		return nil
	})
	return n, err
}

func (r *UserRepository) update(id int64, fn func(u *models.User)) error {
	return r.h.write(func(d *Document) error {
		u := d.user(id)
		if u == nil {
			return common.ErrorNotFound
		}
		fn(u)
		return nil
	})
}

func (r *UserRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	return r.h.write(func(d *Document) error {
		u := d.user(id)
		if u == nil {
			return common.ErrorNotFound
		}
		for _, other := range d.Users {
			if other.ID != id && email != "" && other.Email == email {
				return common.ErrorAlreadyExists
			}
		}
		u.Email = email
		return nil
	})
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, id int64, avatar string) error {
	return r.update(id, func(u *models.User) { u.Avatar = avatar })
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.update(id, func(u *models.User) { u.PasswordHash = passwordHash })
}

func (r *UserRepository) SetStatus(ctx context.Context, id int64, status models.UserStatus) error {
	return r.update(id, func(u *models.User) { u.Status = status })
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.h.write(func(d *Document) error {
		var dropped int
		d.Users, dropped = filter(d.Users, func(u *models.User) bool { return u.ID != id })
		if dropped == 0 {
			return common.ErrorNotFound
		}
		return nil
	})
}
