package jsonstore

import (
	"context"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
)

type StudentRepository struct {
	h *handle
}

func copyStudent(p *models.StudentProfile) *models.StudentProfile {
	c := *p
	return &c
}

func (r *StudentRepository) Create(ctx context.Context, p *models.StudentProfile) (*models.StudentProfile, error) {
	err := r.h.write(func(d *Document) error {
		if d.user(p.UserID) == nil {
			return common.ErrorNotFound
		}
		if d.studentByUser(p.UserID) != nil {
			return common.ErrorAlreadyExists
		}
		p.ID = d.nextID(seqStudents)
		d.Students = append(d.Students, copyStudent(p))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *StudentRepository) get(match func(d *Document) *models.StudentProfile) (*models.StudentProfile, error) {
	var out *models.StudentProfile
	err := r.h.read(func(d *Document) error {
		p := match(d)
		if p == nil {
			return common.ErrorNotFound
		}
		out = copyStudent(p)
		return nil
	})
	return out, err
}

func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.StudentProfile, error) {
	return r.get(func(d *Document) *models.StudentProfile { return d.student(id) })
}

func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	return r.get(func(d *Document) *models.StudentProfile { return d.studentByUser(userID) })
}

func card(d *Document, p *models.StudentProfile) *models.StudentCard {
	c := &models.StudentCard{StudentProfile: *p}
	if u := d.user(p.UserID); u != nil {
		c.Username = u.Username
		c.Email = u.Email
	}
	return c
}

func (r *StudentRepository) GetCardByUserID(ctx context.Context, userID int64) (*models.StudentCard, error) {
	var out *models.StudentCard
	err := r.h.read(func(d *Document) error {
		p := d.studentByUser(userID)
		if p == nil || d.user(userID) == nil {
			return common.ErrorNotFound
		}
		out = card(d, p)
		return nil
	})
	return out, err
}

func (r *StudentRepository) ListCards(ctx context.Context) ([]*models.StudentCard, error) {
	var out []*models.StudentCard
	err := r.h.read(func(d *Document) error {
		for _, p := range d.Students {
			if d.user(p.UserID) == nil {
				continue
			}
			out = append(out, card(d, p))
		}
		return nil
	})
	return out, err
}

func (r *StudentRepository) Update(ctx context.Context, p *models.StudentProfile) error {
	return r.h.write(func(d *Document) error {
		cur := d.studentByUser(p.UserID)
		if cur == nil {
			return common.ErrorNotFound
		}
		cur.FirstName = p.FirstName
		cur.LastName = p.LastName
		cur.Course = p.Course
		cur.Specialty = p.Specialty
		cur.Skills = p.Skills
		cur.Links = p.Links
		cur.Contact = p.Contact
		return nil
	})
}

func (r *StudentRepository) UpdateAvatar(ctx context.Context, userID int64, avatar string) error {
	return r.h.write(func(d *Document) error {
		cur := d.studentByUser(userID)
		if cur == nil {
			return common.ErrorNotFound
		}
		cur.Avatar = avatar
		return nil
	})
}

func (r *StudentRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.h.write(func(d *Document) error {
		d.Students, _ = filter(d.Students, func(p *models.StudentProfile) bool { return p.UserID != userID })
		return nil
	})
}

type CompanyRepository struct {
	h *handle
}

func copyCompany(p *models.CompanyProfile) *models.CompanyProfile {
	c := *p
	return &c
}

func (r *CompanyRepository) Create(ctx context.Context, p *models.CompanyProfile) (*models.CompanyProfile, error) {
	err := r.h.write(func(d *Document) error {
		if d.user(p.UserID) == nil {
			return common.ErrorNotFound
		}
		if d.companyByUser(p.UserID) != nil {
			return common.ErrorAlreadyExists
		}
		p.ID = d.nextID(seqCompanies)
		d.Companies = append(d.Companies, copyCompany(p))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *CompanyRepository) get(match func(d *Document) *models.CompanyProfile) (*models.CompanyProfile, error) {
	var out *models.CompanyProfile
	err := r.h.read(func(d *Document) error {
		p := match(d)
		if p == nil {
			return common.ErrorNotFound
		}
		out = copyCompany(p)
		return nil
	})
	return out, err
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*models.CompanyProfile, error) {
	return r.get(func(d *Document) *models.CompanyProfile { return d.company(id) })
}

func (r *CompanyRepository) GetByUserID(ctx context.Context, userID int64) (*models.CompanyProfile, error) {
	return r.get(func(d *Document) *models.CompanyProfile { return d.companyByUser(userID) })
}

func (r *CompanyRepository) Update(ctx context.Context, p *models.CompanyProfile) error {
	return r.h.write(func(d *Document) error {
		cur := d.companyByUser(p.UserID)
		if cur == nil {
			return common.ErrorNotFound
		}
		cur.CompanyName = p.CompanyName
		cur.Description = p.Description
		cur.Position = p.Position
		cur.Contact = p.Contact
		return nil
	})
}

func (r *CompanyRepository) UpdateAvatar(ctx context.Context, userID int64, avatar string) error {
	return r.h.write(func(d *Document) error {
		cur := d.companyByUser(userID)
		if cur == nil {
			return common.ErrorNotFound
		}
		cur.Avatar = avatar
		return nil
	})
}

func (r *CompanyRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.h.write(func(d *Document) error {
		d.Companies, _ = filter(d.Companies, func(p *models.CompanyProfile) bool { return p.UserID != userID })
		return nil
	})
}

type AdminRepository struct {
	h *handle
}

func (r *AdminRepository) Create(ctx context.Context, p *models.AdminProfile) (*models.AdminProfile, error) {
	if p.Level == 0 {
		p.Level = 1
	}
	err := r.h.write(func(d *Document) error {
		if d.user(p.UserID) == nil {
			return common.ErrorNotFound
		}
		for _, a := range d.Admins {
			if a.UserID == p.UserID {
				return common.ErrorAlreadyExists
			}
		}
		p.ID = d.nextID(seqAdmins)
		c := *p
		d.Admins = append(d.Admins, &c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *AdminRepository) GetByUserID(ctx context.Context, userID int64) (*models.AdminProfile, error) {
	var out *models.AdminProfile
	err := r.h.read(func(d *Document) error {
		for _, a := range d.Admins {
			if a.UserID == userID {
				c := *a
				out = &c
				return nil
			}
		}
		return common.ErrorNotFound
	})
	return out, err
}

func (r *AdminRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.h.write(func(d *Document) error {
		d.Admins, _ = filter(d.Admins, func(a *models.AdminProfile) bool { return a.UserID != userID })
		return nil
	})
}
