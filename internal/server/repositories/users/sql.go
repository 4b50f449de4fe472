package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/dbx"
	"github.com/ukd-dev/ukdportal/internal/server/models"
)

const userColumns = `id, username, email, password_hash, role, status, full_name, avatar, room, created_at`

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var role, status, createdAt string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &status,
		&u.FullName, &u.Avatar, &u.Room, &createdAt)
	if err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	u.Status = models.UserStatus(status)
	u.CreatedAt = dbx.ParseTime(createdAt)
	return u, nil
}

func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}

	query :=
		`INSERT INTO users (username, email, password_hash, role, status, full_name, avatar, room, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, string(user.Role), string(user.Status),
		user.FullName, user.Avatar, user.Room, dbx.FormatTime(user.CreatedAt)).Scan(&user.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *SQLRepository) GetByLogin(ctx context.Context, identifier string) (*models.User, error) {
	return r.getOne(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE username = ? OR (email <> '' AND email = ?)
		 ORDER BY id LIMIT 1`, identifier, identifier)
}

func (r *SQLRepository) FindStudentByFullName(ctx context.Context, fullName string) (*models.User, error) {
	return r.getOne(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE role = ? AND full_name = ?
		 ORDER BY id LIMIT 1`, string(models.RoleStudent), fullName)
}

func (r *SQLRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	return r.exec(ctx, `UPDATE users SET email = ? WHERE id = ?`, email, id)
}

func (r *SQLRepository) UpdateAvatar(ctx context.Context, id int64, avatar string) error {
	return r.exec(ctx, `UPDATE users SET avatar = ? WHERE id = ?`, avatar, id)
}

func (r *SQLRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.exec(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
}

func (r *SQLRepository) SetStatus(ctx context.Context, id int64, status models.UserStatus) error {
	return r.exec(ctx, `UPDATE users SET status = ? WHERE id = ?`, string(status), id)
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM users WHERE id = ?`, id)
}
