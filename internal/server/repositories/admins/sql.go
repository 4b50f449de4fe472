package admins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/dbx"
	"github.com/ukd-dev/ukdportal/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, p *models.AdminProfile) (*models.AdminProfile, error) {
	if p.Level == 0 {
		p.Level = 1
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO admins (user_id, admin_level) VALUES (?, ?) RETURNING id`,
		p.UserID, p.Level).Scan(&p.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *SQLRepository) GetByUserID(ctx context.Context, userID int64) (*models.AdminProfile, error) {
	p := &models.AdminProfile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, admin_level FROM admins WHERE user_id = ?`, userID).
		Scan(&p.ID, &p.UserID, &p.Level)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *SQLRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
