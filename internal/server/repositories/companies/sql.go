package companies

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

func (r *SQLRepository) Create(ctx context.Context, p *models.CompanyProfile) (*models.CompanyProfile, error) {
	query :=
		`INSERT INTO companies (user_id, company_name, description, position, contact, avatar)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query, p.UserID, p.CompanyName, p.Description,
		p.Position, p.Contact, p.Avatar).Scan(&p.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *SQLRepository) getOne(ctx context.Context, where string, arg any) (*models.CompanyProfile, error) {
	query := `SELECT id, user_id, company_name, description, position, contact, avatar
		 FROM companies WHERE ` + where

	p := &models.CompanyProfile{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&p.ID, &p.UserID, &p.CompanyName, &p.Description, &p.Position, &p.Contact, &p.Avatar)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.CompanyProfile, error) {
	return r.getOne(ctx, `id = ?`, id)
}

func (r *SQLRepository) GetByUserID(ctx context.Context, userID int64) (*models.CompanyProfile, error) {
	return r.getOne(ctx, `user_id = ?`, userID)
}

func (r *SQLRepository) Update(ctx context.Context, p *models.CompanyProfile) error {
	query :=
		`UPDATE companies
		 SET company_name = ?, description = ?, position = ?, contact = ?
		 WHERE user_id = ?`

	res, err := r.db.ExecContext(ctx, query, p.CompanyName, p.Description, p.Position, p.Contact, p.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) UpdateAvatar(ctx context.Context, userID int64, avatar string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE companies SET avatar = ? WHERE user_id = ?`, avatar, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM companies WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
