package creators

import (
	"context"
	"fmt"

	"github.com/ukd-dev/ukdportal/internal/dbx"
	"github.com/ukd-dev/ukdportal/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, c *models.Creator) (*models.Creator, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO creators (name, role, description, skills, avatar) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		c.Name, c.Role, c.Description, c.Skills, c.Avatar).Scan(&c.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*models.Creator, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, role, description, skills, avatar FROM creators ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Creator
	for rows.Next() {
		c := &models.Creator{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Role, &c.Description, &c.Skills, &c.Avatar); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
