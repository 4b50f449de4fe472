package admins

import (
	"context"

	"github.com/ukd-dev/ukdportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.AdminProfile) (*models.AdminProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*models.AdminProfile, error)
	DeleteByUserID(ctx context.Context, userID int64) error
}
