package companies

import (
	"context"

	"github.com/ukd-dev/ukdportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.CompanyProfile) (*models.CompanyProfile, error)
	GetByID(ctx context.Context, id int64) (*models.CompanyProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*models.CompanyProfile, error)
	Update(ctx context.Context, p *models.CompanyProfile) error
	UpdateAvatar(ctx context.Context, userID int64, avatar string) error
	DeleteByUserID(ctx context.Context, userID int64) error
}
