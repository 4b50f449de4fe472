package students

import (
	"context"

	"github.com/ukd-dev/ukdportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.StudentProfile) (*models.StudentProfile, error)
	GetByID(ctx context.Context, id int64) (*models.StudentProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error)
	// GetCardByUserID joins the profile with its account.
	GetCardByUserID(ctx context.Context, userID int64) (*models.StudentCard, error)
	ListCards(ctx context.Context) ([]*models.StudentCard, error)
	Update(ctx context.Context, p *models.StudentProfile) error
	UpdateAvatar(ctx context.Context, userID int64, avatar string) error
	DeleteByUserID(ctx context.Context, userID int64) error
}
