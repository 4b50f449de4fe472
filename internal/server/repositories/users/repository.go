package users

import (
	"context"

	"github.com/ukd-dev/ukdportal/internal/server/models"
)

type Repository interface {
	// Create inserts the user and fills ID. A duplicate username or email
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByLogin matches the identifier against username or email.
	GetByLogin(ctx context.Context, identifier string) (*models.User, error)
	// FindStudentByFullName returns the first STUDENT whose full name matches exactly.
	FindStudentByFullName(ctx context.Context, fullName string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int, error)
	UpdateEmail(ctx context.Context, id int64, email string) error
	UpdateAvatar(ctx context.Context, id int64, avatar string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetStatus(ctx context.Context, id int64, status models.UserStatus) error
	Delete(ctx context.Context, id int64) error
}
