package subjects

import (
	"context"

	"github.com/ukd-dev/ukdportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, s *models.Subject) (*models.Subject, error)
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	// List returns subjects ordered by id, so the first element is the
	// oldest subject.
	List(ctx context.Context) ([]*models.Subject, error)
	// ClearTeacher detaches every subject taught by teacherID.
	ClearTeacher(ctx context.Context, teacherID int64) error
}
