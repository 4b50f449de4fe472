package absences

import (
	"context"

	"github.com/ukd-dev/ukdportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Absence) (*models.Absence, error)
	// Delete removes the absence. A missing id is not an error.
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, studentID, subjectID int64) (bool, error)
	ListAll(ctx context.Context) ([]*models.AbsenceView, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.AbsenceView, error)
	DeleteByStudent(ctx context.Context, studentID int64) error
}
