package invitations

import (
	"context"

	"github.com/ukd-dev/ukdportal/internal/server/models"
)

// Party identifies everything an account can be referenced by in invitations.
type Party struct {
	UserID    int64
	StudentID *int64
	CompanyID *int64
}

type Repository interface {
	Create(ctx context.Context, inv *models.Invitation) (*models.Invitation, error)
	GetByID(ctx context.Context, id int64) (*models.Invitation, error)
	// ListAll orders flagged invitations first, then newest first.
	ListAll(ctx context.Context) ([]*models.InvitationView, error)
	ListBySender(ctx context.Context, senderID int64) ([]*models.InvitationView, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.InvitationView, error)
	CountPending(ctx context.Context, studentID int64) (int, error)
	// SetStatus moves a pending invitation to status. It reports false when
	// the invitation was no longer pending.
	SetStatus(ctx context.Context, id int64, status models.InvitationStatus) (bool, error)
	// SetFlagged raises the flag. It reports false when it was already raised.
	SetFlagged(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	// DeleteForParty removes every invitation the party sent or is addressed in.
	DeleteForParty(ctx context.Context, p Party) (int64, error)
}
