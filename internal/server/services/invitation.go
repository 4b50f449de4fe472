package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repomanager"
)

type InvitationService struct {
	repomanager repomanager.RepositoryManager
}

func NewInvitationService(m repomanager.RepositoryManager) *InvitationService {
	return &InvitationService{repomanager: m}
}

// Send invites the student with the given profile id. Companies send on
// behalf of their profile; admins send without one.
func (s *InvitationService) Send(ctx context.Context, sess *models.Session, studentProfileID int64, message string) (*models.Invitation, error) {
	if err := requireRole(sess, common.ErrAccessDenied, models.RoleCompany, models.RoleAdmin); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", common.ErrorValidation)
	}

	repos := s.repomanager.Repositories()
	if _, err := repos.Students.GetByID(ctx, studentProfileID); err != nil {
		return nil, err
	}

	inv := &models.Invitation{
		StudentID: studentProfileID,
		SenderID:  sess.UserID,
		Message:   message,
		Status:    models.InvitationPending,
	}
	company, err := repos.Companies.GetByUserID(ctx, sess.UserID)
	switch {
	case err == nil:
		inv.CompanyID = &company.ID
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	return repos.Invitations.Create(ctx, inv)
}

// Respond lets the addressed student accept or reject. A decided invitation
// is left alone and returned with changed=false.
func (s *InvitationService) Respond(ctx context.Context, sess *models.Session, invitationID int64, action string) (inv *models.Invitation, changed bool, err error) {
	var status models.InvitationStatus
	switch action {
	case "accept":
		status = models.InvitationAccepted
	case "reject":
		status = models.InvitationRejected
	default:
		return nil, false, fmt.Errorf("%w: unknown action %q", common.ErrorValidation, action)
	}
	if err := requireRole(sess, common.ErrForbidden, models.RoleStudent); err != nil {
		return nil, false, err
	}

	repos := s.repomanager.Repositories()
	inv, err = repos.Invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, false, err
	}

	profile, err := repos.Students.GetByUserID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, false, common.ErrForbidden
		}
		return nil, false, err
	}
	if profile.ID != inv.StudentID {
		return nil, false, common.ErrForbidden
	}

	if inv.Status != models.InvitationPending {
		return inv, false, nil
	}

	changed, err = repos.Invitations.SetStatus(ctx, invitationID, status)
	if err != nil {
		return nil, false, err
	}
	inv, err = repos.Invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, false, err
	}
	return inv, changed, nil
}

// Flag asks an admin to look at the invitation. Only the company that sent
// it may flag, and only once.
func (s *InvitationService) Flag(ctx context.Context, sess *models.Session, invitationID int64) error {
	if err := requireRole(sess, common.ErrForbidden, models.RoleCompany); err != nil {
		return err
	}

	repos := s.repomanager.Repositories()
	inv, err := repos.Invitations.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if inv.SenderID != sess.UserID {
		return common.ErrForbidden
	}

	changed, err := repos.Invitations.SetFlagged(ctx, invitationID)
	if err != nil {
		return err
	}
	if !changed {
		return common.ErrAlreadyFlagged
	}
	return nil
}

// Delete removes the invitation whatever its state. Admin only.
func (s *InvitationService) Delete(ctx context.Context, sess *models.Session, invitationID int64) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return s.repomanager.Repositories().Invitations.Delete(ctx, invitationID)
}

// ListFor returns what the caller may see: everything for admins, sent
// invitations for companies, received ones for students.
func (s *InvitationService) ListFor(ctx context.Context, sess *models.Session) ([]*models.InvitationView, error) {
	if !sess.Authenticated() {
		return nil, common.ErrorUnauthorized
	}

	repos := s.repomanager.Repositories()
	switch sess.Role {
	case models.RoleAdmin:
		return repos.Invitations.ListAll(ctx)
	case models.RoleCompany:
		return repos.Invitations.ListBySender(ctx, sess.UserID)
	case models.RoleStudent:
		profile, err := repos.Students.GetByUserID(ctx, sess.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return repos.Invitations.ListByStudent(ctx, profile.ID)
	}
	return nil, nil
}

// PendingCount is the badge shown to students.
func (s *InvitationService) PendingCount(ctx context.Context, sess *models.Session) (int, error) {
	if !sess.Authenticated() || sess.Role != models.RoleStudent {
		return 0, nil
	}
	repos := s.repomanager.Repositories()
	profile, err := repos.Students.GetByUserID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return repos.Invitations.CountPending(ctx, profile.ID)
}
