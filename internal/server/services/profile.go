package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repomanager"
)

// ProfileService edits profiles, including an admin editing someone else's
// through the session's edit target.
type ProfileService struct {
	repomanager repomanager.RepositoryManager
}

func NewProfileService(m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{repomanager: m}
}

// ProfileInput carries every editable field; the ones that do not apply to
// the target's role are ignored.
type ProfileInput struct {
	Email string

	FirstName string
	LastName  string
	Course    string
	Specialty string
	Skills    string
	Links     string
	Contact   string

	CompanyName string
	Description string
	Position    string

	Avatar string
}

// Profile is an account with whichever profile row its role has.
type Profile struct {
	User    *models.User
	Student *models.StudentProfile
	Company *models.CompanyProfile
	Admin   *models.AdminProfile
}

// Load returns userID's account and profile.
func (s *ProfileService) Load(ctx context.Context, userID int64) (*Profile, error) {
	repos := s.repomanager.Repositories()

	user, err := repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &Profile{User: user}

	switch user.Role {
	case models.RoleStudent:
		p.Student, err = repos.Students.GetByUserID(ctx, userID)
	case models.RoleCompany:
		p.Company, err = repos.Companies.GetByUserID(ctx, userID)
	case models.RoleAdmin:
		p.Admin, err = repos.Admins.GetByUserID(ctx, userID)
	}
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	return p, nil
}

// UpdateProfile writes in to the session's profile target. Only the target
// itself or an admin may do so.
func (s *ProfileService) UpdateProfile(ctx context.Context, sess *models.Session, in ProfileInput) error {
	if !sess.Authenticated() {
		return common.ErrorUnauthorized
	}
	target := sess.ProfileTarget()
	if target != sess.UserID && sess.Role != models.RoleAdmin {
		return common.ErrAccessDenied
	}
	if in.Avatar != "" {
		if err := validateAvatarURL(in.Avatar); err != nil {
			return err
		}
	}

	return s.repomanager.WithTx(ctx, func(ctx context.Context, tx repomanager.Repositories) error {
		user, err := tx.Users.GetByID(ctx, target)
		if err != nil {
			return err
		}

		if err := tx.Users.UpdateEmail(ctx, target, strings.TrimSpace(in.Email)); err != nil {
			return err
		}

		switch user.Role {
		case models.RoleStudent:
			err = tx.Students.Update(ctx, &models.StudentProfile{
				UserID:    target,
				FirstName: strings.TrimSpace(in.FirstName),
				LastName:  strings.TrimSpace(in.LastName),
				Course:    strings.TrimSpace(in.Course),
				Specialty: strings.TrimSpace(in.Specialty),
				Skills:    strings.Join(common.SplitTags(in.Skills), ", "),
				Links:     strings.Join(common.SplitTags(in.Links), ", "),
				Contact:   strings.TrimSpace(in.Contact),
			})
		case models.RoleCompany:
			err = tx.Companies.Update(ctx, &models.CompanyProfile{
				UserID:      target,
				CompanyName: strings.TrimSpace(in.CompanyName),
				Description: strings.TrimSpace(in.Description),
				Position:    strings.TrimSpace(in.Position),
				Contact:     strings.TrimSpace(in.Contact),
			})
		}
		if err != nil {
			return err
		}

		if in.Avatar != "" {
			return setAvatar(ctx, tx, user, in.Avatar)
		}
		return nil
	})
}

// SelectTarget lets an admin edit another account's profile.
func (s *ProfileService) SelectTarget(ctx context.Context, sess *models.Session, targetID int64) (*models.User, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.repomanager.Repositories().Users.GetByID(ctx, targetID)
}

// UpdateAvatar changes the caller's own picture.
func (s *ProfileService) UpdateAvatar(ctx context.Context, sess *models.Session, avatarURL string) error {
	if !sess.Authenticated() {
		return common.ErrorUnauthorized
	}
	avatarURL = strings.TrimSpace(avatarURL)
	if err := validateAvatarURL(avatarURL); err != nil {
		return err
	}

	return s.repomanager.WithTx(ctx, func(ctx context.Context, tx repomanager.Repositories) error {
		user, err := tx.Users.GetByID(ctx, sess.UserID)
		if err != nil {
			return err
		}
		return setAvatar(ctx, tx, user, avatarURL)
	})
}

func setAvatar(ctx context.Context, tx repomanager.Repositories, user *models.User, avatarURL string) error {
	if err := tx.Users.UpdateAvatar(ctx, user.ID, avatarURL); err != nil {
		return err
	}
	var err error
	switch user.Role {
	case models.RoleStudent:
		err = tx.Students.UpdateAvatar(ctx, user.ID, avatarURL)
	case models.RoleCompany:
		err = tx.Companies.UpdateAvatar(ctx, user.ID, avatarURL)
	}
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return err
}

func validateAvatarURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: avatar must be an http(s) URL", common.ErrorValidation)
	}
	return nil
}

// StudentCard is the public card shown when a student is clicked in the
// ranking.
func (s *ProfileService) StudentCard(ctx context.Context, userID int64) (*models.StudentCard, error) {
	return s.repomanager.Repositories().Students.GetCardByUserID(ctx, userID)
}

// ListStudents feeds the ranking tab.
func (s *ProfileService) ListStudents(ctx context.Context) ([]*models.StudentCard, error) {
	return s.repomanager.Repositories().Students.ListCards(ctx)
}

func (s *ProfileService) ListCreators(ctx context.Context) ([]*models.Creator, error) {
	return s.repomanager.Repositories().Creators.List(ctx)
}

// ClearTarget returns an admin to editing their own profile.
func (s *ProfileService) ClearTarget(sess *models.Session) {
	sess.EditTargetID = nil
}
