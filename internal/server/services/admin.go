package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/invitations"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repomanager"
)

// AdminService manages accounts. The session-taking methods back the admin
// tab; ResetPassword and SetBlocked serve the operator CLI, which already
// has direct access to the store.
type AdminService struct {
	repomanager repomanager.RepositoryManager
}

func NewAdminService(m repomanager.RepositoryManager) *AdminService {
	return &AdminService{repomanager: m}
}

type AddUserInput struct {
	Username   string
	Email      string
	Password   string
	Role       models.Role
	FullName   string
	Room       string
	AdminLevel int
}

// AddUser creates an account of any role with the profile row it implies.
func (s *AdminService) AddUser(ctx context.Context, sess *models.Session, in AddUserInput) (*models.User, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.createUser(ctx, in)
}

func (s *AdminService) createUser(ctx context.Context, in AddUserInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrorValidation, in.Role)
	}
	if in.Email == "" {
		in.Email = in.Username + "@" + common.DefaultEmailDomain
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		FullName:     strings.TrimSpace(in.FullName),
		Room:         strings.TrimSpace(in.Room),
		Avatar:       common.DefaultAvatarURL,
	}
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx repomanager.Repositories) error {
		return createAccount(ctx, tx, user, in.AdminLevel)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ToggleBlock flips the account between active and blocked and returns the
// new status. Admins cannot block themselves.
func (s *AdminService) ToggleBlock(ctx context.Context, sess *models.Session, userID int64) (models.UserStatus, error) {
	if err := requireAdmin(sess); err != nil {
		return "", err
	}
	if userID == sess.UserID {
		return "", fmt.Errorf("%w: cannot block yourself", common.ErrorValidation)
	}

	repo := s.repomanager.Repositories().Users
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	next := models.StatusBlocked
	if user.Blocked() {
		next = models.StatusActive
	}
	if err := repo.SetStatus(ctx, userID, next); err != nil {
		return "", err
	}
	return next, nil
}

// DeleteUser removes the account and everything that references it in one
// transaction.
func (s *AdminService) DeleteUser(ctx context.Context, sess *models.Session, userID int64) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if userID == sess.UserID {
		return fmt.Errorf("%w: cannot delete yourself", common.ErrorValidation)
	}
	return s.repomanager.WithTx(ctx, func(ctx context.Context, tx repomanager.Repositories) error {
		return deleteAccount(ctx, tx, userID)
	})
}

func deleteAccount(ctx context.Context, tx repomanager.Repositories, userID int64) error {
	if _, err := tx.Users.GetByID(ctx, userID); err != nil {
		return err
	}

	party := invitations.Party{UserID: userID}
	student, err := tx.Students.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		party.StudentID = &student.ID
	case !errors.Is(err, common.ErrorNotFound):
		return err
	}
	company, err := tx.Companies.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		party.CompanyID = &company.ID
	case !errors.Is(err, common.ErrorNotFound):
		return err
	}

	if _, err := tx.Invitations.DeleteForParty(ctx, party); err != nil {
		return err
	}
	if err := tx.Absences.DeleteByStudent(ctx, userID); err != nil {
		return err
	}
	if err := tx.Subjects.ClearTeacher(ctx, userID); err != nil {
		return err
	}
	if err := tx.Students.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	if err := tx.Companies.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	if err := tx.Admins.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	return tx.Users.Delete(ctx, userID)
}

func (s *AdminService) ListUsers(ctx context.Context, sess *models.Session) ([]*models.User, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.repomanager.Repositories().Users.List(ctx)
}

// CreateAdmin bootstraps an ADMIN account from the operator CLI.
func (s *AdminService) CreateAdmin(ctx context.Context, username, password string, level int) (*models.User, error) {
	return s.createUser(ctx, AddUserInput{
		Username:   username,
		Password:   password,
		Role:       models.RoleAdmin,
		AdminLevel: level,
	})
}

// ResetPassword sets a new password for the account matching login.
func (s *AdminService) ResetPassword(ctx context.Context, login, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	repo := s.repomanager.Repositories().Users
	user, err := repo.GetByLogin(ctx, login)
	if err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return repo.UpdatePassword(ctx, user.ID, hash)
}

// SetBlocked blocks or unblocks the account matching login.
func (s *AdminService) SetBlocked(ctx context.Context, login string, blocked bool) error {
	repo := s.repomanager.Repositories().Users
	user, err := repo.GetByLogin(ctx, login)
	if err != nil {
		return err
	}
	status := models.StatusActive
	if blocked {
		status = models.StatusBlocked
	}
	return repo.SetStatus(ctx, user.ID, status)
}
