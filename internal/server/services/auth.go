package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/cryptox"
	"github.com/ukd-dev/ukdportal/internal/server/auth"
	"github.com/ukd-dev/ukdportal/internal/server/config"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repomanager"
)

// AuthService checks credentials, registers self-service accounts and
// mints API tokens.
type AuthService struct {
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	dummyHash                   string
}

func NewAuthService(m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	// compared against when the login is unknown so both paths cost the same
	dummy, _ := hashPassword(string(common.GenerateRandByteArray(16)))
	return &AuthService{
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		dummyHash:                   dummy,
	}
}

// Authenticate matches identifier against username or email. The blocked
// check runs only after the password matched, so a blocked account does not
// reveal itself to someone guessing.
func (s *AuthService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, common.ErrInvalidCredentials
	}

	user, err := s.repomanager.Repositories().Users.GetByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.VerifyPassword(s.dummyHash, password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if !cryptox.VerifyPassword(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}
	if user.Blocked() {
		return nil, common.ErrAccountBlocked
	}
	return user, nil
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     models.Role
}

// Register creates a STUDENT or COMPANY account together with its profile.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}
	if !in.Role.In(models.RoleStudent, models.RoleCompany) {
		return nil, fmt.Errorf("%w: role %q cannot self-register", common.ErrorValidation, in.Role)
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
		Avatar:       common.DefaultAvatarURL,
	}

	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx repomanager.Repositories) error {
		return createAccount(ctx, tx, user, 0)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// createAccount inserts user and the profile row its role implies.
func createAccount(ctx context.Context, tx repomanager.Repositories, user *models.User, adminLevel int) error {
	if _, err := tx.Users.Create(ctx, user); err != nil {
		return err
	}

	switch user.Role {
	case models.RoleStudent:
		first, last := user.Username, "Student"
		if user.FullName != "" {
			first, last = models.SplitFullName(user.FullName)
		}
		_, err := tx.Students.Create(ctx, &models.StudentProfile{
			UserID:    user.ID,
			FirstName: first,
			LastName:  last,
			Course:    "1",
			Avatar:    user.Avatar,
		})
		return err
	case models.RoleCompany:
		name := user.FullName
		if name == "" {
			name = user.Username
		}
		_, err := tx.Companies.Create(ctx, &models.CompanyProfile{
			UserID:      user.ID,
			CompanyName: name,
			Avatar:      user.Avatar,
		})
		return err
	case models.RoleAdmin:
		_, err := tx.Admins.Create(ctx, &models.AdminProfile{UserID: user.ID, Level: adminLevel})
		return err
	}
	return nil
}

// IssueToken authenticates and returns a signed bearer token.
func (s *AuthService) IssueToken(ctx context.Context, identifier, password string) (string, *models.User, error) {
	user, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return "", nil, err
	}
	token, err := auth.GenerateToken(user.ID, user.Role, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, user, nil
}

// UserFromToken validates a bearer token and reloads its account, so a
// block or delete takes effect before the token expires.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	user, err := s.Reload(ctx, claims.UserID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrInvalidToken
	}
	return user, err
}

// Reload fetches the account behind an existing login. A deleted account
// yields common.ErrorNotFound and a blocked one common.ErrAccountBlocked.
func (s *AuthService) Reload(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repomanager.Repositories().Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if user.Blocked() {
		return nil, common.ErrAccountBlocked
	}
	return user, nil
}

// SessionFor builds the request identity for an authenticated user.
func SessionFor(user *models.User) *models.Session {
	return &models.Session{UserID: user.ID, Role: user.Role, Username: user.Username}
}
