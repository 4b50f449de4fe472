package services

import (
	"context"
	"errors"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/logging"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repomanager"
)

const (
	defaultAdminLogin = "admin"
	defaultAdminLevel = 10
)

var defaultSubjects = []string{"Загальновійськова підготовка", "Програмування"}

// Seed fills an empty store with the default admin, subjects and creators.
// Each part is skipped when something of its kind already exists, so Seed
// runs on every start.
func Seed(ctx context.Context, m repomanager.RepositoryManager, adminPassword string, logger logging.Logger) error {
	return m.WithTx(ctx, func(ctx context.Context, tx repomanager.Repositories) error {
		if err := seedAdmin(ctx, tx, adminPassword, logger); err != nil {
			return err
		}
		if err := seedSubjects(ctx, tx, logger); err != nil {
			return err
		}
		return seedCreators(ctx, tx, logger)
	})
}

func seedAdmin(ctx context.Context, tx repomanager.Repositories, password string, logger logging.Logger) error {
	_, err := tx.Users.GetByLogin(ctx, defaultAdminLogin)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	if password == "" {
		logger.Warn(ctx, "no admin password configured, default admin not created")
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	user := &models.User{
		Username:     defaultAdminLogin,
		Email:        defaultAdminLogin + "@" + common.DefaultEmailDomain,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		FullName:     "Адміністратор",
		Avatar:       common.DefaultAvatarURL,
	}
	if err := createAccount(ctx, tx, user, defaultAdminLevel); err != nil {
		return err
	}
	logger.Info(ctx, "default admin created", "username", user.Username)
	return nil
}

func seedSubjects(ctx context.Context, tx repomanager.Repositories, logger logging.Logger) error {
	list, err := tx.Subjects.List(ctx)
	if err != nil {
		return err
	}
	if len(list) > 0 {
		return nil
	}
	for _, name := range defaultSubjects {
		if _, err := tx.Subjects.Create(ctx, &models.Subject{Name: name}); err != nil {
			return err
		}
	}
	logger.Info(ctx, "default subjects created", "count", len(defaultSubjects))
	return nil
}

func seedCreators(ctx context.Context, tx repomanager.Repositories, logger logging.Logger) error {
	list, err := tx.Creators.List(ctx)
	if err != nil {
		return err
	}
	if len(list) > 0 {
		return nil
	}
	for _, c := range models.DefaultCreators() {
		if _, err := tx.Creators.Create(ctx, &c); err != nil {
			return err
		}
	}
	return nil
}
