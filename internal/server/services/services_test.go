package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repomanager"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repotest"
)

func newSQLManager(t *testing.T) repomanager.RepositoryManager {
	t.Helper()
	return repomanager.NewSQLRepositoryManager(repotest.NewSQLite(t))
}

func newJSONManager(t *testing.T) repomanager.RepositoryManager {
	t.Helper()
	m, err := repomanager.NewJSONRepositoryManager(filepath.Join(t.TempDir(), "ukd_data.json"))
	require.NoError(t, err)
	return m
}

// eachManager runs fn once per storage backend.
func eachManager(t *testing.T, fn func(t *testing.T, m repomanager.RepositoryManager)) {
	t.Helper()
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLManager(t)) })
	t.Run("json", func(t *testing.T) { fn(t, newJSONManager(t)) })
}

// fastHashing swaps argon2 for a reversible stand-in. Tests that log in
// must not use it.
func fastHashing(t *testing.T) {
	t.Helper()
	orig := hashPassword
	hashPassword = func(pw string) (string, error) { return "plain:" + pw, nil }
	t.Cleanup(func() { hashPassword = orig })
}

func freezeTime(t *testing.T, now time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = orig })
}

// mustAccount creates an account with the profile its role implies.
func mustAccount(t *testing.T, m repomanager.RepositoryManager, username string, role models.Role, fullName string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@" + common.DefaultEmailDomain,
		PasswordHash: "x",
		Role:         role,
		FullName:     fullName,
		Avatar:       common.DefaultAvatarURL,
	}
	err := m.WithTx(context.Background(), func(ctx context.Context, tx repomanager.Repositories) error {
		return createAccount(ctx, tx, u, 1)
	})
	require.NoError(t, err)
	return u
}

func mustSubject(t *testing.T, m repomanager.RepositoryManager, name string, teacherID *int64) *models.Subject {
	t.Helper()
	s, err := m.Repositories().Subjects.Create(context.Background(), &models.Subject{Name: name, TeacherID: teacherID})
	require.NoError(t, err)
	return s
}

func studentProfileID(t *testing.T, m repomanager.RepositoryManager, userID int64) int64 {
	t.Helper()
	p, err := m.Repositories().Students.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	return p.ID
}
