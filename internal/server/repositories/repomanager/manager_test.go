package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukd-dev/ukdportal/internal/dbx"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repotest"
)

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), Options{Driver: "mongo"})
	require.Error(t, err)
}

func TestSQLManager_RunMigrations_UsesDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var gotDialect dbx.Dialect
	orig := migrateUp
	migrateUp = func(ctx context.Context, raw *sql.DB, d dbx.Dialect) error {
		gotDialect = d
		return errors.New("boom")
	}
	defer func() { migrateUp = orig }()

	m := NewSQLRepositoryManager(&dbx.DB{DB: db, Dialect: dbx.DialectPostgres})
	err = m.RunMigrations(context.Background())
	require.EqualError(t, err, "boom")
	assert.Equal(t, dbx.DialectPostgres, gotDialect)
}

// managers returns every backend, migrated and empty.
func managers(t *testing.T) map[string]RepositoryManager {
	t.Helper()
	jm, err := NewJSONRepositoryManager(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	return map[string]RepositoryManager{
		"sqlite": NewSQLRepositoryManager(repotest.NewSQLite(t)),
		"json":   jm,
	}
}

func TestWithTx_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	for name, m := range managers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, m.RunMigrations(ctx))

			err := m.WithTx(ctx, func(ctx context.Context, tx Repositories) error {
				u, err := tx.Users.Create(ctx, &models.User{Username: "ivan", Email: "ivan@ukd.edu.ua", Role: models.RoleStudent})
				if err != nil {
					return err
				}
				_, err = tx.Students.Create(ctx, &models.StudentProfile{UserID: u.ID, FirstName: "ivan", LastName: "Student"})
				return err
			})
			require.NoError(t, err)

			boom := errors.New("boom")
			err = m.WithTx(ctx, func(ctx context.Context, tx Repositories) error {
				if _, err := tx.Users.Create(ctx, &models.User{Username: "ghost", Role: models.RoleCompany}); err != nil {
					return err
				}
				return boom
			})
			require.ErrorIs(t, err, boom)

			n, err := m.Repositories().Users.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			card, err := m.Repositories().Students.ListCards(ctx)
			require.NoError(t, err)
			require.Len(t, card, 1)
			assert.Equal(t, "ivan@ukd.edu.ua", card[0].Email)
		})
	}
}
