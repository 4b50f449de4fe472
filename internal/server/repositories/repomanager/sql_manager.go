package repomanager

import (
	"context"

	"github.com/ukd-dev/ukdportal/internal/dbx"
	"github.com/ukd-dev/ukdportal/internal/server/migrations"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/absences"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/admins"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/companies"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/creators"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/invitations"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/students"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/subjects"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/users"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// SQLRepositoryManager serves both SQL dialects; queries are rebound by dbx.
type SQLRepositoryManager struct {
	db *dbx.DB
}

func NewSQLRepositoryManager(db *dbx.DB) *SQLRepositoryManager {
	return &SQLRepositoryManager{db: db}
}

// migrateUp is a seam for tests.
var migrateUp = migrations.Up

func (m *SQLRepositoryManager) RunMigrations(ctx context.Context) error {
	return migrateUp(ctx, m.db.DB, m.db.Dialect)
}

func sqlRepositories(db dbx.DBTX) Repositories {
	return Repositories{
		Users:       users.NewSQLRepository(db),
		Students:    students.NewSQLRepository(db),
		Companies:   companies.NewSQLRepository(db),
		Admins:      admins.NewSQLRepository(db),
		Subjects:    subjects.NewSQLRepository(db),
		Absences:    absences.NewSQLRepository(db),
		Invitations: invitations.NewSQLRepository(db),
		Creators:    creators.NewSQLRepository(db),
	}
}

func (m *SQLRepositoryManager) Repositories() Repositories {
	return sqlRepositories(m.db.Conn())
}

func (m *SQLRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, sqlRepositories(tx))
	})
}

// DB exposes the pool for health checks.
func (m *SQLRepositoryManager) DB() *dbx.DB { return m.db }

func (m *SQLRepositoryManager) Close() error {
	return m.db.Close()
}
