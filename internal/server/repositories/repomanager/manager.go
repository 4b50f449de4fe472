// Package repomanager hands out a consistent set of repositories for the
// configured storage backend and runs multi-step work atomically.
package repomanager

import (
	"context"
	"fmt"

	"github.com/ukd-dev/ukdportal/internal/dbx"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/absences"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/admins"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/companies"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/creators"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/invitations"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/students"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/subjects"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/users"
)

// Repositories is every repository bound to the same connection or
// transaction.
type Repositories struct {
	Users       users.Repository
	Students    students.Repository
	Companies   companies.Repository
	Admins      admins.Repository
	Subjects    subjects.Repository
	Absences    absences.Repository
	Invitations invitations.Repository
	Creators    creators.Repository
}

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Repositories are bound to the pool; each call commits on its own.
	Repositories() Repositories
	// WithTx runs fn against transactional repositories. Nothing fn wrote
	// is visible to others unless it returns nil. fn must only use the
	// repositories it is given.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error
	Close() error
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverJSON     = "json"
)

type Options struct {
	Driver   string
	DSN      string
	JSONPath string
}

// New opens the storage named by opts.Driver. Migrations are not applied
// until RunMigrations is called.
func New(ctx context.Context, opts Options) (RepositoryManager, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		db, err := dbx.Open(ctx, dbx.DialectSQLite, opts.DSN)
		if err != nil {
			return nil, err
		}
		return NewSQLRepositoryManager(db), nil
	case DriverPostgres:
		db, err := dbx.Open(ctx, dbx.DialectPostgres, opts.DSN)
		if err != nil {
			return nil, err
		}
		return NewSQLRepositoryManager(db), nil
	case DriverJSON:
		return NewJSONRepositoryManager(opts.JSONPath)
	}
	return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
}
