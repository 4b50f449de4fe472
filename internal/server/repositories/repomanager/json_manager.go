package repomanager

import (
	"context"

	"github.com/ukd-dev/ukdportal/internal/server/repositories/jsonstore"
)

// JSONRepositoryManager keeps everything in a single document file.
type JSONRepositoryManager struct {
	store *jsonstore.Store

	// LegacyMigrated is set when opening converted an old timer document.
	LegacyMigrated bool
}

func NewJSONRepositoryManager(path string) (*JSONRepositoryManager, error) {
	store, migrated, err := jsonstore.Open(path)
	if err != nil {
		return nil, err
	}
	return &JSONRepositoryManager{store: store, LegacyMigrated: migrated}, nil
}

// RunMigrations is a no-op: the document is upgraded when it is opened.
func (m *JSONRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func jsonRepositories(set jsonstore.Set) Repositories {
	return Repositories{
		Users:       set.Users,
		Students:    set.Students,
		Companies:   set.Companies,
		Admins:      set.Admins,
		Subjects:    set.Subjects,
		Absences:    set.Absences,
		Invitations: set.Invitations,
		Creators:    set.Creators,
	}
}

func (m *JSONRepositoryManager) Repositories() Repositories {
	return jsonRepositories(m.store.Repositories())
}

func (m *JSONRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error {
	return m.store.WithTx(func(set jsonstore.Set) error {
		return fn(ctx, jsonRepositories(set))
	})
}

func (m *JSONRepositoryManager) Close() error { return nil }
