package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/ukd-dev/ukdportal/internal/filex"
)

// Store owns the live document and its file.
type Store struct {
	mu   sync.RWMutex
	path string
	doc  *Document
}

// Open loads path, creating an empty document when the file does not exist.
// A legacy document is migrated once and written back in the current layout.
// The returned flag reports whether such a migration happened.
func Open(path string) (*Store, bool, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.doc = newDocument()
		return s, false, s.persist(s.doc)
	case err != nil:
		return nil, false, fmt.Errorf("read store: %w", err)
	}

	doc, migrated, err := decode(raw)
	if err != nil {
		return nil, false, err
	}
	s.doc = doc
	if migrated {
		if err := s.persist(doc); err != nil {
			return nil, false, err
		}
	}
	return s, migrated, nil
}

func decode(raw []byte) (*Document, bool, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false, fmt.Errorf("decode store: %w", err)
	}

	switch {
	case probe.Version == 0:
		doc, err := migrateLegacy(raw)
		if err != nil {
			return nil, false, err
		}
		return doc, true, nil
	case probe.Version > CurrentVersion:
		return nil, false, fmt.Errorf("store version %d is newer than supported %d", probe.Version, CurrentVersion)
	}

	doc := newDocument()
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, false, fmt.Errorf("decode store: %w", err)
	}
	if doc.Sequences == nil {
		doc.Sequences = map[string]int64{}
	}
	return doc, false, nil
}

func (s *Store) persist(doc *Document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	return filex.WriteFileAtomic(s.path, b, 0o600)
}

// handle gives repositories access to either the live document or the
// private copy of a running transaction.
type handle struct {
	store *Store
	tx    *Document
}

func (h *handle) read(fn func(d *Document) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	return fn(h.store.doc)
}

func (h *handle) write(fn func(d *Document) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	return h.store.update(fn)
}

func (s *Store) update(fn func(d *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.doc.clone()
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		return err
	}
	if err := s.persist(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

// Set is the full group of repositories bound to one handle.
type Set struct {
	Users       *UserRepository
	Students    *StudentRepository
	Companies   *CompanyRepository
	Admins      *AdminRepository
	Subjects    *SubjectRepository
	Absences    *AbsenceRepository
	Invitations *InvitationRepository
	Creators    *CreatorRepository
}

func newSet(h *handle) Set {
	return Set{
		Users:       &UserRepository{h: h},
		Students:    &StudentRepository{h: h},
		Companies:   &CompanyRepository{h: h},
		Admins:      &AdminRepository{h: h},
		Subjects:    &SubjectRepository{h: h},
		Absences:    &AbsenceRepository{h: h},
		Invitations: &InvitationRepository{h: h},
		Creators:    &CreatorRepository{h: h},
	}
}

// Repositories work on the live document; each write is its own commit.
func (s *Store) Repositories() Set {
	return newSet(&handle{store: s})
}

// WithTx runs fn against a private copy of the document. The copy is
// written and published only when fn succeeds. Writers are serialized for
// the whole call, so fn must not use repositories from Repositories.
func (s *Store) WithTx(fn func(tx Set) error) error {
	return s.update(func(d *Document) error {
		return fn(newSet(&handle{store: s, tx: d}))
	})
}

// Path is the backing file.
func (s *Store) Path() string { return s.path }
