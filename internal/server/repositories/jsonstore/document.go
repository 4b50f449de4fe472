// Package jsonstore keeps the whole portal in one versioned JSON document.
// Every mutation rewrites the file atomically; transactions work on a deep
// copy that replaces the live document only on success.
package jsonstore

import (
	"encoding/json"
	"fmt"

	"github.com/ukd-dev/ukdportal/internal/server/models"
)

// CurrentVersion is the document layout written by this package. Files
// without a version field are the legacy timer layout.
const CurrentVersion = 1

type Document struct {
	Version     int                      `json:"version"`
	Users       []*models.User           `json:"users"`
	Students    []*models.StudentProfile `json:"students"`
	Companies   []*models.CompanyProfile `json:"companies"`
	Admins      []*models.AdminProfile   `json:"admins"`
	Subjects    []*models.Subject        `json:"subjects"`
	Absences    []*models.Absence        `json:"absences"`
	Invitations []*models.Invitation     `json:"invitations"`
	Creators    []*models.Creator        `json:"creators"`
	Sequences   map[string]int64         `json:"sequences"`
}

func newDocument() *Document {
	return &Document{Version: CurrentVersion, Sequences: map[string]int64{}}
}

const (
	seqUsers       = "users"
	seqStudents    = "students"
	seqCompanies   = "companies"
	seqAdmins      = "admins"
	seqSubjects    = "subjects"
	seqAbsences    = "absences"
	seqInvitations = "invitations"
	seqCreators    = "creators"
)

// nextID hands out ids that are never reused, even after deletes.
func (d *Document) nextID(kind string) int64 {
	if d.Sequences == nil {
		d.Sequences = map[string]int64{}
	}
	d.Sequences[kind]++
	return d.Sequences[kind]
}

// bumpSequence makes sure future ids stay above id.
func (d *Document) bumpSequence(kind string, id int64) {
	if d.Sequences == nil {
		d.Sequences = map[string]int64{}
	}
	if id > d.Sequences[kind] {
		d.Sequences[kind] = id
	}
}

func (d *Document) clone() (*Document, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("clone document: %w", err)
	}
	out := &Document{}
	if err := json.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("clone document: %w", err)
	}
	if out.Sequences == nil {
		out.Sequences = map[string]int64{}
	}
	return out, nil
}

func (d *Document) user(id int64) *models.User {
	for _, u := range d.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (d *Document) student(id int64) *models.StudentProfile {
	for _, s := range d.Students {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (d *Document) studentByUser(userID int64) *models.StudentProfile {
	for _, s := range d.Students {
		if s.UserID == userID {
			return s
		}
	}
	return nil
}

func (d *Document) company(id int64) *models.CompanyProfile {
	for _, c := range d.Companies {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (d *Document) companyByUser(userID int64) *models.CompanyProfile {
	for _, c := range d.Companies {
		if c.UserID == userID {
			return c
		}
	}
	return nil
}

func (d *Document) subject(id int64) *models.Subject {
	for _, s := range d.Subjects {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (d *Document) invitation(id int64) *models.Invitation {
	for _, inv := range d.Invitations {
		if inv.ID == id {
			return inv
		}
	}
	return nil
}

// filter keeps the elements for which keep returns true and reports how
// many were dropped.
func filter[T any](items []T, keep func(T) bool) ([]T, int) {
	out := items[:0]
	dropped := 0
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		} else {
			dropped++
		}
	}
	return out, dropped
}
