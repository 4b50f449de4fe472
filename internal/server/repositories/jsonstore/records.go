package jsonstore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/invitations"
)

type SubjectRepository struct {
	h *handle
}

func copySubject(s *models.Subject) *models.Subject {
	c := *s
	if s.TeacherID != nil {
		id := *s.TeacherID
		c.TeacherID = &id
	}
	return &c
}

func (r *SubjectRepository) Create(ctx context.Context, s *models.Subject) (*models.Subject, error) {
	err := r.h.write(func(d *Document) error {
		for _, cur := range d.Subjects {
			if cur.Name == s.Name {
				return common.ErrorAlreadyExists
			}
		}
		s.ID = d.nextID(seqSubjects)
		d.Subjects = append(d.Subjects, copySubject(s))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	var out *models.Subject
	err := r.h.read(func(d *Document) error {
		s := d.subject(id)
		if s == nil {
			return common.ErrorNotFound
		}
		out = copySubject(s)
		return nil
	})
	return out, err
}

func (r *SubjectRepository) List(ctx context.Context) ([]*models.Subject, error) {
	var out []*models.Subject
	err := r.h.read(func(d *Document) error {
		for _, s := range d.Subjects {
			out = append(out, copySubject(s))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *models.Subject) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

func (r *SubjectRepository) ClearTeacher(ctx context.Context, teacherID int64) error {
	return r.h.write(func(d *Document) error {
		for _, s := range d.Subjects {
			if s.TeacherID != nil && *s.TeacherID == teacherID {
				s.TeacherID = nil
			}
		}
		return nil
	})
}

type AbsenceRepository struct {
	h *handle
}

func (r *AbsenceRepository) Create(ctx context.Context, a *models.Absence) (*models.Absence, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.Status == "" {
		a.Status = models.AbsenceActive
	}
	err := r.h.write(func(d *Document) error {
		if d.user(a.StudentID) == nil || d.subject(a.SubjectID) == nil {
			return common.ErrorNotFound
		}
		a.ID = d.nextID(seqAbsences)
		c := *a
		d.Absences = append(d.Absences, &c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AbsenceRepository) Delete(ctx context.Context, id int64) error {
	return r.h.write(func(d *Document) error {
		d.Absences, _ = filter(d.Absences, func(a *models.Absence) bool { return a.ID != id })
		return nil
	})
}

func (r *AbsenceRepository) Exists(ctx context.Context, studentID, subjectID int64) (bool, error) {
	var found bool
	err := r.h.read(func(d *Document) error {
		found = slices.ContainsFunc(d.Absences, func(a *models.Absence) bool {
			return a.StudentID == studentID && a.SubjectID == subjectID
		})
		return nil
	})
	return found, err
}

func (r *AbsenceRepository) list(keep func(a *models.Absence) bool) ([]*models.AbsenceView, error) {
	var out []*models.AbsenceView
	err := r.h.read(func(d *Document) error {
		for _, a := range d.Absences {
			if !keep(a) {
				continue
			}
			subject, student := d.subject(a.SubjectID), d.user(a.StudentID)
			if subject == nil || student == nil {
				continue
			}
			v := &models.AbsenceView{
				Absence:     *a,
				SubjectName: subject.Name,
				StudentName: student.DisplayName(),
			}
			if subject.TeacherID != nil {
				if t := d.user(*subject.TeacherID); t != nil {
					v.TeacherName = t.DisplayName()
					v.TeacherEmail = t.Email
					v.TeacherRoom = t.Room
				}
			}
			out = append(out, v)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *models.AbsenceView) int {
		return cmp.Or(strings.Compare(a.Deadline, b.Deadline), cmp.Compare(a.ID, b.ID))
	})
	return out, err
}

func (r *AbsenceRepository) ListAll(ctx context.Context) ([]*models.AbsenceView, error) {
	return r.list(func(*models.Absence) bool { return true })
}

func (r *AbsenceRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.AbsenceView, error) {
	return r.list(func(a *models.Absence) bool { return a.StudentID == studentID })
}

func (r *AbsenceRepository) DeleteByStudent(ctx context.Context, studentID int64) error {
	return r.h.write(func(d *Document) error {
		d.Absences, _ = filter(d.Absences, func(a *models.Absence) bool { return a.StudentID != studentID })
		return nil
	})
}

type InvitationRepository struct {
	h *handle
}

func copyInvitation(inv *models.Invitation) *models.Invitation {
	c := *inv
	if inv.CompanyID != nil {
		id := *inv.CompanyID
		c.CompanyID = &id
	}
	return &c
}

func (r *InvitationRepository) Create(ctx context.Context, inv *models.Invitation) (*models.Invitation, error) {
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	if inv.Status == "" {
		inv.Status = models.InvitationPending
	}
	err := r.h.write(func(d *Document) error {
		if d.student(inv.StudentID) == nil || d.user(inv.SenderID) == nil {
			return common.ErrorNotFound
		}
		if inv.CompanyID != nil && d.company(*inv.CompanyID) == nil {
			return common.ErrorNotFound
		}
		inv.ID = d.nextID(seqInvitations)
		d.Invitations = append(d.Invitations, copyInvitation(inv))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InvitationRepository) GetByID(ctx context.Context, id int64) (*models.Invitation, error) {
	var out *models.Invitation
	err := r.h.read(func(d *Document) error {
		inv := d.invitation(id)
		if inv == nil {
			return common.ErrorNotFound
		}
		out = copyInvitation(inv)
		return nil
	})
	return out, err
}

func (r *InvitationRepository) list(keep func(inv *models.Invitation) bool, order func(a, b *models.InvitationView) int) ([]*models.InvitationView, error) {
	var out []*models.InvitationView
	err := r.h.read(func(d *Document) error {
		for _, inv := range d.Invitations {
			if !keep(inv) {
				continue
			}
			student, sender := d.student(inv.StudentID), d.user(inv.SenderID)
			if student == nil || sender == nil {
				continue
			}
			v := &models.InvitationView{
				Invitation:    *copyInvitation(inv),
				StudentName:   student.FullName(),
				StudentUserID: student.UserID,
				SenderName:    sender.DisplayName(),
			}
			if inv.CompanyID != nil {
				if c := d.company(*inv.CompanyID); c != nil {
					v.CompanyName = c.CompanyName
				}
			}
			out = append(out, v)
		}
		return nil
	})
	slices.SortFunc(out, order)
	return out, err
}

func newestFirst(a, b *models.InvitationView) int { return cmp.Compare(b.ID, a.ID) }

func (r *InvitationRepository) ListAll(ctx context.Context) ([]*models.InvitationView, error) {
	return r.list(func(*models.Invitation) bool { return true }, func(a, b *models.InvitationView) int {
		if a.Flagged != b.Flagged {
			if a.Flagged {
				return -1
			}
			return 1
		}
		return newestFirst(a, b)
	})
}

func (r *InvitationRepository) ListBySender(ctx context.Context, senderID int64) ([]*models.InvitationView, error) {
	return r.list(func(inv *models.Invitation) bool { return inv.SenderID == senderID }, newestFirst)
}

func (r *InvitationRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.InvitationView, error) {
	return r.list(func(inv *models.Invitation) bool { return inv.StudentID == studentID }, newestFirst)
}

func (r *InvitationRepository) CountPending(ctx context.Context, studentID int64) (int, error) {
	var n int
	err := r.h.read(func(d *Document) error {
		for _, inv := range d.Invitations {
			if inv.StudentID == studentID && inv.Status == models.InvitationPending {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *InvitationRepository) SetStatus(ctx context.Context, id int64, status models.InvitationStatus) (bool, error) {
	var changed bool
	err := r.h.write(func(d *Document) error {
		inv := d.invitation(id)
		if inv == nil || inv.Status != models.InvitationPending {
			return nil
		}
		inv.Status = status
		changed = true
		return nil
	})
	return changed, err
}

func (r *InvitationRepository) SetFlagged(ctx context.Context, id int64) (bool, error) {
	var changed bool
	err := r.h.write(func(d *Document) error {
		inv := d.invitation(id)
		if inv == nil || inv.Flagged {
			return nil
		}
		inv.Flagged = true
		changed = true
		return nil
	})
	return changed, err
}

func (r *InvitationRepository) Delete(ctx context.Context, id int64) error {
	return r.h.write(func(d *Document) error {
		d.Invitations, _ = filter(d.Invitations, func(inv *models.Invitation) bool { return inv.ID != id })
		return nil
	})
}

func (r *InvitationRepository) DeleteForParty(ctx context.Context, p invitations.Party) (int64, error) {
	var dropped int
	err := r.h.write(func(d *Document) error {
		d.Invitations, dropped = filter(d.Invitations, func(inv *models.Invitation) bool {
			switch {
			case inv.SenderID == p.UserID:
				return false
			case p.StudentID != nil && inv.StudentID == *p.StudentID:
				return false
			case p.CompanyID != nil && inv.CompanyID != nil && *inv.CompanyID == *p.CompanyID:
				return false
			}
			return true
		})
		return nil
	})
	return int64(dropped), err
}

type CreatorRepository struct {
	h *handle
}

func (r *CreatorRepository) Create(ctx context.Context, c *models.Creator) (*models.Creator, error) {
	err := r.h.write(func(d *Document) error {
		c.ID = d.nextID(seqCreators)
		cp := *c
		d.Creators = append(d.Creators, &cp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CreatorRepository) List(ctx context.Context) ([]*models.Creator, error) {
	var out []*models.Creator
	err := r.h.read(func(d *Document) error {
		for _, c := range d.Creators {
			cp := *c
			out = append(out, &cp)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *models.Creator) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}
