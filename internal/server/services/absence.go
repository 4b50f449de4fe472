package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repomanager"
)

// deadlineLayouts are accepted on input; everything is stored in the first.
var deadlineLayouts = []string{
	common.DeadlineLayout,
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
}

// NormalizeDeadline parses a naive local deadline and renders it in
// common.DeadlineLayout.
func NormalizeDeadline(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t.Format(common.DeadlineLayout), nil
		}
	}
	return "", fmt.Errorf("%w: deadline %q is not YYYY-MM-DDTHH:MM", common.ErrorValidation, raw)
}

type AbsenceService struct {
	repomanager repomanager.RepositoryManager
}

func NewAbsenceService(m repomanager.RepositoryManager) *AbsenceService {
	return &AbsenceService{repomanager: m}
}

// Create records a "Н" for studentID in subjectID. Staff only.
func (s *AbsenceService) Create(ctx context.Context, sess *models.Session, studentID, subjectID int64, deadline string) (*models.Absence, error) {
	if err := requireStaff(sess); err != nil {
		return nil, err
	}
	normalized, err := NormalizeDeadline(deadline)
	if err != nil {
		return nil, err
	}

	repos := s.repomanager.Repositories()

	student, err := repos.Users.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student.Role != models.RoleStudent {
		return nil, fmt.Errorf("%w: user %d is not a student", common.ErrorNotFound, studentID)
	}
	if _, err := repos.Subjects.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}

	return repos.Absences.Create(ctx, &models.Absence{
		StudentID: studentID,
		SubjectID: subjectID,
		Deadline:  normalized,
	})
}

// Resolve removes the absence. Resolving one that is already gone succeeds.
func (s *AbsenceService) Resolve(ctx context.Context, sess *models.Session, absenceID int64) error {
	if err := requireStaff(sess); err != nil {
		return err
	}
	return s.repomanager.Repositories().Absences.Delete(ctx, absenceID)
}

// ListFor returns every absence for staff and the caller's own otherwise,
// with the countdown computed against now.
func (s *AbsenceService) ListFor(ctx context.Context, sess *models.Session, now time.Time) ([]*models.AbsenceView, error) {
	if !sess.Authenticated() {
		return nil, common.ErrorUnauthorized
	}

	repo := s.repomanager.Repositories().Absences
	var (
		list []*models.AbsenceView
		err  error
	)
	if sess.Role.IsStaff() {
		list, err = repo.ListAll(ctx)
	} else {
		list, err = repo.ListByStudent(ctx, sess.UserID)
	}
	if err != nil {
		return nil, err
	}

	for _, v := range list {
		v.Countdown(now)
	}
	return list, nil
}

func (s *AbsenceService) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	return s.repomanager.Repositories().Subjects.List(ctx)
}

// CreateSubject adds a subject. A teacher creating one becomes its owner;
// an admin may name any teacher or none.
func (s *AbsenceService) CreateSubject(ctx context.Context, sess *models.Session, name string, teacherID *int64) (*models.Subject, error) {
	if err := requireStaff(sess); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: subject name is required", common.ErrorValidation)
	}

	repos := s.repomanager.Repositories()
	if sess.Role == models.RoleTeacher {
		id := sess.UserID
		teacherID = &id
	} else if teacherID != nil {
		teacher, err := repos.Users.GetByID(ctx, *teacherID)
		if err != nil {
			return nil, err
		}
		if teacher.Role != models.RoleTeacher && teacher.Role != models.RoleAdmin {
			return nil, fmt.Errorf("%w: user %d cannot teach", common.ErrorValidation, *teacherID)
		}
	}

	return repos.Subjects.Create(ctx, &models.Subject{Name: name, TeacherID: teacherID})
}
