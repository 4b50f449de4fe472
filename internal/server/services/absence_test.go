package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repomanager"
)

func TestNormalizeDeadline(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2026-12-31T23:59", want: "2026-12-31T23:59"},
		{in: " 2026-12-31 23:59 ", want: "2026-12-31T23:59"},
		{in: "2026-12-31T23:59:30", want: "2026-12-31T23:59"},
		{in: "31.12.2026", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeDeadline(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrorValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAbsenceService_Create(t *testing.T) {
	eachManager(t, func(t *testing.T, m repomanager.RepositoryManager) {
		ctx := context.Background()
		svc := NewAbsenceService(m)

		teacher := mustAccount(t, m, "teacher", models.RoleTeacher, "Ірина Коваль")
		student := mustAccount(t, m, "ivan", models.RoleStudent, "Іван Петренко")
		company := mustAccount(t, m, "acme", models.RoleCompany, "")
		subj := mustSubject(t, m, "Програмування", &teacher.ID)

		a, err := svc.Create(ctx, SessionFor(teacher), student.ID, subj.ID, "2026-12-31 23:59")
		require.NoError(t, err)
		assert.Equal(t, "2026-12-31T23:59", a.Deadline)
		assert.Equal(t, models.AbsenceActive, a.Status)

		_, err = svc.Create(ctx, SessionFor(student), student.ID, subj.ID, "2026-12-31T23:59")
		assert.ErrorIs(t, err, common.ErrAccessDenied)

		_, err = svc.Create(ctx, nil, student.ID, subj.ID, "2026-12-31T23:59")
		assert.ErrorIs(t, err, common.ErrorUnauthorized)

		_, err = svc.Create(ctx, SessionFor(teacher), company.ID, subj.ID, "2026-12-31T23:59")
		assert.ErrorIs(t, err, common.ErrorNotFound)

		_, err = svc.Create(ctx, SessionFor(teacher), student.ID, 999, "2026-12-31T23:59")
		assert.ErrorIs(t, err, common.ErrorNotFound)

		_, err = svc.Create(ctx, SessionFor(teacher), student.ID, subj.ID, "someday")
		assert.ErrorIs(t, err, common.ErrorValidation)
	})
}

func TestAbsenceService_ListForAndResolve(t *testing.T) {
	eachManager(t, func(t *testing.T, m repomanager.RepositoryManager) {
		ctx := context.Background()
		svc := NewAbsenceService(m)

		admin := mustAccount(t, m, "admin", models.RoleAdmin, "")
		teacher := mustAccount(t, m, "teacher", models.RoleTeacher, "Ірина Коваль")
		ivan := mustAccount(t, m, "ivan", models.RoleStudent, "Іван Петренко")
		olena := mustAccount(t, m, "olena", models.RoleStudent, "Олена Шевчук")
		subj := mustSubject(t, m, "Програмування", &teacher.ID)

		first, err := svc.Create(ctx, SessionFor(admin), ivan.ID, subj.ID, "2026-01-10T12:00")
		require.NoError(t, err)
		_, err = svc.Create(ctx, SessionFor(admin), olena.ID, subj.ID, "2026-01-01T12:00")
		require.NoError(t, err)

		now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.Local)

		all, err := svc.ListFor(ctx, SessionFor(teacher), now)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, olena.ID, all[0].StudentID, "earliest deadline first")
		assert.True(t, all[0].Expired)

		own, err := svc.ListFor(ctx, SessionFor(ivan), now)
		require.NoError(t, err)
		require.Len(t, own, 1)
		assert.False(t, own[0].Expired)
		assert.Equal(t, 5*24*time.Hour, own[0].Remaining)
		assert.Equal(t, "Програмування", own[0].SubjectName)
		assert.Equal(t, "Ірина Коваль", own[0].TeacherName)

		_, err = svc.ListFor(ctx, nil, now)
		assert.ErrorIs(t, err, common.ErrorUnauthorized)

		assert.ErrorIs(t, svc.Resolve(ctx, SessionFor(ivan), first.ID), common.ErrAccessDenied)
		require.NoError(t, svc.Resolve(ctx, SessionFor(teacher), first.ID))
		require.NoError(t, svc.Resolve(ctx, SessionFor(teacher), first.ID), "resolving twice is fine")

		own, err = svc.ListFor(ctx, SessionFor(ivan), now)
		require.NoError(t, err)
		assert.Empty(t, own)
	})
}

func TestAbsenceService_CreateSubject(t *testing.T) {
	m := newSQLManager(t)
	ctx := context.Background()
	svc := NewAbsenceService(m)

	admin := mustAccount(t, m, "admin", models.RoleAdmin, "")
	teacher := mustAccount(t, m, "teacher", models.RoleTeacher, "")
	student := mustAccount(t, m, "ivan", models.RoleStudent, "")

	s, err := svc.CreateSubject(ctx, SessionFor(teacher), " Фізика ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Фізика", s.Name)
	require.NotNil(t, s.TeacherID)
	assert.Equal(t, teacher.ID, *s.TeacherID)

	s, err = svc.CreateSubject(ctx, SessionFor(admin), "Хімія", &teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, teacher.ID, *s.TeacherID)

	_, err = svc.CreateSubject(ctx, SessionFor(admin), "Історія", &student.ID)
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = svc.CreateSubject(ctx, SessionFor(admin), "  ", nil)
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = svc.CreateSubject(ctx, SessionFor(student), "Музика", nil)
	assert.ErrorIs(t, err, common.ErrAccessDenied)

	list, err := svc.ListSubjects(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
