package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/logging"
	"github.com/ukd-dev/ukdportal/internal/netx"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repomanager"
)

type fakeSource struct {
	rows  [][]string
	err   error
	calls int
}

func (f *fakeSource) Rows(ctx context.Context) ([][]string, error) {
	f.calls++
	return f.rows, f.err
}

var attendanceRows = [][]string{
	{"Журнал відвідування"},
	{"Група ІПЗ-21"},
	{},
	{"№", "ПІБ", "01.09", "02.09", "03.09"},
	{"1", "Іван Петренко", "н", "", " Н "},
	{"2", "Олена Шевчук", "", "", ""},
	{"3", "Дмитро Коваль", "", "н", ""},
	{"4", "123"},
	{"5", ""},
	{"6"},
}

func newImport(m repomanager.RepositoryManager, src *fakeSource) *ImportService {
	return NewImportService(m, src, ImportConfig{HeaderRows: 4}, logging.Nop())
}

func TestImportService_Sync(t *testing.T) {
	fastHashing(t)
	freezeTime(t, time.Date(2026, 9, 1, 10, 30, 0, 0, time.Local))

	eachManager(t, func(t *testing.T, m repomanager.RepositoryManager) {
		ctx := context.Background()
		teacher := mustAccount(t, m, "teacher", models.RoleTeacher, "")
		subj := mustSubject(t, m, "Загальновійськова підготовка", nil)
		mustSubject(t, m, "Програмування", nil)
		existing := mustAccount(t, m, "olena", models.RoleStudent, "Олена Шевчук")

		src := &fakeSource{rows: attendanceRows}
		svc := newImport(m, src)

		res, err := svc.Sync(ctx, SessionFor(teacher))
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, 2, res.StudentsCreated, "Олена already has an account")
		assert.Equal(t, 2, res.AbsencesCreated, "two marks for one student and subject count once")
		assert.Equal(t, "Синхронізація успішна! Додано студентів: 2, виявлено Н: 2.", res.Message)

		repos := m.Repositories()
		ivan, err := repos.Users.FindStudentByFullName(ctx, "Іван Петренко")
		require.NoError(t, err)
		assert.Regexp(t, `^std_\d+$`, ivan.Username)
		assert.Equal(t, ivan.Username+"@ukd.edu.ua", ivan.Email)

		p, err := repos.Students.GetByUserID(ctx, ivan.ID)
		require.NoError(t, err)
		assert.Equal(t, "Іван", p.FirstName)
		assert.Equal(t, "Петренко", p.LastName)
		assert.Equal(t, "ІПЗ", p.Specialty)

		abs, err := repos.Absences.ListByStudent(ctx, ivan.ID)
		require.NoError(t, err)
		require.Len(t, abs, 1)
		assert.Equal(t, subj.ID, abs[0].SubjectID, "the first subject is used")
		assert.Equal(t, "2026-09-15T23:59", abs[0].Deadline)

		none, err := repos.Absences.ListByStudent(ctx, existing.ID)
		require.NoError(t, err)
		assert.Empty(t, none)

		again, err := svc.Sync(ctx, SessionFor(teacher))
		require.NoError(t, err)
		assert.True(t, again.Success)
		assert.Zero(t, again.StudentsCreated)
		assert.Zero(t, again.AbsencesCreated)
	})
}

func TestImportService_Sync_ConfiguredSubjectAndMarker(t *testing.T) {
	fastHashing(t)
	m := newSQLManager(t)
	ctx := context.Background()
	admin := mustAccount(t, m, "root", models.RoleAdmin, "")
	mustSubject(t, m, "Загальновійськова підготовка", nil)
	prog := mustSubject(t, m, "Програмування", nil)

	src := &fakeSource{rows: [][]string{
		{"header"},
		{"1", "Іван Петренко", "x", "н"},
	}}
	svc := NewImportService(m, src, ImportConfig{HeaderRows: 1, Marker: "x", SubjectID: prog.ID, DeadlineDays: 7}, logging.Nop())

	res, err := svc.Sync(ctx, SessionFor(admin))
	require.NoError(t, err)
	assert.Equal(t, 1, res.AbsencesCreated)

	abs, err := m.Repositories().Absences.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, abs, 1)
	assert.Equal(t, prog.ID, abs[0].SubjectID)
}

func TestImportService_Sync_Failures(t *testing.T) {
	m := newSQLManager(t)
	ctx := context.Background()
	teacher := mustAccount(t, m, "teacher", models.RoleTeacher, "")
	student := mustAccount(t, m, "ivan", models.RoleStudent, "")

	t.Run("forbidden for students", func(t *testing.T) {
		src := &fakeSource{rows: attendanceRows}
		_, err := newImport(m, src).Sync(ctx, SessionFor(student))
		assert.ErrorIs(t, err, common.ErrAccessDenied)
		assert.Zero(t, src.calls, "the sheet is not fetched")
	})

	t.Run("http status", func(t *testing.T) {
		src := &fakeSource{err: &netx.StatusError{StatusCode: 403}}
		res, err := newImport(m, src).Sync(ctx, SessionFor(teacher))
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Помилка доступу: 403", res.Message)
	})

	t.Run("transport error", func(t *testing.T) {
		src := &fakeSource{err: errors.New("dial tcp: timeout")}
		res, err := newImport(m, src).Sync(ctx, SessionFor(teacher))
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, "Помилка: dial tcp: timeout", res.Message)
	})

	t.Run("no subjects", func(t *testing.T) {
		src := &fakeSource{rows: attendanceRows}
		res, err := newImport(m, src).Sync(ctx, SessionFor(teacher))
		require.NoError(t, err)
		assert.False(t, res.Success)

		n, err := m.Repositories().Users.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n, "nothing is created without a subject")
	})
}

func TestIsDigits(t *testing.T) {
	assert.True(t, isDigits("123"))
	assert.False(t, isDigits(""))
	assert.False(t, isDigits("12a"))
}
