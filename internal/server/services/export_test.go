package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
)

func cellValue(t *testing.T, sh *xlsx.Sheet, row, col int) string {
	t.Helper()
	c, err := sh.Cell(row, col)
	require.NoError(t, err)
	return c.Value
}

func TestExportService_AbsencesXLSX(t *testing.T) {
	m := newSQLManager(t)
	ctx := context.Background()
	teacher := mustAccount(t, m, "teacher", models.RoleTeacher, "Ірина Коваль")
	ivan := mustAccount(t, m, "ivan", models.RoleStudent, "Іван Петренко")
	subj := mustSubject(t, m, "Програмування", &teacher.ID)

	abs := NewAbsenceService(m)
	_, err := abs.Create(ctx, SessionFor(teacher), ivan.ID, subj.ID, "2026-01-01T10:00")
	require.NoError(t, err)
	_, err = abs.Create(ctx, SessionFor(teacher), ivan.ID, subj.ID, "2026-02-01T10:00")
	require.NoError(t, err)

	svc := NewExportService(m)
	var buf bytes.Buffer
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local)
	require.NoError(t, svc.AbsencesXLSX(ctx, SessionFor(teacher), now, &buf))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sh, ok := file.Sheet[absenceSheetName]
	require.True(t, ok)

	assert.Equal(t, "Студент", cellValue(t, sh, 0, 1))
	assert.Equal(t, "Іван Петренко", cellValue(t, sh, 1, 1))
	assert.Equal(t, "Програмування", cellValue(t, sh, 1, 2))
	assert.Equal(t, "2026-01-01T10:00", cellValue(t, sh, 1, 6))
	assert.Equal(t, "прострочено", cellValue(t, sh, 1, 7))
	assert.Equal(t, "активне", cellValue(t, sh, 2, 7))

	err = svc.AbsencesXLSX(ctx, SessionFor(ivan), now, &buf)
	assert.ErrorIs(t, err, common.ErrAccessDenied)
}
