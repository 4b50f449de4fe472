package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repomanager"
)

const absenceSheetName = "Відпрацювання"

var absenceExportHeaders = []string{
	"ID", "Студент", "Предмет", "Викладач", "Email викладача", "Аудиторія", "Дедлайн", "Статус",
}

// ExportService writes reports for staff.
type ExportService struct {
	repomanager repomanager.RepositoryManager
}

func NewExportService(m repomanager.RepositoryManager) *ExportService {
	return &ExportService{repomanager: m}
}

// AbsencesXLSX writes every open absence as a spreadsheet to w. The status
// column is computed against now.
func (s *ExportService) AbsencesXLSX(ctx context.Context, sess *models.Session, now time.Time, w io.Writer) error {
	if err := requireStaff(sess); err != nil {
		return err
	}

	list, err := s.repomanager.Repositories().Absences.ListAll(ctx)
	if err != nil {
		return err
	}

	file, err := buildAbsenceWorkbook(list, now)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return file.Write(w)
}

func buildAbsenceWorkbook(list []*models.AbsenceView, now time.Time) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(absenceSheetName)
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range absenceExportHeaders {
		header.AddCell().Value = h
	}

	for _, v := range list {
		v.Countdown(now)
		status := "активне"
		if v.Expired {
			status = "прострочено"
		}

		row := sheet.AddRow()
		row.AddCell().SetInt64(v.ID)
		row.AddCell().Value = v.StudentName
		row.AddCell().Value = v.SubjectName
		row.AddCell().Value = v.TeacherName
		row.AddCell().Value = v.TeacherEmail
		row.AddCell().Value = v.TeacherRoom
		row.AddCell().Value = v.Deadline
		row.AddCell().Value = status
	}
	return file, nil
}
