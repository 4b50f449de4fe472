package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/logging"
	"github.com/ukd-dev/ukdportal/internal/netx"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repomanager"
	"github.com/ukd-dev/ukdportal/internal/server/sheets"
)

// ImportConfig describes the layout of the attendance sheet.
type ImportConfig struct {
	HeaderRows   int
	Marker       string
	SubjectID    int64
	DeadlineDays int
}

// ImportResult is what the sync endpoint reports. A failed fetch is a
// result with Success=false, not an error.
type ImportResult struct {
	Success         bool   `json:"success"`
	StudentsCreated int    `json:"students_created"`
	AbsencesCreated int    `json:"absences_created"`
	Message         string `json:"message"`
}

// ImportService turns "н" marks in the attendance sheet into absences,
// creating student accounts for names it has not seen.
type ImportService struct {
	repomanager repomanager.RepositoryManager
	source      sheets.Source
	cfg         ImportConfig
	logger      logging.Logger
}

func NewImportService(m repomanager.RepositoryManager, source sheets.Source, cfg ImportConfig, logger logging.Logger) *ImportService {
	if cfg.Marker == "" {
		cfg.Marker = "н"
	}
	if cfg.DeadlineDays <= 0 {
		cfg.DeadlineDays = 14
	}
	return &ImportService{repomanager: m, source: source, cfg: cfg, logger: logger}
}

// Sync runs one import. Staff only. Running it twice over the same sheet
// creates nothing the second time.
func (s *ImportService) Sync(ctx context.Context, sess *models.Session) (*ImportResult, error) {
	if err := requireStaff(sess); err != nil {
		return nil, err
	}
	return s.Run(ctx)
}

// Run is Sync without the role check, for the operator CLI.
func (s *ImportService) Run(ctx context.Context) (*ImportResult, error) {
	rows, err := s.source.Rows(ctx)
	if err != nil {
		s.logger.Warn(ctx, "sheet fetch failed", "error", err)
		var statusErr *netx.StatusError
		if errors.As(err, &statusErr) {
			return &ImportResult{Message: fmt.Sprintf("Помилка доступу: %d", statusErr.StatusCode)}, nil
		}
		return &ImportResult{Message: "Помилка: " + err.Error()}, nil
	}

	res := &ImportResult{}
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx repomanager.Repositories) error {
		subject, err := s.importSubject(ctx, tx)
		if err != nil {
			return err
		}
		deadline := timeNow().AddDate(0, 0, s.cfg.DeadlineDays).Format("2006-01-02") + "T23:59"

		for i := s.cfg.HeaderRows; i < len(rows); i++ {
			row := rows[i]
			if len(row) < 2 {
				continue
			}
			name := strings.TrimSpace(row[1])
			if name == "" || isDigits(name) {
				continue
			}

			student, created, err := s.findOrCreateStudent(ctx, tx, name)
			if err != nil {
				return err
			}
			if created {
				res.StudentsCreated++
			}

			for _, cell := range row[2:] {
				if !strings.EqualFold(strings.TrimSpace(cell), s.cfg.Marker) {
					continue
				}
				exists, err := tx.Absences.Exists(ctx, student.ID, subject.ID)
				if err != nil {
					return err
				}
				if exists {
					continue
				}
				if _, err := tx.Absences.Create(ctx, &models.Absence{
					StudentID: student.ID,
					SubjectID: subject.ID,
					Deadline:  deadline,
				}); err != nil {
					return err
				}
				res.AbsencesCreated++
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return &ImportResult{Message: "Помилка: немає предмета для імпорту"}, nil
		}
		return nil, err
	}

	res.Success = true
	res.Message = fmt.Sprintf("Синхронізація успішна! Додано студентів: %d, виявлено Н: %d.",
		res.StudentsCreated, res.AbsencesCreated)
	s.logger.Info(ctx, "sheet import finished", "students_created", res.StudentsCreated, "absences_created", res.AbsencesCreated)
	return res, nil
}

func (s *ImportService) importSubject(ctx context.Context, tx repomanager.Repositories) (*models.Subject, error) {
	if s.cfg.SubjectID > 0 {
		return tx.Subjects.GetByID(ctx, s.cfg.SubjectID)
	}
	list, err := tx.Subjects.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, common.ErrorNotFound
	}
	return list[0], nil
}

func (s *ImportService) findOrCreateStudent(ctx context.Context, tx repomanager.Repositories, fullName string) (*models.User, bool, error) {
	existing, err := tx.Users.FindStudentByFullName(ctx, fullName)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, false, err
	}

	n, err := tx.Users.Count(ctx)
	if err != nil {
		return nil, false, err
	}
	var username string
	for ; ; n++ {
		username = "std_" + strconv.Itoa(n)
		_, err := tx.Users.GetByLogin(ctx, username)
		if errors.Is(err, common.ErrorNotFound) {
			break
		}
		if err != nil {
			return nil, false, err
		}
	}

	password, err := common.MakeRandHexString(12)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@" + common.DefaultEmailDomain,
		PasswordHash: hash,
		Role:         models.RoleStudent,
		FullName:     fullName,
		Avatar:       common.DefaultAvatarURL,
	}
	if _, err := tx.Users.Create(ctx, user); err != nil {
		return nil, false, err
	}

	first, last := models.SplitFullName(fullName)
	if _, err := tx.Students.Create(ctx, &models.StudentProfile{
		UserID:    user.ID,
		FirstName: first,
		LastName:  last,
		Course:    "1",
		Specialty: "ІПЗ",
		Avatar:    user.Avatar,
	}); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
