package subjects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/dbx"
	"github.com/ukd-dev/ukdportal/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, s *models.Subject) (*models.Subject, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO subjects (name, teacher_id) VALUES (?, ?) RETURNING id`,
		s.Name, teacherArg(s.TeacherID)).Scan(&s.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	s := &models.Subject{}
	var teacher sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT id, name, teacher_id FROM subjects WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &teacher)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	s.TeacherID = teacherPtr(teacher)
	return s, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]*models.Subject, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, teacher_id FROM subjects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Subject
	for rows.Next() {
		s := &models.Subject{}
		var teacher sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Name, &teacher); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		s.TeacherID = teacherPtr(teacher)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) ClearTeacher(ctx context.Context, teacherID int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE subjects SET teacher_id = NULL WHERE teacher_id = ?`, teacherID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func teacherArg(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func teacherPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
