package absences

import (
	"context"
	"fmt"
	"time"

	"github.com/ukd-dev/ukdportal/internal/dbx"
	"github.com/ukd-dev/ukdportal/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, a *models.Absence) (*models.Absence, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if a.Status == "" {
		a.Status = models.AbsenceActive
	}

	query :=
		`INSERT INTO absences (student_id, subject_id, deadline, status, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query, a.StudentID, a.SubjectID, a.Deadline, a.Status,
		dbx.FormatTime(a.CreatedAt)).Scan(&a.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM absences WHERE id = ?`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) Exists(ctx context.Context, studentID, subjectID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM absences WHERE student_id = ? AND subject_id = ?`,
		studentID, subjectID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

const viewQuery = `SELECT a.id, a.student_id, a.subject_id, a.deadline, a.status, a.created_at,
		s.name, COALESCE(NULLIF(st.full_name, ''), st.username),
		COALESCE(NULLIF(t.full_name, ''), t.username, ''), COALESCE(t.email, ''), COALESCE(t.room, '')
	 FROM absences a
	 JOIN subjects s ON s.id = a.subject_id
	 JOIN users st ON st.id = a.student_id
	 LEFT JOIN users t ON t.id = s.teacher_id`

func (r *SQLRepository) ListAll(ctx context.Context) ([]*models.AbsenceView, error) {
	return r.list(ctx, viewQuery+` ORDER BY a.deadline, a.id`)
}

func (r *SQLRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.AbsenceView, error) {
	return r.list(ctx, viewQuery+` WHERE a.student_id = ? ORDER BY a.deadline, a.id`, studentID)
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]*models.AbsenceView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.AbsenceView
	for rows.Next() {
		v := &models.AbsenceView{}
		var createdAt string
		err := rows.Scan(&v.ID, &v.StudentID, &v.SubjectID, &v.Deadline, &v.Status, &createdAt,
			&v.SubjectName, &v.StudentName, &v.TeacherName, &v.TeacherEmail, &v.TeacherRoom)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		v.CreatedAt = dbx.ParseTime(createdAt)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) DeleteByStudent(ctx context.Context, studentID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM absences WHERE student_id = ?`, studentID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
