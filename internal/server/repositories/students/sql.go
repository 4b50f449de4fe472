package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/dbx"
	"github.com/ukd-dev/ukdportal/internal/server/models"
)

const profileColumns = `s.id, s.user_id, s.first_name, s.last_name, s.course, s.specialty, s.skills, s.links, s.contact, s.avatar`

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func profileDest(p *models.StudentProfile) []any {
	return []any{&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.Course, &p.Specialty,
		&p.Skills, &p.Links, &p.Contact, &p.Avatar}
}

func (r *SQLRepository) Create(ctx context.Context, p *models.StudentProfile) (*models.StudentProfile, error) {
	query :=
		`INSERT INTO students (user_id, first_name, last_name, course, specialty, skills, links, contact, avatar)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`

	err := r.db.QueryRowContext(ctx, query, p.UserID, p.FirstName, p.LastName, p.Course,
		p.Specialty, p.Skills, p.Links, p.Contact, p.Avatar).Scan(&p.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *SQLRepository) getOne(ctx context.Context, where string, arg any) (*models.StudentProfile, error) {
	p := &models.StudentProfile{}
	err := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM students s WHERE `+where, arg).Scan(profileDest(p)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.StudentProfile, error) {
	return r.getOne(ctx, `s.id = ?`, id)
}

func (r *SQLRepository) GetByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	return r.getOne(ctx, `s.user_id = ?`, userID)
}

const cardQuery = `SELECT ` + profileColumns + `, u.username, u.email
	 FROM students s JOIN users u ON u.id = s.user_id`

func (r *SQLRepository) GetCardByUserID(ctx context.Context, userID int64) (*models.StudentCard, error) {
	c := &models.StudentCard{}
	dest := append(profileDest(&c.StudentProfile), &c.Username, &c.Email)
	err := r.db.QueryRowContext(ctx, cardQuery+` WHERE s.user_id = ?`, userID).Scan(dest...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *SQLRepository) ListCards(ctx context.Context) ([]*models.StudentCard, error) {
	rows, err := r.db.QueryContext(ctx, cardQuery+` ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.StudentCard
	for rows.Next() {
		c := &models.StudentCard{}
		dest := append(profileDest(&c.StudentProfile), &c.Username, &c.Email)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) Update(ctx context.Context, p *models.StudentProfile) error {
	query :=
		`UPDATE students
		 SET first_name = ?, last_name = ?, course = ?, specialty = ?, skills = ?, links = ?, contact = ?
		 WHERE user_id = ?`

	res, err := r.db.ExecContext(ctx, query, p.FirstName, p.LastName, p.Course, p.Specialty,
		p.Skills, p.Links, p.Contact, p.UserID)
	return affected(res, err)
}

func (r *SQLRepository) UpdateAvatar(ctx context.Context, userID int64, avatar string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE students SET avatar = ? WHERE user_id = ?`, avatar, userID)
	return affected(res, err)
}

func (r *SQLRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
