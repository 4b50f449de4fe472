package invitations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

func (r *SQLRepository) Create(ctx context.Context, inv *models.Invitation) (*models.Invitation, error) {
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	if inv.Status == "" {
		inv.Status = models.InvitationPending
	}

	query :=
		`INSERT INTO invitations (student_id, company_id, user_id, message, status, flagged, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`

	var company any
	if inv.CompanyID != nil {
		company = *inv.CompanyID
	}

	err := r.db.QueryRowContext(ctx, query, inv.StudentID, company, inv.SenderID, inv.Message,
		string(inv.Status), inv.Flagged, dbx.FormatTime(inv.CreatedAt)).Scan(&inv.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return inv, nil
}

func scanInvitation(dest *models.Invitation, company *sql.NullInt64, status, createdAt *string) []any {
	return []any{&dest.ID, &dest.StudentID, company, &dest.SenderID, &dest.Message, status, &dest.Flagged, createdAt}
}

func finishInvitation(dest *models.Invitation, company sql.NullInt64, status, createdAt string) {
	if company.Valid {
		id := company.Int64
		dest.CompanyID = &id
	}
	dest.Status = models.InvitationStatus(status)
	dest.CreatedAt = dbx.ParseTime(createdAt)
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Invitation, error) {
	inv := &models.Invitation{}
	var company sql.NullInt64
	var status, createdAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, student_id, company_id, user_id, message, status, flagged, created_at
		 FROM invitations WHERE id = ?`, id).
		Scan(scanInvitation(inv, &company, &status, &createdAt)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	finishInvitation(inv, company, status, createdAt)
	return inv, nil
}

const viewQuery = `SELECT i.id, i.student_id, i.company_id, i.user_id, i.message, i.status, i.flagged, i.created_at,
		TRIM(s.first_name || ' ' || s.last_name), s.user_id, COALESCE(c.company_name, ''),
		COALESCE(NULLIF(u.full_name, ''), u.username)
	 FROM invitations i
	 JOIN students s ON s.id = i.student_id
	 LEFT JOIN companies c ON c.id = i.company_id
	 JOIN users u ON u.id = i.user_id`

func (r *SQLRepository) ListAll(ctx context.Context) ([]*models.InvitationView, error) {
	return r.list(ctx, viewQuery+` ORDER BY i.flagged DESC, i.id DESC`)
}

func (r *SQLRepository) ListBySender(ctx context.Context, senderID int64) ([]*models.InvitationView, error) {
	return r.list(ctx, viewQuery+` WHERE i.user_id = ? ORDER BY i.id DESC`, senderID)
}

func (r *SQLRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.InvitationView, error) {
	return r.list(ctx, viewQuery+` WHERE i.student_id = ? ORDER BY i.id DESC`, studentID)
}

func (r *SQLRepository) list(ctx context.Context, query string, args ...any) ([]*models.InvitationView, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.InvitationView
	for rows.Next() {
		v := &models.InvitationView{}
		var company sql.NullInt64
		var status, createdAt string
		dest := append(scanInvitation(&v.Invitation, &company, &status, &createdAt),
			&v.StudentName, &v.StudentUserID, &v.CompanyName, &v.SenderName)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		finishInvitation(&v.Invitation, company, status, createdAt)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) CountPending(ctx context.Context, studentID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invitations WHERE student_id = ? AND status = ?`,
		studentID, string(models.InvitationPending)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) SetStatus(ctx context.Context, id int64, status models.InvitationStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invitations SET status = ? WHERE id = ? AND status = ?`,
		string(status), id, string(models.InvitationPending))
	return changed(res, err)
}

func (r *SQLRepository) SetFlagged(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invitations SET flagged = ? WHERE id = ? AND flagged = ?`, true, id, false)
	return changed(res, err)
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLRepository) DeleteForParty(ctx context.Context, p Party) (int64, error) {
	// -1 never matches a real id
	student, company := int64(-1), int64(-1)
	if p.StudentID != nil {
		student = *p.StudentID
	}
	if p.CompanyID != nil {
		company = *p.CompanyID
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM invitations WHERE user_id = ? OR student_id = ? OR company_id = ?`,
		p.UserID, student, company)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func changed(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
