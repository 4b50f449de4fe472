package models

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
)

// Final reports whether the status can no longer be changed by the student.
func (s InvitationStatus) Final() bool {
	return s == InvitationAccepted || s == InvitationRejected
}

type Invitation struct {
	ID        int64            `json:"id"`
	StudentID int64            `json:"student_id"`
	CompanyID *int64           `json:"company_id"`
	SenderID  int64            `json:"user_id"`
	Message   string           `json:"message"`
	Status    InvitationStatus `json:"status"`
	Flagged   bool             `json:"flagged"`
	CreatedAt time.Time        `json:"created_at"`
}

// InvitationView is an invitation joined with the names of both parties.
type InvitationView struct {
	Invitation
	StudentName   string `json:"student_name"`
	StudentUserID int64  `json:"student_user_id"`
	CompanyName   string `json:"company_name"`
	SenderName    string `json:"sender_name"`
}
