package models

import (
	"time"

	"github.com/ukd-dev/ukdportal/internal/common"
)

// Subject is a course an absence is owed to.
type Subject struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	TeacherID *int64 `json:"teacher_id"`
}

const AbsenceActive = "active"

// Absence is an unresolved "Н" a student owes a subject. Resolving deletes it.
type Absence struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"student_id"`
	SubjectID int64     `json:"subject_id"`
	Deadline  string    `json:"deadline"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// DeadlineTime interprets the stored naive deadline in loc.
func (a *Absence) DeadlineTime(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(common.DeadlineLayout, a.Deadline, loc)
}

// AbsenceView is an absence joined with the names shown next to it.
type AbsenceView struct {
	Absence
	SubjectName  string `json:"subject_name"`
	StudentName  string `json:"student_name"`
	TeacherName  string `json:"teacher_name"`
	TeacherEmail string `json:"teacher_email"`
	TeacherRoom  string `json:"teacher_room"`

	// Filled at render time, never stored.
	Remaining time.Duration `json:"remaining"`
	Expired   bool          `json:"expired"`
}

// Countdown fills Remaining and Expired relative to now. A deadline that
// cannot be parsed counts as expired.
func (v *AbsenceView) Countdown(now time.Time) {
	deadline, err := v.DeadlineTime(now.Location())
	if err != nil {
		v.Remaining = 0
		v.Expired = true
		return
	}
	v.Remaining = deadline.Sub(now)
	v.Expired = v.Remaining <= 0
	if v.Expired {
		v.Remaining = 0
	}
}
