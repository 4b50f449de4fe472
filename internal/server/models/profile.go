package models

import (
	"strings"

	"github.com/ukd-dev/ukdportal/internal/common"
)

// StudentProfile belongs to exactly one STUDENT user.
type StudentProfile struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Course    string `json:"course"`
	Specialty string `json:"specialty"`
	Skills    string `json:"skills"`
	Links     string `json:"links"`
	Contact   string `json:"contact"`
	Avatar    string `json:"avatar"`
}

func (p *StudentProfile) SkillList() []string { return common.SplitTags(p.Skills) }
func (p *StudentProfile) LinkList() []string  { return common.SplitTags(p.Links) }

// FullName joins the name parts.
func (p *StudentProfile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// StudentCard is a student profile joined with its account.
type StudentCard struct {
	StudentProfile
	Username string `json:"username"`
	Email    string `json:"email"`
}

// CompanyProfile belongs to exactly one COMPANY user.
type CompanyProfile struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	CompanyName string `json:"company_name"`
	Description string `json:"description"`
	Position    string `json:"position"`
	Contact     string `json:"contact"`
	Avatar      string `json:"avatar"`
}

// AdminProfile belongs to exactly one ADMIN user.
type AdminProfile struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
	Level  int   `json:"admin_level"`
}

// SplitFullName splits at the first space so that FullName restores the
// original string.
func SplitFullName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	first, last, _ = strings.Cut(full, " ")
	return first, strings.TrimSpace(last)
}
