// Package models defines the portal's domain records and the typed rows
// returned by repository queries.
package models

import (
	"slices"
	"time"
)

// Role is the access level of an account.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleCompany Role = "COMPANY"
	RoleStudent Role = "STUDENT"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleCompany, RoleStudent:
		return true
	}
	return false
}

// IsStaff reports whether the role may manage absences and run imports.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleTeacher
}

// In reports whether r is one of roles.
func (r Role) In(roles ...Role) bool {
	return slices.Contains(roles, r)
}

// UserStatus controls whether an account may log in.
type UserStatus string

const (
	StatusActive  UserStatus = "active"
	StatusBlocked UserStatus = "blocked"
)

type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash"`
	Role         Role       `json:"role"`
	Status       UserStatus `json:"status"`
	FullName     string     `json:"full_name"`
	Avatar       string     `json:"avatar"`
	Room         string     `json:"room"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DisplayName prefers the full name and falls back to the login.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func (u *User) Blocked() bool { return u.Status == StatusBlocked }
