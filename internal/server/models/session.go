package models

// Session is the authenticated identity attached to a request. EditTargetID
// is set only for admins editing someone else's profile.
type Session struct {
	UserID       int64
	Role         Role
	Username     string
	EditTargetID *int64
}

// Authenticated reports whether the session belongs to a logged-in user.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != 0
}

// ProfileTarget returns the user whose profile an update applies to.
func (s *Session) ProfileTarget() int64 {
	if s.EditTargetID != nil {
		return *s.EditTargetID
	}
	return s.UserID
}
