package web

import (
	"net/http"

	"github.com/ukd-dev/ukdportal/internal/server/services"
)

func (s *HTTPServer) updateProfile(w http.ResponseWriter, r *http.Request) {
	err := s.services.Profiles.UpdateProfile(r.Context(), SessionFrom(r.Context()), services.ProfileInput{
		Email:       formValue(r, "email"),
		FirstName:   formValue(r, "first_name"),
		LastName:    formValue(r, "last_name"),
		Course:      formValue(r, "course"),
		Specialty:   formValue(r, "specialty"),
		Skills:      formValue(r, "skills"),
		Links:       formValue(r, "links"),
		Contact:     formValue(r, "contact"),
		CompanyName: formValue(r, "company_name"),
		Description: formValue(r, "description"),
		Position:    formValue(r, "position"),
		Avatar:      formValue(r, "avatar"),
	})
	s.redirect(w, r, "/?tab=profile", err, "Профіль оновлено")
}

// updateAvatar also reads "url", the field older forms post.
func (s *HTTPServer) updateAvatar(w http.ResponseWriter, r *http.Request) {
	avatar := formValue(r, "avatar_url")
	if avatar == "" {
		avatar = formValue(r, "url")
	}
	err := s.services.Profiles.UpdateAvatar(r.Context(), SessionFrom(r.Context()), avatar)
	s.redirect(w, r, "/?tab=profile", err, "Аватар оновлено")
}

func (s *HTTPServer) presignAvatar(w http.ResponseWriter, r *http.Request) {
	up, err := s.services.Avatars.Presign(r.Context(), SessionFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, up)
}

func (s *HTTPServer) studentCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	card, err := s.services.Profiles.StudentCard(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}
