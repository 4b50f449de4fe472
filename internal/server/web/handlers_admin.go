package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/services"
)

func (s *HTTPServer) selectUser(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	id, err := formInt64(r, "user_id")
	if err == nil {
		var target *models.User
		target, err = s.services.Profiles.SelectTarget(r.Context(), sess, id)
		if err == nil {
			sess.EditTargetID = &target.ID
			s.redirect(w, r, "/?tab=profile", nil, "Редагування профілю: "+target.DisplayName())
			return
		}
	}
	s.redirect(w, r, "/?tab=admin", err, "")
}

func (s *HTTPServer) clearTarget(w http.ResponseWriter, r *http.Request) {
	s.services.Profiles.ClearTarget(SessionFrom(r.Context()))
	s.redirect(w, r, "/?tab=admin", nil, "")
}

func (s *HTTPServer) addUser(w http.ResponseWriter, r *http.Request) {
	level, _ := strconv.Atoi(formValue(r, "admin_level"))
	u, err := s.services.Admin.AddUser(r.Context(), SessionFrom(r.Context()), services.AddUserInput{
		Username:   formValue(r, "username"),
		Email:      formValue(r, "email"),
		Password:   r.FormValue("password"),
		Role:       models.Role(strings.ToUpper(formValue(r, "role"))),
		FullName:   formValue(r, "full_name"),
		Room:       formValue(r, "room"),
		AdminLevel: level,
	})
	msg := ""
	if err == nil {
		msg = "Користувача " + u.Username + " створено"
	}
	s.redirect(w, r, "/?tab=admin", err, msg)
}

func (s *HTTPServer) toggleBlock(w http.ResponseWriter, r *http.Request) {
	id, err := formInt64(r, "user_id")
	if err == nil {
		_, err = s.services.Admin.ToggleBlock(r.Context(), SessionFrom(r.Context()), id)
	}
	s.redirect(w, r, "/?tab=admin", err, "Статус змінено")
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	id, err := formInt64(r, "user_id")
	if err == nil {
		err = s.services.Admin.DeleteUser(r.Context(), sess, id)
	}
	if err == nil && sess.EditTargetID != nil && *sess.EditTargetID == id {
		sess.EditTargetID = nil
	}
	s.redirect(w, r, "/?tab=admin", err, "Користувача видалено")
}

func (s *HTTPServer) addSubject(w http.ResponseWriter, r *http.Request) {
	teacherID, err := formOptionalInt64(r, "teacher_id")
	if err == nil {
		_, err = s.services.Absences.CreateSubject(r.Context(), SessionFrom(r.Context()), formValue(r, "name"), teacherID)
	}
	s.redirect(w, r, "/?tab=timers", err, "Предмет додано")
}
