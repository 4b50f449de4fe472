package web

import (
	"net/http"
)

func (s *HTTPServer) sendInvite(w http.ResponseWriter, r *http.Request) {
	studentID, err := formInt64(r, "student_id")
	if err == nil {
		_, err = s.services.Invitations.Send(r.Context(), SessionFrom(r.Context()), studentID, formValue(r, "message"))
	}
	s.redirect(w, r, "/?tab=ranking", err, "Запрошення надіслано")
}

func (s *HTTPServer) respondInvite(w http.ResponseWriter, r *http.Request) {
	id, err := formInt64(r, "invite_id")
	changed := false
	if err == nil {
		_, changed, err = s.services.Invitations.Respond(r.Context(), SessionFrom(r.Context()), id, formValue(r, "action"))
	}
	msg := "Відповідь збережено"
	if err == nil && !changed {
		msg = "На це запрошення вже відповіли"
	}
	s.redirect(w, r, "/?tab=invitations", err, msg)
}

func (s *HTTPServer) deleteInvite(w http.ResponseWriter, r *http.Request) {
	id, err := formInt64(r, "invite_id")
	if err == nil {
		err = s.services.Invitations.Delete(r.Context(), SessionFrom(r.Context()), id)
	}
	s.redirect(w, r, "/?tab=invitations", err, "Запрошення видалено")
}

func (s *HTTPServer) flagInvite(w http.ResponseWriter, r *http.Request) {
	id, err := formInt64(r, "invite_id")
	if err == nil {
		err = s.services.Invitations.Flag(r.Context(), SessionFrom(r.Context()), id)
	}
	s.redirect(w, r, "/?tab=invitations", err, "Скаргу надіслано адміністратору")
}
