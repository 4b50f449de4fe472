package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/services"
)

// loginKey scopes attempts to the client address and the login tried.
func (s *HTTPServer) loginKey(r *http.Request, identifier string) string {
	return "login:" + ClientIP(r, s.trustedProxies) + ":" + strings.ToLower(identifier)
}

func (s *HTTPServer) allowLogin(r *http.Request, identifier string) bool {
	return s.limiter.Allow(s.loginKey(r, identifier), s.config.LoginRateLimit, s.config.LoginRateWindow)
}

// login accepts either a username or an email in the "username" field;
// "email" is read when the form uses that name instead.
func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	identifier := formValue(r, "username")
	if identifier == "" {
		identifier = formValue(r, "email")
	}
	password := r.FormValue("password")

	if !s.allowLogin(r, identifier) {
		s.logger.Warn(r.Context(), "login rate limited", "ip", ClientIP(r, s.trustedProxies))
		s.redirect(w, r, "/", common.ErrTooManyAttempts, "")
		return
	}

	user, err := s.services.Auth.Authenticate(r.Context(), identifier, password)
	if err != nil {
		s.redirect(w, r, "/", err, "")
		return
	}

	s.logger.Info(r.Context(), "user logged in", "user_id", user.ID, "role", user.Role)
	setSession(r, services.SessionFor(user))
	s.redirect(w, r, "/", nil, "")
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	setSession(r, &models.Session{})
	s.redirect(w, r, "/", nil, "")
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	role := models.Role(strings.ToUpper(formValue(r, "role")))
	if role == "" {
		role = models.RoleStudent
	}
	_, err := s.services.Auth.Register(r.Context(), services.RegisterInput{
		Username: formValue(r, "username"),
		Email:    formValue(r, "email"),
		Password: r.FormValue("password"),
		Role:     role,
	})
	s.redirect(w, r, "/", err, "Реєстрація успішна! Тепер увійдіть.")
}

type tokenRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// issueToken accepts a JSON body or a form.
func (s *HTTPServer) issueToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
			s.writeError(w, r, common.ErrorValidation)
			return
		}
	} else {
		req.Identifier = formValue(r, "identifier")
		req.Password = r.FormValue("password")
	}
	req.Identifier = strings.TrimSpace(req.Identifier)

	if !s.allowLogin(r, req.Identifier) {
		s.writeError(w, r, common.ErrTooManyAttempts)
		return
	}

	token, _, err := s.services.Auth.IssueToken(r.Context(), req.Identifier, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
