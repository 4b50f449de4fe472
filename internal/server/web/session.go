package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/services"
)

const (
	sessionCookieName = "ukdportal_session"

	keyUserID       = "user_id"
	keyRole         = "role"
	keyUsername     = "username"
	keyEditTargetID = "edit_target_id"

	flashError = "_error"
	flashInfo  = "_info"
)

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	stateKey     ctxKey = "session_state"
)

// requestState is the per-request view of the cookie session.
type requestState struct {
	raw    *sessions.Session
	sess   *models.Session
	bearer bool
}

// SessionFrom returns the identity of the current request. Anonymous
// requests get an empty session, never nil.
func SessionFrom(ctx context.Context) *models.Session {
	if st, ok := ctx.Value(stateKey).(*requestState); ok && st.sess != nil {
		return st.sess
	}
	return &models.Session{}
}

func stateFrom(r *http.Request) *requestState {
	st, _ := r.Context().Value(stateKey).(*requestState)
	return st
}

// RequestIDFrom returns the id assigned by the RequestID middleware.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func newCookieStore(secret string, maxAge time.Duration, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// decodeSession reads the identity stored in the cookie. The account is
// reloaded so a block or delete ends the login immediately.
func (s *HTTPServer) decodeSession(ctx context.Context, raw *sessions.Session) (*models.Session, error) {
	userID, _ := raw.Values[keyUserID].(int64)
	if userID == 0 {
		return &models.Session{}, nil
	}

	user, err := s.services.Auth.Reload(ctx, userID)
	if err != nil {
		return nil, err
	}

	sess := services.SessionFor(user)
	if target, ok := raw.Values[keyEditTargetID].(int64); ok && target != 0 && sess.Role == models.RoleAdmin {
		sess.EditTargetID = &target
	}
	return sess, nil
}

// setSession replaces the request identity; it is persisted by saveSession.
func setSession(r *http.Request, sess *models.Session) {
	if st := stateFrom(r); st != nil {
		st.sess = sess
	}
}

// saveSession writes the request identity and any flashes into the cookie.
func (s *HTTPServer) saveSession(w http.ResponseWriter, r *http.Request) {
	st := stateFrom(r)
	if st == nil || st.raw == nil || st.bearer {
		return
	}
	sess := st.sess
	if !sess.Authenticated() {
		delete(st.raw.Values, keyUserID)
		delete(st.raw.Values, keyRole)
		delete(st.raw.Values, keyUsername)
		delete(st.raw.Values, keyEditTargetID)
	} else {
		st.raw.Values[keyUserID] = sess.UserID
		st.raw.Values[keyRole] = string(sess.Role)
		st.raw.Values[keyUsername] = sess.Username
		if sess.EditTargetID != nil {
			st.raw.Values[keyEditTargetID] = *sess.EditTargetID
		} else {
			delete(st.raw.Values, keyEditTargetID)
		}
	}
	if err := st.raw.Save(r, w); err != nil {
		s.logger.Error(r.Context(), "session save failed", "error", err)
	}
}

func addFlash(r *http.Request, kind, msg string) {
	if st := stateFrom(r); st != nil && st.raw != nil {
		st.raw.AddFlash(msg, kind)
	}
}

// flashes pops the queued messages of kind.
func flashes(r *http.Request, kind string) []string {
	st := stateFrom(r)
	if st == nil || st.raw == nil {
		return nil
	}
	var out []string
	for _, f := range st.raw.Flashes(kind) {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

// redirect persists the session, queues an optional flash and answers 303.
func (s *HTTPServer) redirect(w http.ResponseWriter, r *http.Request, to string, err error, okMsg string) {
	switch {
	case err != nil:
		if statusFor(err) == http.StatusInternalServerError {
			s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err, "request_id", RequestIDFrom(r.Context()))
		}
		addFlash(r, flashError, messageFor(err))
		if errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrAccountBlocked) {
			to = "/"
		}
	case okMsg != "":
		addFlash(r, flashInfo, okMsg)
	}
	s.saveSession(w, r)
	http.Redirect(w, r, to, http.StatusSeeOther)
}
