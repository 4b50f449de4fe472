package web

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/services"
)

type middleware func(http.Handler) http.Handler

// chain applies mws so that the first one is the outermost.
func chain(h http.Handler, mws ...middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

const requestIDHeader = "X-Request-ID"

func (s *HTTPServer) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Unwrap() http.ResponseWriter { return rec.ResponseWriter }

func (s *HTTPServer) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info(r.Context(), "request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", RequestIDFrom(r.Context()),
		)
	})
}

func (s *HTTPServer) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.logger.Error(r.Context(), "panic", "value", v, "stack", string(debug.Stack()),
					"request_id", RequestIDFrom(r.Context()))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// session attaches the request identity. API requests may carry a bearer
// token instead of the cookie.
func (s *HTTPServer) session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := &requestState{}

		if token := bearerToken(r); token != "" && strings.HasPrefix(r.URL.Path, "/api/") {
			user, err := s.services.Auth.UserFromToken(r.Context(), token)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			st.sess = services.SessionFor(user)
			st.bearer = true
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), stateKey, st)))
			return
		}

		// a cookie that no longer decodes starts a fresh session
		raw, _ := s.store.Get(r, sessionCookieName)
		st.raw = raw

		sess, err := s.decodeSession(r.Context(), raw)
		switch {
		case err == nil:
			st.sess = sess
		case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrAccountBlocked):
			st.sess = &models.Session{}
			r = r.WithContext(context.WithValue(r.Context(), stateKey, st))
			if errors.Is(err, common.ErrAccountBlocked) {
				addFlash(r, flashError, messageFor(err))
			}
			s.saveSession(w, r)
		default:
			s.logger.Error(r.Context(), "session load failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), stateKey, st)))
	})
}

// skipCSRFForTokens exempts bearer-authenticated API calls and token
// issuance from the CSRF check.
func skipCSRFForTokens(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if bearerToken(r) != "" || r.URL.Path == "/api/token" {
			r = csrf.UnsafeSkipCheck(r)
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth answers 401 JSON for anonymous API callers.
func (s *HTTPServer) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !SessionFrom(r.Context()).Authenticated() {
			s.writeError(w, r, common.ErrorUnauthorized)
			return
		}
		next(w, r)
	}
}
