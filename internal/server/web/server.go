// Package web is the portal's HTTP surface: server-rendered pages with form
// posts, and a small JSON API under /api.
package web

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/rs/cors"

	"github.com/ukd-dev/ukdportal/internal/logging"
	"github.com/ukd-dev/ukdportal/internal/server/config"
	"github.com/ukd-dev/ukdportal/internal/server/services"
)

// Services are the business operations the handlers call.
type Services struct {
	Auth        *services.AuthService
	Profiles    *services.ProfileService
	Absences    *services.AbsenceService
	Invitations *services.InvitationService
	Admin       *services.AdminService
	Import      *services.ImportService
	Avatars     *services.AvatarService
	Export      *services.ExportService
}

type HTTPServer struct {
	address         string
	config          *config.Config
	logger          logging.Logger
	services        Services
	store           *sessions.CookieStore
	limiter         Limiter
	trustedProxies  []*net.IPNet
	templates       *template.Template
	shutdownTimeout time.Duration
	now             func() time.Time
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, svc Services, limiter Limiter) (*HTTPServer, error) {
	tpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	trusted, err := ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	if limiter == nil {
		limiter = NewMemoryLimiter()
	}
	return &HTTPServer{
		address:         cfg.HTTPAddr,
		config:          cfg,
		logger:          l.With("module", "http_server"),
		services:        svc,
		store:           newCookieStore(cfg.SessionSecret, cfg.SessionMaxAge, false),
		limiter:         limiter,
		trustedProxies:  trusted,
		templates:       tpl,
		shutdownTimeout: cfg.ShutdownTimeout,
		now:             time.Now,
	}, nil
}

// Handler assembles the router and the middleware around it.
func (s *HTTPServer) Handler() http.Handler {
	var h http.Handler = s.routes()

	if s.config.CSRFKey != "" {
		protect := csrf.Protect([]byte(s.config.CSRFKey),
			csrf.Path("/"),
			csrf.Secure(false),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "CSRF token invalid", http.StatusForbidden)
			})),
		)
		h = skipCSRFForTokens(protect(h))
	}

	h = s.withCORS(h)

	return chain(h, s.requestID, s.logging, s.recoverer)
}

// withCORS applies the CORS policy to /api only.
func (s *HTTPServer) withCORS(next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-CSRF-Token"},
		AllowCredentials: true,
	})
	api := c.Handler(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			api.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
