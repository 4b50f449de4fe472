package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/services"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templateFuncs = template.FuncMap{
	"countdown": formatCountdown,
	"isStaff":   func(r models.Role) bool { return r.IsStaff() },
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")
}

// formatCountdown renders what is left before a deadline, e.g. "2д 3год 15хв".
func formatCountdown(d time.Duration) string {
	if d <= 0 {
		return "Час вичерпано"
	}
	d = d.Round(time.Minute)
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%dд %dгод %dхв", days, hours, minutes)
}

var tabs = []string{"timers", "ranking", "invitations", "profile", "admin", "creators"}

type pageData struct {
	Session   *models.Session
	User      *models.User
	Tab       string
	Tabs      []string
	Errors    []string
	Infos     []string
	CSRFField template.HTML
	S3Enabled bool

	Absences     []*models.AbsenceView
	Subjects     []*models.Subject
	Students     []*models.StudentCard
	Invitations  []*models.InvitationView
	PendingCount int
	Users        []*models.User
	Creators     []*models.Creator
	Profile      *services.Profile
	Editing      bool
}

func pickTab(requested string, role models.Role) string {
	for _, t := range tabs {
		if t == requested {
			if t == "admin" && role != models.RoleAdmin {
				break
			}
			return t
		}
	}
	return "timers"
}

func (s *HTTPServer) index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := SessionFrom(ctx)

	data := &pageData{
		Session:   sess,
		Tabs:      tabs,
		Errors:    flashes(r, flashError),
		Infos:     flashes(r, flashInfo),
		CSRFField: csrf.TemplateField(r),
		S3Enabled: s.config.S3Enabled(),
	}

	if !sess.Authenticated() {
		s.saveSession(w, r)
		s.render(w, r, "landing.html", data)
		return
	}

	data.Tab = pickTab(r.URL.Query().Get("tab"), sess.Role)
	if err := s.loadTab(r, data); err != nil {
		s.logger.Error(ctx, "page load failed", "tab", data.Tab, "error", err, "request_id", RequestIDFrom(ctx))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	s.saveSession(w, r)
	s.render(w, r, "app.html", data)
}

func (s *HTTPServer) loadTab(r *http.Request, data *pageData) error {
	ctx := r.Context()
	sess := data.Session
	svc := s.services

	me, err := svc.Profiles.Load(ctx, sess.UserID)
	if err != nil {
		return err
	}
	data.User = me.User

	if data.PendingCount, err = svc.Invitations.PendingCount(ctx, sess); err != nil {
		return err
	}

	switch data.Tab {
	case "timers":
		if data.Absences, err = svc.Absences.ListFor(ctx, sess, s.now()); err != nil {
			return err
		}
		if sess.Role.IsStaff() {
			if data.Subjects, err = svc.Absences.ListSubjects(ctx); err != nil {
				return err
			}
			data.Students, err = svc.Profiles.ListStudents(ctx)
		}
	case "ranking":
		data.Students, err = svc.Profiles.ListStudents(ctx)
	case "invitations":
		data.Invitations, err = svc.Invitations.ListFor(ctx, sess)
	case "profile":
		data.Profile, err = svc.Profiles.Load(ctx, sess.ProfileTarget())
		if errors.Is(err, common.ErrorNotFound) && sess.EditTargetID != nil {
			// the target was deleted by someone else
			sess.EditTargetID = nil
			data.Profile, err = me, nil
		}
		data.Editing = sess.EditTargetID != nil
	case "admin":
		data.Users, err = svc.Admin.ListUsers(ctx, sess)
	case "creators":
		data.Creators, err = svc.Profiles.ListCreators(ctx)
	}
	return err
}

// render executes into a buffer so a template error still yields a clean 500.
func (s *HTTPServer) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error(r.Context(), "template failed", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
