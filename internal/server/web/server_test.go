package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukd-dev/ukdportal/internal/logging"
	"github.com/ukd-dev/ukdportal/internal/server/config"
	"github.com/ukd-dev/ukdportal/internal/server/models"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repomanager"
	"github.com/ukd-dev/ukdportal/internal/server/repositories/repotest"
	"github.com/ukd-dev/ukdportal/internal/server/services"
)

type staticSource struct{ rows [][]string }

func (s staticSource) Rows(ctx context.Context) ([][]string, error) { return s.rows, nil }

type testEnv struct {
	t      *testing.T
	cfg    *config.Config
	m      repomanager.RepositoryManager
	server *HTTPServer
	ts     *httptest.Server

	admin   *models.User
	teacher *models.User
	student *models.User
	company *models.User
}

const testPassword = "pw-123"

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.CSRFKey = ""
	for _, fn := range mutate {
		fn(cfg)
	}

	m := repomanager.NewSQLRepositoryManager(repotest.NewSQLite(t))
	src := staticSource{rows: [][]string{{"1", "Марта Бойко", "н"}}}
	svc := Services{
		Auth:        services.NewAuthService(m, cfg),
		Profiles:    services.NewProfileService(m),
		Absences:    services.NewAbsenceService(m),
		Invitations: services.NewInvitationService(m),
		Admin:       services.NewAdminService(m),
		Import:      services.NewImportService(m, src, services.ImportConfig{HeaderRows: 0}, logging.Nop()),
		Avatars:     services.NewAvatarService(cfg),
		Export:      services.NewExportService(m),
	}
	srv, err := NewHTTPServer(cfg, logging.Nop(), svc, NewMemoryLimiter())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	env := &testEnv{t: t, cfg: cfg, m: m, server: srv, ts: ts}

	ctx := context.Background()
	env.admin, err = svc.Admin.CreateAdmin(ctx, "root", testPassword, 10)
	require.NoError(t, err)
	adminSess := services.SessionFor(env.admin)
	add := func(username string, role models.Role, fullName string) *models.User {
		u, err := svc.Admin.AddUser(ctx, adminSess, services.AddUserInput{
			Username: username, Password: testPassword, Role: role, FullName: fullName, Room: "101",
		})
		require.NoError(t, err)
		return u
	}
	env.teacher = add("teacher", models.RoleTeacher, "Ірина Коваль")
	env.student = add("ivan", models.RoleStudent, "Іван Петренко")
	env.company = add("acme", models.RoleCompany, "Acme")
	_, err = m.Repositories().Subjects.Create(ctx, &models.Subject{Name: "Програмування", TeacherID: &env.teacher.ID})
	require.NoError(t, err)
	return env
}

// client keeps cookies and does not follow redirects.
func (e *testEnv) client() *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(e.t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (e *testEnv) post(c *http.Client, path string, form url.Values) *http.Response {
	e.t.Helper()
	resp, err := c.PostForm(e.ts.URL+path, form)
	require.NoError(e.t, err)
	e.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) get(c *http.Client, path string) *http.Response {
	e.t.Helper()
	resp, err := c.Get(e.ts.URL + path)
	require.NoError(e.t, err)
	e.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) loginAs(username string) *http.Client {
	e.t.Helper()
	c := e.client()
	resp := e.post(c, "/login", url.Values{"username": {username}, "password": {testPassword}})
	require.Equal(e.t, http.StatusSeeOther, resp.StatusCode)
	return c
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp := env.get(env.client(), "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body(t, resp))
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)
	c := env.client()

	resp := env.get(c, "/")
	assert.Contains(t, body(t, resp), `action="/login"`)

	resp = env.post(c, "/login", url.Values{"username": {"ivan"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Contains(t, body(t, env.get(c, "/")), "Невірний логін або пароль")

	resp = env.post(c, "/login", url.Values{"email": {"ivan@ukd.edu.ua"}, "password": {testPassword}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	page := body(t, env.get(c, "/?tab=timers"))
	assert.Contains(t, page, "Іван Петренко")
	assert.Contains(t, page, "/logout")

	env.get(c, "/logout")
	assert.Contains(t, body(t, env.get(c, "/")), `action="/login"`)
}

func TestLogin_BlockedAccount(t *testing.T) {
	env := newTestEnv(t)
	c := env.loginAs("ivan")
	require.NoError(t, env.m.Repositories().Users.SetStatus(context.Background(), env.student.ID, models.StatusBlocked))

	// the live session ends on the next request
	page := body(t, env.get(c, "/"))
	assert.Contains(t, page, "Ваш акаунт заблоковано")
	assert.Contains(t, page, `action="/login"`)

	resp := env.post(env.client(), "/login", url.Values{"username": {"ivan"}, "password": {testPassword}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestLogin_RateLimited(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) {
		c.LoginRateLimit = 2
		c.LoginRateWindow = time.Minute
	})
	c := env.client()
	for i := 0; i < 2; i++ {
		env.post(c, "/login", url.Values{"username": {"ivan"}, "password": {"bad"}})
		env.get(c, "/")
	}
	env.post(c, "/login", url.Values{"username": {"ivan"}, "password": {testPassword}})
	page := body(t, env.get(c, "/"))
	assert.Contains(t, page, "Забагато спроб входу")
	assert.Contains(t, page, `action="/login"`, "the right password is refused while limited")
}

func TestLogin_RateLimitIgnoresForwardedHeader(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) {
		c.LoginRateLimit = 2
		c.LoginRateWindow = time.Minute
	})
	c := env.client()

	limited := 0
	for i := 0; i < 20; i++ {
		req, err := http.NewRequest(http.MethodPost, env.ts.URL+"/api/token",
			strings.NewReader(url.Values{"identifier": {"ivan"}, "password": {"bad"}}.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		resp, err := c.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 18, limited)
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	c := env.client()

	resp := env.post(c, "/register", url.Values{"username": {"newbie"}, "password": {"pw"}, "role": {"company"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Contains(t, body(t, env.get(c, "/")), "Реєстрація успішна")

	u, err := env.m.Repositories().Users.GetByLogin(context.Background(), "newbie")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCompany, u.Role)

	env.post(c, "/register", url.Values{"username": {"newbie"}, "password": {"pw"}})
	assert.Contains(t, body(t, env.get(c, "/")), "вже існує")

	env.post(c, "/register", url.Values{"username": {"boss"}, "password": {"pw"}, "role": {"ADMIN"}})
	assert.Contains(t, body(t, env.get(c, "/")), "Некоректні дані")
}

func TestTabs_RenderForEachRole(t *testing.T) {
	env := newTestEnv(t)
	for _, username := range []string{"root", "teacher", "ivan", "acme"} {
		c := env.loginAs(username)
		for _, tab := range tabs {
			resp := env.get(c, "/?tab="+tab)
			assert.Equal(t, http.StatusOK, resp.StatusCode, "%s %s", username, tab)
		}
	}

	page := body(t, env.get(env.loginAs("ivan"), "/?tab=admin"))
	assert.NotContains(t, page, `action="/admin/add_user"`, "non-admins fall back to timers")

	page = body(t, env.get(env.loginAs("root"), "/?tab=admin"))
	assert.Contains(t, page, `action="/admin/add_user"`)
	assert.Contains(t, page, "teacher@ukd.edu.ua")
}
