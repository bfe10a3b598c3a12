package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"balalaika/internal/backend"
	"balalaika/internal/config"
	"balalaika/internal/http/handlers"
	applog "balalaika/internal/log"
	"balalaika/internal/repos"
	"balalaika/internal/services"
	"balalaika/internal/store"
	"balalaika/internal/watch"
)

const (
	adminEmail = "admin@balalaikas.test"
	adminPass  = "Passw0rd!"
)

type testApp struct {
	app  *fiber.App
	db   *sqlx.DB
	st   *store.Store
	auth *services.AuthService
}

func newTestApp(t *testing.T) *testApp {
	return newTestAppWith(t, nil)
}

// newTestAppWith builds the full route table over a seeded in-memory store.
// wrap, when set, replaces the backend writer seen by the admin handlers.
func newTestAppWith(t *testing.T, wrap func(*backend.Backend) services.Writer) *testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	b, err := backend.Open(db, nil)
	require.NoError(t, err)

	st := store.New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watch.New(b, st).Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		db.Close()
	})
	require.Eventually(t, func() bool {
		s := st.State()
		return s.Loaded && len(s.Categories) == 2 && len(s.SubCategories) == 3
	}, time.Second, 5*time.Millisecond)

	var w services.Writer = b
	if wrap != nil {
		w = wrap(b)
	}
	auth := services.NewAuthService(repos.NewUserRepo(db))
	deps := handlers.NewDeps(w, st, config.Defaults(), auth)

	app := fiber.New(fiber.Config{Views: handlers.NewEngine("../../web/templates"), BodyLimit: 1 << 20})
	app.Use(requestid.New())
	app.Use(handlers.LoadSession(auth))
	app.Use(csrf.New(csrf.Config{KeyLookup: "form:csrf", CookieName: "csrf_", CookieSameSite: "Lax"}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})
	handlers.Routes(app, deps)
	app.Use(handlers.NotFound)

	return &testApp{app: app, db: db, st: st, auth: auth}
}

func cookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func (ta *testApp) get(t *testing.T, path, sid string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// csrf fetches a fresh token through a safe request.
func (ta *testApp) csrf(t *testing.T) string {
	t.Helper()
	tok := cookie(ta.get(t, "/login", ""), "csrf_")
	require.NotEmpty(t, tok, "csrf token missing")
	return tok
}

func (ta *testApp) post(t *testing.T, path string, form url.Values, sid, tok string) *http.Response {
	t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", tok)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	if sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// login signs the seeded admin in and returns the session id and a csrf token.
func (ta *testApp) login(t *testing.T) (sid, tok string) {
	t.Helper()
	tok = ta.csrf(t)
	resp := ta.post(t, "/login", url.Values{"email": {adminEmail}, "password": {adminPass}}, "", tok)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin", resp.Header.Get("Location"))
	sid = cookie(resp, "sid")
	require.NotEmpty(t, sid)
	return sid, tok
}

type logEntry struct {
	Level  string         `json:"level"`
	Kind   string         `json:"kind"`
	Action string         `json:"action"`
	Fields map[string]any `json:"fields"`
}

type lockedWriter struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

// captureLogs redirects the process logger while fn runs.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	w := &lockedWriter{}
	applog.SetOutput(w)
	defer applog.SetOutput(os.Stderr)

	fn()

	w.mu.Lock()
	defer w.mu.Unlock()
	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(w.b.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
