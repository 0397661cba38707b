package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"bantu/internal/config"
	"bantu/internal/db"
	"bantu/internal/router"
	"bantu/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

var (
	testDB    *gorm.DB
	setupOnce sync.Once
	setupErr  error
)

// setupTestDB opens the shared test database, preferring TEST_DATABASE_URL
// and falling back to a throwaway Postgres container. Tests are skipped when
// neither is available. Tables are truncated before each test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	setupOnce.Do(func() {
		dsn := os.Getenv("TEST_DATABASE_URL")
		if dsn == "" {
			dsn, setupErr = startPostgres()
			if setupErr != nil {
				return
			}
		}
		testDB, setupErr = db.Open(dsn)
		if setupErr != nil {
			return
		}
		setupErr = db.Migrate(testDB)
	})
	if setupErr != nil {
		t.Skipf("postgres unavailable: %v", setupErr)
	}

	err := testDB.Exec("TRUNCATE follows, likes, comments, posts, users RESTART IDENTITY CASCADE").Error
	require.NoError(t, err)
	utils.GetCache().Purge()
	return testDB
}

func startPostgres() (dsn string, err error) {
	// testcontainers panics (rather than returning an error) when no Docker
	// host can be found; recover so the skip path in setupTestDB still works.
	defer func() {
		if r := recover(); r != nil {
			dsn, err = "", fmt.Errorf("starting postgres container: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("bantu_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		return "", err
	}
	return container.ConnectionString(ctx, "sslmode=disable")
}

// newTestRouter builds the full application router against the test DB,
// with templates loaded from the repo and uploads going to a temp dir.
func newTestRouter(t *testing.T, database *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	store.Options(sessions.Options{Path: "/", MaxAge: 0, HttpOnly: true})
	r.Use(sessions.Sessions("bantu_session", store))
	r.HTMLRender = router.LoadTemplates("../../web/templates")

	cfg := config.Config{
		UploadDir:          t.TempDir(),
		RateLimitPerMinute: 10000, // out of the way for tests
	}
	router.RegisterRoutes(r, database, cfg)
	return r
}

// testClient drives the router like a browser, carrying session cookies
// between requests.
type testClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, r *gin.Engine) *testClient {
	return &testClient{t: t, router: r, cookies: map[string]*http.Cookie{}}
}

func (c *testClient) do(method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, "", nil)
}

func (c *testClient) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

func (c *testClient) postJSON(path string, payload interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(c.t, err)
	return c.do(http.MethodPost, path, "application/json", bytes.NewReader(data))
}

// signUpAndLogin registers the user and logs them in, returning a client
// holding a live session.
func signUpAndLogin(t *testing.T, r *gin.Engine, username, email, password string) *testClient {
	t.Helper()
	c := newClient(t, r)

	w := c.postForm("/register", url.Values{
		"username":         {username},
		"email":            {email},
		"password":         {password},
		"confirm_password": {password},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/login", w.Header().Get("Location"))

	w = c.postForm("/login", url.Values{
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))

	return c
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
