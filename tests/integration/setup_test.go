package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"finbook/internal/config"
	"finbook/internal/handlers"
	"finbook/internal/hash"
	"finbook/internal/logger"
	"finbook/internal/middleware"
	"finbook/internal/models"
	"finbook/internal/services"
	"finbook/internal/session"
	"finbook/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB       *gorm.DB
	Sessions *session.MemoryStore
	Router   *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:itestdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database and an in-memory session store, wired exactly like
// cmd/server.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	sessions := session.NewMemoryStore(0)
	cfg := &config.Config{
		SessionBackend: config.SessionBackendMemory,
		HashScheme:     config.HashSchemeSHA256,
	}

	// Services
	userService := services.NewUserService(db, hash.New(cfg.HashScheme))
	ledgerService := services.NewLedgerService(sessions)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, sessions, cfg)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, userService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.ErrorHandler())
	if err := handlers.LoadTemplates(router); err != nil {
		t.Fatalf("failed to load templates: %v", err)
	}

	router.GET("/", authHandler.SignupPage)
	router.POST("/signup", authHandler.Signup)
	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)

	protected := router.Group("/")
	protected.Use(middleware.RequireSession(sessions))
	protected.GET("/index", ledgerHandler.Dashboard)
	protected.GET("/income", ledgerHandler.IncomePage)
	protected.POST("/incomeForm", ledgerHandler.SubmitIncome)
	protected.POST("/expenseform", ledgerHandler.SubmitExpense)

	return &testApp{DB: db, Sessions: sessions, Router: router}
}

// get performs a GET request, attaching the session cookie when non-empty.
func (app *testApp) get(path, sessionCookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sessionCookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sessionCookie})
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

// post performs a form POST, attaching the session cookie when non-empty.
func (app *testApp) post(path string, form url.Values, sessionCookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sessionCookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sessionCookie})
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

// sessionCookieValue extracts the session cookie set on a response, or "".
func sessionCookieValue(w *httptest.ResponseRecorder) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c.Value
		}
	}
	return ""
}

// signup registers a user through the HTTP surface.
func (app *testApp) signup(t *testing.T, email, password string) {
	t.Helper()

	w := app.post("/signup", url.Values{
		"firstName":       {"Test"},
		"lastName":        {"User"},
		"email":           {email},
		"password":        {password},
		"confirmPassword": {password},
		"dateOfBirth":     {"1990-01-01"},
	}, "")
	if w.Code != http.StatusSeeOther {
		t.Fatalf("signup failed: status %d, body: %s", w.Code, w.Body.String())
	}
}

// login authenticates and returns the fresh session cookie value.
func (app *testApp) login(t *testing.T, email, password string) string {
	t.Helper()

	w := app.post("/login", url.Values{"email": {email}, "password": {password}}, "")
	if w.Code != http.StatusSeeOther {
		t.Fatalf("login failed: status %d, body: %s", w.Code, w.Body.String())
	}
	cookie := sessionCookieValue(w)
	if cookie == "" {
		t.Fatal("expected a session cookie on login")
	}
	return cookie
}
