package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbook/internal/config"
	apperrors "finbook/internal/errors"
	"finbook/internal/logger"
	"finbook/internal/middleware"
	"finbook/internal/models"
	"finbook/internal/session"
	"finbook/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// --- mock user service ---

type mockUserService struct {
	createUserFn        func(firstName, lastName, email, phone, password, dateOfBirth string) (*models.User, error)
	verifyCredentialsFn func(email, password string) (*models.User, error)
	getUserByIDFn       func(id uint) (*models.User, error)

	createCalls int
}

func (m *mockUserService) CreateUser(firstName, lastName, email, phone, password, dateOfBirth string) (*models.User, error) {
	m.createCalls++
	if m.createUserFn != nil {
		return m.createUserFn(firstName, lastName, email, phone, password, dateOfBirth)
	}
	return &models.User{ID: 1, Email: email}, nil
}

func (m *mockUserService) VerifyCredentials(email, password string) (*models.User, error) {
	if m.verifyCredentialsFn != nil {
		return m.verifyCredentialsFn(email, password)
	}
	return &models.User{ID: 1, Email: email}, nil
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{ID: id}, nil
}

func testConfig() *config.Config {
	return &config.Config{SessionBackend: config.SessionBackendMemory}
}

func newAuthRouter(t *testing.T, users *mockUserService, sessions session.Store) *gin.Engine {
	t.Helper()

	router := gin.New()
	require.NoError(t, LoadTemplates(router))

	h := NewAuthHandler(users, sessions, testConfig())
	router.GET("/", h.SignupPage)
	router.POST("/signup", h.Signup)
	router.GET("/login", h.LoginPage)
	router.POST("/login", h.Login)
	router.GET("/logout", h.Logout)
	return router
}

func postForm(router *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validSignupForm() url.Values {
	return url.Values{
		"firstName":       {"Alice"},
		"lastName":        {"Smith"},
		"email":           {"a@x.com"},
		"phone":           {"555-0101"},
		"password":        {"p"},
		"confirmPassword": {"p"},
		"dateOfBirth":     {"1990-05-04"},
	}
}

func TestSignupPage(t *testing.T) {
	router := newAuthRouter(t, &mockUserService{}, session.NewMemoryStore(0))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/signup"`)
}

func TestSignup(t *testing.T) {
	t.Run("success_redirects_to_login", func(t *testing.T) {
		users := &mockUserService{}
		router := newAuthRouter(t, users, session.NewMemoryStore(0))

		w := postForm(router, "/signup", validSignupForm())

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		assert.Equal(t, 1, users.createCalls)
	})

	t.Run("password_mismatch_no_write", func(t *testing.T) {
		users := &mockUserService{}
		router := newAuthRouter(t, users, session.NewMemoryStore(0))

		form := validSignupForm()
		form.Set("confirmPassword", "other")
		w := postForm(router, "/signup", form)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Passwords do not match!")
		assert.Zero(t, users.createCalls)
	})

	t.Run("duplicate_email", func(t *testing.T) {
		users := &mockUserService{
			createUserFn: func(_, _, _, _, _, _ string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		router := newAuthRouter(t, users, session.NewMemoryStore(0))

		w := postForm(router, "/signup", validSignupForm())

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Email already exists!")
	})

	t.Run("missing_fields_rerender", func(t *testing.T) {
		users := &mockUserService{}
		router := newAuthRouter(t, users, session.NewMemoryStore(0))

		form := validSignupForm()
		form.Del("email")
		w := postForm(router, "/signup", form)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "required fields")
		assert.Zero(t, users.createCalls)
	})
}

func TestLogin(t *testing.T) {
	t.Run("success_sets_fresh_session", func(t *testing.T) {
		store := session.NewMemoryStore(0)
		router := newAuthRouter(t, &mockUserService{}, store)

		w := postForm(router, "/login", url.Values{"email": {"a@x.com"}, "password": {"p"}})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/income", w.Header().Get("Location"))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)

		data, err := store.Get(context.Background(), cookies[0].Value)
		require.NoError(t, err)
		require.NotNil(t, data)
		assert.Equal(t, "a@x.com", data.User.Email)
		assert.Empty(t, data.Transactions)
	})

	t.Run("login_discards_prior_session", func(t *testing.T) {
		store := session.NewMemoryStore(0)
		router := newAuthRouter(t, &mockUserService{}, store)

		old := session.NewData(1, "a@x.com")
		old.Transactions = append(old.Transactions, session.NewExpense("lunch", 50, "-"))
		require.NoError(t, store.Set(context.Background(), "oldtoken", old))

		w := postForm(router, "/login",
			url.Values{"email": {"a@x.com"}, "password": {"p"}},
			&http.Cookie{Name: middleware.SessionCookieName, Value: "oldtoken"})

		assert.Equal(t, http.StatusSeeOther, w.Code)

		// Old session gone, new session empty.
		gone, err := store.Get(context.Background(), "oldtoken")
		require.NoError(t, err)
		assert.Nil(t, gone)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		fresh, err := store.Get(context.Background(), cookies[0].Value)
		require.NoError(t, err)
		require.NotNil(t, fresh)
		assert.Empty(t, fresh.Transactions)
	})

	t.Run("invalid_credentials", func(t *testing.T) {
		users := &mockUserService{
			verifyCredentialsFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		store := session.NewMemoryStore(0)
		router := newAuthRouter(t, users, store)

		w := postForm(router, "/login", url.Values{"email": {"a@x.com"}, "password": {"wrong"}})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email or password!")
		assert.Empty(t, w.Result().Cookies())
		assert.Zero(t, store.Len())
	})
}

func TestLoginPage(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		router := newAuthRouter(t, &mockUserService{}, session.NewMemoryStore(0))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `action="/login"`)
	})

	t.Run("already_authenticated_redirects", func(t *testing.T) {
		store := session.NewMemoryStore(0)
		require.NoError(t, store.Set(context.Background(), "tok", session.NewData(1, "a@x.com")))
		router := newAuthRouter(t, &mockUserService{}, store)

		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tok"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/index", w.Header().Get("Location"))
	})
}

func TestLogout(t *testing.T) {
	store := session.NewMemoryStore(0)
	require.NoError(t, store.Set(context.Background(), "tok", session.NewData(1, "a@x.com")))
	router := newAuthRouter(t, &mockUserService{}, store)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tok"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	data, err := store.Get(context.Background(), "tok")
	require.NoError(t, err)
	assert.Nil(t, data)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}
