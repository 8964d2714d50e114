package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finbook/internal/config"
	apperrors "finbook/internal/errors"
	"finbook/internal/logger"
	"finbook/internal/middleware"
	"finbook/internal/services"
	"finbook/internal/session"
)

// AuthHandler handles signup, login, and logout.
type AuthHandler struct {
	users    services.UserServicer
	sessions session.Store
	cfg      *config.Config
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users services.UserServicer, sessions session.Store, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, cfg: cfg}
}

// SignupForm represents the signup form fields.
type SignupForm struct {
	FirstName       string `form:"firstName" binding:"required,max=100"`
	LastName        string `form:"lastName" binding:"required,max=100"`
	Email           string `form:"email" binding:"required,email,max=255"`
	Phone           string `form:"phone" binding:"omitempty,max=32"`
	Password        string `form:"password" binding:"required"`
	ConfirmPassword string `form:"confirmPassword" binding:"required"`
	DateOfBirth     string `form:"dateOfBirth" binding:"required,dob"`
}

// LoginForm represents the login form fields.
type LoginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// SignupPage renders the signup form.
func (h *AuthHandler) SignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{})
}

// Signup handles the signup form submission. Validation failures re-render
// the form with an inline error and write nothing.
func (h *AuthHandler) Signup(c *gin.Context) {
	var form SignupForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{"error": "Please fill in all required fields."})
		return
	}

	if form.Password != form.ConfirmPassword {
		c.HTML(apperrors.ErrPasswordMismatch.StatusCode, "signup.html", gin.H{"error": apperrors.ErrPasswordMismatch.Message})
		return
	}

	if _, err := h.users.CreateUser(form.FirstName, form.LastName, form.Email, form.Phone, form.Password, form.DateOfBirth); err != nil {
		renderFormError(c, "signup.html", err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/login")
}

// LoginPage renders the login form. Visitors that already hold a valid
// session are sent straight to the dashboard.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if cookie, err := c.Request.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if data, err := h.sessions.Get(c.Request.Context(), cookie.Value); err == nil && data != nil && data.User != nil {
			c.Redirect(http.StatusSeeOther, "/index")
			return
		}
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login handles the login form submission. Success starts a fresh session
// with an empty ledger, discarding any prior session bound to the cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(apperrors.ErrInvalidCredentials.StatusCode, "login.html", gin.H{"error": apperrors.ErrInvalidCredentials.Message})
		return
	}

	user, err := h.users.VerifyCredentials(form.Email, form.Password)
	if err != nil {
		renderFormError(c, "login.html", err)
		return
	}

	// Drop whatever session the browser held before.
	if cookie, err := c.Request.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Clear(c.Request.Context(), cookie.Value); err != nil {
			logger.Get().Warnw("failed to clear previous session", "error", err.Error())
		}
	}

	token, err := session.NewToken()
	if err != nil {
		c.Error(apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	if err := h.sessions.Set(c.Request.Context(), token, session.NewData(user.ID, user.Email)); err != nil {
		c.Error(apperrors.Wrap(apperrors.ErrSessionStore, err))
		return
	}

	middleware.SetSessionCookie(c, token, h.cfg.SessionTTL, h.cfg.SecureCookie)
	c.Redirect(http.StatusSeeOther, "/income")
}

// Logout clears the session server-side and expires the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Request.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Clear(c.Request.Context(), cookie.Value); err != nil {
			logger.Get().Warnw("failed to clear session on logout", "error", err.Error())
		}
	}
	middleware.ClearSessionCookie(c, h.cfg.SecureCookie)
	c.Redirect(http.StatusSeeOther, "/login")
}
