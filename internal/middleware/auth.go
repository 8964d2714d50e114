package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"finbook/internal/logger"
	"finbook/internal/session"
)

const (
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"

	tokenContextKey = "sessionToken"
	userContextKey  = "sessionUser"
)

// SetSessionCookie binds a session token to the browser. maxAge of zero
// makes it a session cookie, discarded when the browser closes.
func SetSessionCookie(c *gin.Context, token string, maxAge time.Duration, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(c *gin.Context, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireSession gates protected pages. Requests without an authenticated
// session are redirected to /login with 303; the guard is re-checked on
// every request since sessions can expire mid-flow.
func RequireSession(sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Request.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		data, err := sessions.Get(c.Request.Context(), cookie.Value)
		if err != nil {
			logger.Get().Errorw("session lookup failed",
				"error", err.Error(),
				"path", c.Request.URL.Path,
			)
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		if data == nil || data.User == nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		c.Set(tokenContextKey, cookie.Value)
		c.Set(userContextKey, data.User)
		c.Next()
	}
}

// SessionToken returns the validated session token for the current request.
// Only meaningful behind RequireSession.
func SessionToken(c *gin.Context) (string, bool) {
	token, exists := c.Get(tokenContextKey)
	if !exists {
		return "", false
	}
	return token.(string), true
}

// SessionUser returns the authenticated user bound to the current request.
// Only meaningful behind RequireSession.
func SessionUser(c *gin.Context) (*session.User, bool) {
	user, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	return user.(*session.User), true
}
