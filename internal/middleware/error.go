package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "finbook/internal/errors"
	"finbook/internal/logger"
)

// ErrorHandler converts errors set on the Gin context into an HTML error
// page. Handlers deal with the expected form errors inline; anything that
// reaches this middleware is an unrecoverable request failure (missing
// template, store unreachable). Details are logged, never shown.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Process the last error (most relevant in a middleware chain)
		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			if appErr.Internal != nil {
				logger.Get().Errorw("app error",
					"code", appErr.Code,
					"message", appErr.Message,
					"internal", appErr.Internal.Error(),
					"path", c.Request.URL.Path,
				)
			}
			c.HTML(appErr.StatusCode, "error.html", gin.H{"message": appErr.Message})
			return
		}

		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		c.HTML(apperrors.ErrInternalServer.StatusCode, "error.html", gin.H{
			"message": apperrors.ErrInternalServer.Message,
		})
	}
}
