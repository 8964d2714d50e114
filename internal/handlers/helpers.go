package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "finbook/internal/errors"
	"finbook/internal/logger"
)

// renderFormError re-renders a form page with the error's inline message.
// Unexpected errors are handed to the error middleware instead of being
// shown to the browser.
func renderFormError(c *gin.Context, page string, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != apperrors.ErrInternalServer.Code {
		if appErr.Internal != nil {
			logger.Get().Errorw("form error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.HTML(appErr.StatusCode, page, gin.H{"error": appErr.Message})
		return
	}
	c.Error(err)
}
