package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/smarttutor-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError uses the status and code carried by an *apierr.Error
// and falls back to 500 with fallbackCode for anything else.
func RespondServiceError(c *gin.Context, fallbackCode string, err error) {
	status, code := apierr.StatusOf(err, http.StatusInternalServerError)
	if code == "" {
		code = fallbackCode
	}
	if err != nil && status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	RespondError(c, status, code, err)
}

func AbortError(c *gin.Context, status int, code string, err error) {
	RespondError(c, status, code, err)
	c.Abort()
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
