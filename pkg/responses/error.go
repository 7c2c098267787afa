package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladpirlog/takenote-api-sub000/internal/apperrors"
)

type ErrorResponse struct {
	Data interface{} `json:"error,omitempty"`
}

func Error(c *gin.Context, status int, err error, message string) {
	errorRes := map[string]interface{}{
		"message": message,
	}
	if err != nil {
		errorRes["error"] = err.Error()
	}

	c.JSON(status, ErrorResponse{Data: errorRes})
}

// FromError maps the core error taxonomy onto HTTP status codes. 401 and 403
// stay distinct ("not authenticated" vs "authenticated but forbidden"), and
// inactive share codes surface as plain 404.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated), errors.Is(err, apperrors.ErrTokenRevoked):
		Error(c, http.StatusUnauthorized, err, "Authentication required")
	case errors.Is(err, apperrors.ErrForbidden):
		Error(c, http.StatusForbidden, err, "Insufficient permissions")
	case errors.Is(err, apperrors.ErrNotFound):
		Error(c, http.StatusNotFound, err, "Resource not found")
	case errors.Is(err, apperrors.ErrConflict):
		Error(c, http.StatusConflict, err, "Conflicting state")
	case errors.Is(err, apperrors.ErrRateLimited):
		Error(c, http.StatusTooManyRequests, err, "Too many requests")
	case errors.Is(err, apperrors.ErrInvalidState),
		errors.Is(err, apperrors.ErrTwoFactorAlreadyActive),
		errors.Is(err, apperrors.ErrTwoFactorNotConfigured):
		Error(c, http.StatusConflict, err, "Operation not allowed in the current state")
	case errors.Is(err, apperrors.ErrInvalidCode):
		Error(c, http.StatusUnauthorized, err, "Invalid verification code")
	default:
		Error(c, http.StatusInternalServerError, err, "Internal server error")
	}
}
