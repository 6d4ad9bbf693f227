package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/geopin/geopin-bot/internal/errors"
)

// Envelope is the wire format of every API response.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Details string      `json:"details,omitempty"`
}

const (
	statusSuccess = "success"
	statusError   = "error"
)

func respondSuccess(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Envelope{
		Status:  statusSuccess,
		Message: message,
		Data:    data,
	})
}

func respondError(c *gin.Context, code int, message, details string) {
	c.AbortWithStatusJSON(code, Envelope{
		Status:  statusError,
		Message: message,
		Details: details,
	})
}

// respondAppError maps the application error taxonomy onto HTTP statuses,
// always inside the envelope. Nothing escapes as a bare 500.
func respondAppError(c *gin.Context, err error, message string) {
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		respondError(c, http.StatusNotFound, message, "")
	case apperrors.KindForbidden:
		respondError(c, http.StatusForbidden, message, "")
	case apperrors.KindInvalidInput:
		respondError(c, http.StatusBadRequest, message, "")
	case apperrors.KindConflict:
		respondError(c, http.StatusConflict, message, "")
	default:
		respondError(c, http.StatusInternalServerError, message, err.Error())
	}
}
