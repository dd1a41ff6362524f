package httptransport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	platformerrors "github.com/codegoddy/skincare/internal/platform/errors"
)

// APIResponse is the uniform response envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func respond(c *gin.Context, httpStatus int, success bool, message string, data any) {
	if message == "" {
		if success {
			message = "ok"
		} else {
			message = http.StatusText(httpStatus)
		}
	}

	resp := APIResponse{
		Success: success,
		Message: message,
		Code:    httpStatus,
	}
	if data == nil {
		resp.Data = gin.H{}
	} else {
		resp.Data = data
	}

	c.JSON(httpStatus, resp)
}

// RespondSuccess writes a success envelope.
func RespondSuccess(c *gin.Context, httpStatus int, data any, message string) {
	respond(c, httpStatus, true, message, data)
}

// RespondError writes a failure envelope.
func RespondError(c *gin.Context, httpStatus int, message string, data any) {
	respond(c, httpStatus, false, message, data)
}

// RespondFromError maps the error taxonomy onto HTTP statuses. Lockouts gain
// a Retry-After header; auth failures gain the bearer challenge.
func RespondFromError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case platformerrors.IsKind(err, platformerrors.KindLockout):
		status = http.StatusTooManyRequests
		message = "account temporarily locked due to too many failed login attempts"
		if secs, ok := platformerrors.RetryAfter(err); ok {
			c.Header("Retry-After", strconv.Itoa(secs))
			message = "account temporarily locked, retry in " + strconv.Itoa(secs) + "s"
		}
	case platformerrors.IsKind(err, platformerrors.KindAuth):
		status = http.StatusUnauthorized
		message = "could not validate credentials"
		c.Header("WWW-Authenticate", "Bearer")
	case platformerrors.IsKind(err, platformerrors.KindForbidden):
		status = http.StatusForbidden
		message = "admin access required"
	case platformerrors.IsKind(err, platformerrors.KindValidation):
		status = http.StatusBadRequest
		message = errorMessage(err, "invalid request")
	case platformerrors.IsKind(err, platformerrors.KindNotFound):
		status = http.StatusNotFound
		message = errorMessage(err, "not found")
	case platformerrors.IsKind(err, platformerrors.KindConflict):
		status = http.StatusConflict
		message = errorMessage(err, "conflict")
	case platformerrors.IsKind(err, platformerrors.KindUpstream):
		status = http.StatusServiceUnavailable
		message = "upstream service unavailable"
	}

	RespondError(c, status, message, nil)
}

func errorMessage(err error, fallback string) string {
	var e *platformerrors.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
