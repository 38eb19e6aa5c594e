package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hybrid-cipher-go/internal/errors"
	"github.com/hybrid-cipher-go/internal/trace"
)

// UsernameKey is the gin context key holding the authenticated user
const UsernameKey = "username"

// APIResponse represents a standard API response
type APIResponse struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg,omitempty"`
	Data interface{} `json:"data,omitempty"`
}

// RespondError writes a JSON error response with logging
func RespondError(c *gin.Context, err error) {
	status := errors.ToHTTPStatus(err)
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewInternalWithCause("Internal server error", err)
	}

	logger := trace.Logger(c.Request.Context())
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	if appErr.Cause != nil {
		event = event.Err(appErr.Cause)
	}
	event.Int("code", int(appErr.Code)).Msg(appErr.Message)

	c.Abort()
	c.Data(status, "application/json; charset=utf-8", errors.ToJSON(appErr))
}

// RespondSuccess writes a JSON success response
func RespondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Code: 0,
		Data: data,
	})
}

// RespondSuccessMsg writes a JSON success response with a message
func RespondSuccessMsg(c *gin.Context, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Code: 0,
		Msg:  message,
	})
}

// bindJSON decodes the request body, keeping key validation errors intact
func bindJSON(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		if appErr, ok := errors.As(err); ok {
			return appErr
		}
		return errors.NewBadRequestWithCause("Invalid request", err)
	}
	return nil
}
