package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents application error codes
type ErrorCode int

const (
	// Client errors (4xx)
	ErrCodeBadRequest   ErrorCode = 400
	ErrCodeUnauthorized ErrorCode = 401
	ErrCodeNotFound     ErrorCode = 404

	// Cipher input errors, reported as 422
	ErrCodeInvalidPadding  ErrorCode = 4220
	ErrCodeInvalidLength   ErrorCode = 4221
	ErrCodeInvalidKey      ErrorCode = 4222
	ErrCodeInvalidEncoding ErrorCode = 4223

	// Server errors (5xx)
	ErrCodeInternal ErrorCode = 500
	ErrCodeStorage  ErrorCode = 503
)

// AppError represents a structured application error
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"-"`
	Cause      error     `json:"-"`
}

// Sentinels for errors.Is. Any AppError with the same code matches.
var (
	ErrInvalidPadding  = &AppError{Code: ErrCodeInvalidPadding, Message: "invalid padding", HTTPStatus: http.StatusUnprocessableEntity}
	ErrInvalidLength   = &AppError{Code: ErrCodeInvalidLength, Message: "invalid length", HTTPStatus: http.StatusUnprocessableEntity}
	ErrInvalidKey      = &AppError{Code: ErrCodeInvalidKey, Message: "invalid key", HTTPStatus: http.StatusUnprocessableEntity}
	ErrInvalidEncoding = &AppError{Code: ErrCodeInvalidEncoding, Message: "invalid encoding", HTTPStatus: http.StatusUnprocessableEntity}
	ErrNotFound        = &AppError{Code: ErrCodeNotFound, Message: "not found", HTTPStatus: http.StatusNotFound}
)

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError carrying the same code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newCipherError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewInvalidPadding creates a padding trailer error
func NewInvalidPadding(format string, args ...interface{}) *AppError {
	return newCipherError(ErrCodeInvalidPadding, "invalid padding: "+fmt.Sprintf(format, args...))
}

// NewInvalidLength creates a length/alignment error
func NewInvalidLength(format string, args ...interface{}) *AppError {
	return newCipherError(ErrCodeInvalidLength, "invalid length: "+fmt.Sprintf(format, args...))
}

// NewInvalidKey creates a key material error
func NewInvalidKey(format string, args ...interface{}) *AppError {
	return newCipherError(ErrCodeInvalidKey, "invalid key: "+fmt.Sprintf(format, args...))
}

// NewInvalidEncoding creates a text decoding error
func NewInvalidEncoding(message string) *AppError {
	return newCipherError(ErrCodeInvalidEncoding, "invalid encoding: "+message)
}

// NewBadRequest creates a bad request error
func NewBadRequest(message string) *AppError {
	return &AppError{
		Code:       ErrCodeBadRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewBadRequestWithCause creates a bad request error with cause
func NewBadRequestWithCause(message string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeBadRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewUnauthorized creates an unauthorized error
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       ErrCodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewNotFound creates a not found error
func NewNotFound(message string) *AppError {
	return &AppError{
		Code:       ErrCodeNotFound,
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewInternal creates an internal server error
func NewInternal(message string) *AppError {
	return &AppError{
		Code:       ErrCodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewInternalWithCause creates an internal server error with cause
func NewInternalWithCause(message string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewStorageErrorWithCause creates a keystore error with cause
func NewStorageErrorWithCause(message string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeStorage,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// As extracts the first AppError in err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ToHTTPStatus converts an error to HTTP status code
func ToHTTPStatus(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// ToJSON converts an error to JSON bytes
func ToJSON(err error) []byte {
	if appErr, ok := As(err); ok {
		data, _ := json.Marshal(map[string]interface{}{
			"code": appErr.Code,
			"msg":  appErr.Message,
		})
		return data
	}
	data, _ := json.Marshal(map[string]interface{}{
		"code": ErrCodeInternal,
		"msg":  err.Error(),
	})
	return data
}
