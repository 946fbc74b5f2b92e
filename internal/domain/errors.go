package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("rate limited")
	ErrUpstream     = errors.New("upstream error")
)

// Machine-readable error codes, surfaced verbatim in error response bodies.
const (
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeUnauthorizedAccess = "UNAUTHORIZED_ACCESS"
	CodeChatNotFound       = "CHAT_NOT_FOUND"
	CodeThreadNotFound     = "THREAD_NOT_FOUND"
	CodeDuplicateFeedback  = "DUPLICATE_FEEDBACK"
	CodeFeedbackNotFound   = "FEEDBACK_NOT_FOUND"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeProviderError      = "PROVIDER_ERROR"
	CodeProviderRateLimit  = "PROVIDER_RATE_LIMIT"
	CodeInternalError      = "INTERNAL_SERVER_ERROR"
)

// Error is a domain error carrying a machine-readable code alongside a
// human message. It wraps one of the sentinel errors above so callers can
// branch with errors.Is while the HTTP boundary reads the code.
type Error struct {
	Code    string
	Message string
	kind    error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.kind }

// NewError builds a coded error wrapping the given sentinel.
func NewError(kind error, code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		kind:    kind,
	}
}

// ErrorCode extracts the machine-readable code from err, or falls back to
// a sentinel-derived default. Unknown errors map to INTERNAL_SERVER_ERROR.
func ErrorCode(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "RESOURCE_NOT_FOUND"
	case errors.Is(err, ErrConflict):
		return "RESOURCE_CONFLICT"
	case errors.Is(err, ErrValidation):
		return CodeInvalidRequest
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeUnauthorizedAccess
	case errors.Is(err, ErrRateLimited):
		return CodeProviderRateLimit
	case errors.Is(err, ErrUpstream):
		return CodeProviderError
	default:
		return CodeInternalError
	}
}
