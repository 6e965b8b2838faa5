// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrRateLimited       = errors.New("rate limited")
)

// AppError is the fixed failure taxonomy crossing component boundaries.
// Every failure detected inside a component is converted to one of these
// before reaching a handler; nothing propagates un-translated.
type AppError struct {
	Err     error
	Message string
	Status  int
	Code    string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, status int, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Status:  status,
		Code:    code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func MalformedInputError(message string) *AppError {
	return NewAppError(nil, message, http.StatusBadRequest, "MALFORMED_INPUT")
}

func InvalidOperationError(operation string) *AppError {
	return NewAppError(
		nil,
		fmt.Sprintf("unknown operation %q", operation),
		http.StatusBadRequest,
		"INVALID_OPERATION",
	)
}

func InvalidTableError(table string) *AppError {
	return NewAppError(
		nil,
		fmt.Sprintf("unknown table %q", table),
		http.StatusBadRequest,
		"INVALID_TABLE",
	)
}

func MissingIdentifierError(operation string) *AppError {
	return NewAppError(
		nil,
		fmt.Sprintf("operation %q requires an id", operation),
		http.StatusBadRequest,
		"MISSING_IDENTIFIER",
	)
}

func NoValidFieldsError(table string) *AppError {
	return NewAppError(
		nil,
		fmt.Sprintf("no permitted fields for table %q", table),
		http.StatusBadRequest,
		"NO_VALID_FIELDS",
	)
}

func UnauthenticatedError() *AppError {
	return NewAppError(
		ErrUnauthenticated,
		"missing credential",
		http.StatusUnauthorized,
		"UNAUTHENTICATED",
	)
}

func InvalidCredentialError() *AppError {
	return NewAppError(
		ErrInvalidCredential,
		"invalid credential",
		http.StatusUnauthorized,
		"INVALID_CREDENTIAL",
	)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return NewAppError(
		ErrInvalidCredential,
		message,
		http.StatusUnauthorized,
		"INVALID_CREDENTIAL",
	)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
		"NOT_FOUND",
	)
}

func RateLimitedError(retryAfterSecs int) *AppError {
	return NewAppError(
		ErrRateLimited,
		fmt.Sprintf(
			"rate limit exceeded, retry after %d seconds",
			retryAfterSecs,
		),
		http.StatusTooManyRequests,
		"RATE_LIMITED",
	)
}

// StorageError hides the underlying storage failure from the caller. The
// cause stays attached for server-side logging and is never echoed in the
// response body.
func StorageError(err error) *AppError {
	return NewAppError(
		err,
		"internal storage error",
		http.StatusInternalServerError,
		"STORAGE_FAILURE",
	)
}
