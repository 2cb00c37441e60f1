// Package errors defines the single error type surfaced by buildtiming.
// Every failure carries a stable code so callers and tests can tell the
// error kinds apart without matching on message text.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Generation errors
	ErrMissingConfig     ErrorCode = "MISSING_CONFIG"
	ErrUnknownConstant   ErrorCode = "UNKNOWN_CONSTANT"
	ErrForwardReference  ErrorCode = "FORWARD_REFERENCE"
	ErrExternalSignal    ErrorCode = "EXTERNAL_SIGNAL"
	ErrSerialization     ErrorCode = "SERIALIZATION"
	ErrInvalidIdentifier ErrorCode = "INVALID_IDENTIFIER"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// FileSystem errors
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
	ErrStampRead  ErrorCode = "STAMP_READ"
	ErrStampWrite ErrorCode = "STAMP_WRITE"

	// Rebuild errors
	ErrStale ErrorCode = "STALE"
	ErrWatch ErrorCode = "WATCH"
)

// BuildTimingError represents a structured error with code and details
type BuildTimingError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *BuildTimingError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *BuildTimingError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *BuildTimingError) Is(target error) bool {
	var targetErr *BuildTimingError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new BuildTimingError with the given code and message
func New(code ErrorCode, message string) *BuildTimingError {
	return &BuildTimingError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new BuildTimingError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BuildTimingError {
	return &BuildTimingError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a BuildTimingError
func Wrap(err error, code ErrorCode, message string) *BuildTimingError {
	if err == nil {
		return nil
	}
	return &BuildTimingError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *BuildTimingError {
	if err == nil {
		return nil
	}
	return &BuildTimingError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *BuildTimingError) WithDetail(key string, value interface{}) *BuildTimingError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// UnknownConstant reports a reference to an identifier nothing registered.
// known is reported sorted so messages are stable between runs.
func UnknownConstant(owner, name string, known []string) *BuildTimingError {
	sorted := append([]string(nil), known...)
	sort.Strings(sorted)

	msg := fmt.Sprintf("unknown constant %q (known: %s)", name, strings.Join(sorted, ", "))
	if owner != "" {
		msg = fmt.Sprintf("constant %s references unknown constant %q (known: %s)", owner, name, strings.Join(sorted, ", "))
	}
	return New(ErrUnknownConstant, msg).
		WithDetail("owner", owner).
		WithDetail("identifier", name).
		WithDetail("known", sorted)
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var btErr *BuildTimingError
	if errors.As(err, &btErr) {
		return btErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a BuildTimingError
func GetErrorCode(err error) ErrorCode {
	var btErr *BuildTimingError
	if errors.As(err, &btErr) {
		return btErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a BuildTimingError
func GetErrorDetails(err error) map[string]interface{} {
	var btErr *BuildTimingError
	if errors.As(err, &btErr) {
		return btErr.Details
	}
	return nil
}
