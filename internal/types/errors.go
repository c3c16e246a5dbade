package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies fatal generation failures.
type ErrorCode string

const (
	CodePathNotFound         ErrorCode = "PATH_NOT_FOUND"
	CodePermissionDenied     ErrorCode = "PERMISSION_DENIED"
	CodeInvalidConfiguration ErrorCode = "INVALID_CONFIG"
	CodeUnexpected           ErrorCode = "UNEXPECTED_ERROR"
)

// Sentinels matched by errors.Is against an *Error carrying the corresponding code.
var (
	ErrPathNotFound         = errors.New("path not found")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrUnexpected           = errors.New("unexpected error")
)

var sentinelByCode = map[ErrorCode]error{
	CodePathNotFound:         ErrPathNotFound,
	CodePermissionDenied:     ErrPermissionDenied,
	CodeInvalidConfiguration: ErrInvalidConfiguration,
	CodeUnexpected:           ErrUnexpected,
}

// Error is the typed failure surfaced to callers of a generation.
type Error struct {
	Code    ErrorCode
	Path    string
	Message string
	Details []string
	Err     error
}

func (failure *Error) Error() string {
	message := failure.Message
	if len(failure.Details) > 0 {
		message = message + ": " + strings.Join(failure.Details, "; ")
	}
	if failure.Err != nil {
		message = message + ": " + failure.Err.Error()
	}
	return message
}

func (failure *Error) Unwrap() error {
	return failure.Err
}

// Is matches the sentinel associated with the error code.
func (failure *Error) Is(target error) bool {
	return sentinelByCode[failure.Code] == target
}

// NewPathNotFoundError reports a missing root path.
func NewPathNotFoundError(path string) *Error {
	return &Error{
		Code:    CodePathNotFound,
		Path:    path,
		Message: fmt.Sprintf("Path not found: %q does not exist", path),
	}
}

// NewPermissionDeniedError reports an unreadable root path.
func NewPermissionDeniedError(path string, cause error) *Error {
	return &Error{
		Code:    CodePermissionDenied,
		Path:    path,
		Message: fmt.Sprintf("Permission denied: %q cannot be read", path),
		Err:     cause,
	}
}

// NewConfigurationError collects configuration violations.
func NewConfigurationError(violations []string) *Error {
	return &Error{
		Code:    CodeInvalidConfiguration,
		Message: "Invalid configuration",
		Details: append([]string(nil), violations...),
	}
}

// NewUnexpectedError wraps any other failure with the path being processed.
func NewUnexpectedError(path string, cause error) *Error {
	return &Error{
		Code:    CodeUnexpected,
		Path:    path,
		Message: fmt.Sprintf("Unexpected error while processing %q", path),
		Err:     cause,
	}
}
