package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types for the tracker client and the reference server
var (
	// Transport errors
	ErrConfiguration = errors.New("api endpoint is not configured")
	ErrNetwork       = errors.New("network error while calling API")
	ErrTimeout       = errors.New("API request timed out")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("account is inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username already taken")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Project errors
	ErrProjectNotFound = errors.New("project not found")
	ErrNotProjectOwner = errors.New("not the project owner")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// RequestFailedError is returned by the API facade whenever the remote
// endpoint answers without ok == true. Transport-level success is decoupled
// from application-level success, so the absence of ok is always a failure.
type RequestFailedError struct {
	Message string
}

func (e *RequestFailedError) Error() string {
	if e.Message == "" {
		return "Request failed"
	}
	return e.Message
}

// NewRequestFailed builds a RequestFailedError from a server-supplied message.
// A generic fallback is used when the server sent none.
func NewRequestFailed(message string) *RequestFailedError {
	return &RequestFailedError{Message: message}
}

// ValidationError reports a client-side form check failure. No request is
// issued when validation fails.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsUnauthorized reports whether err carries an unauthorized/expired
// credential signal from the remote endpoint. The remote contract exposes no
// structured status field, so this remains a case-insensitive substring match
// on the failure message for wire compatibility.
func IsUnauthorized(err error) bool {
	var rf *RequestFailedError
	if !errors.As(err, &rf) {
		return false
	}
	return strings.Contains(strings.ToLower(rf.Error()), "unauthorized")
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
