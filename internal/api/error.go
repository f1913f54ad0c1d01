// Package api defines the error taxonomy and the JSON response envelope
// shared by every handler.
package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a client-facing failure. Anything that is not an *Error
// propagates to the handler boundary as an internal error: logged,
// returned to the caller as a generic 500.
type Error struct {
	Status  int
	Title   string
	Message string
	Errors  interface{}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Message)
}

func New(status int, title, message string) *Error {
	return &Error{Status: status, Title: title, Message: message}
}

// FieldIssue is one entry of a VALIDATION_ERROR issue list.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError builds the 400 carrying field-level issues.
func ValidationError(issues []FieldIssue) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Title:   "VALIDATION_ERROR",
		Message: "Validation error in provided data",
		Errors:  issues,
	}
}

// DuplicateKeyError builds the 409 listing titles that already exist.
func DuplicateKeyError(titles []string) *Error {
	return &Error{
		Status:  http.StatusConflict,
		Title:   "DUPLICATE_KEY_ERROR",
		Message: "There are some values that already exist.",
		Errors:  titles,
	}
}

func NotFound(title, message string) *Error {
	return New(http.StatusNotFound, title, message)
}

func InvalidID(message string) *Error {
	return New(http.StatusBadRequest, "INVALID_ID", message)
}

// Shared auth errors, mirrored across users and accounts.
var (
	ErrSessionInvalidated = New(http.StatusUnauthorized, "SESSION_INVALIDATED", "The session was invalidated. Please login again.")
	ErrInvalidCredentials = New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password. Please try again.")
	ErrUserNotFound       = New(http.StatusNotFound, "USER_NOT_FOUND", "The user was not found. Please try again later.")
	ErrAuthorization      = New(http.StatusUnauthorized, "AUTHORIZATION_ERROR", "The user is not authorized to perform this action.")
)

// AsError unwraps err to an *Error if one is in the chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
