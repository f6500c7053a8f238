// Package server provides the HTTP REST API for the careers portal.
package server

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUsernameTaken indicates an admin username is already registered
type ErrUsernameTaken struct {
	Username string
}

func (e *ErrUsernameTaken) Error() string {
	return fmt.Sprintf("username already registered: %s", e.Username)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid username or password"
}

// ErrRegistrationDisabled is returned when self-service admin signup is off
type ErrRegistrationDisabled struct{}

func (e *ErrRegistrationDisabled) Error() string {
	return "admin registration is disabled"
}

// ErrNotFound indicates a missing resource
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// SubmissionTransportError wraps a storage or transport failure while
// submitting an application or a job. Clients only see a generic message.
type SubmissionTransportError struct {
	Op    string
	Cause error
}

func (e *SubmissionTransportError) Error() string {
	return fmt.Sprintf("submission failed: %s: %v", e.Op, e.Cause)
}

func (e *SubmissionTransportError) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		taken     *ErrUsernameTaken
		creds     *ErrInvalidCredentials
		disabled  *ErrRegistrationDisabled
		notFound  *ErrNotFound
		invalid   *ErrValidation
		transport *SubmissionTransportError
	)
	switch {
	case errors.As(err, &taken), errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &creds):
		return http.StatusUnauthorized
	case errors.As(err, &disabled):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &transport):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the error text safe to return to clients.
func PublicMessage(err error) string {
	var transport *SubmissionTransportError
	switch status := HTTPStatus(err); {
	case errors.As(err, &transport):
		return "submission failed, please try again later"
	case status == http.StatusInternalServerError:
		return "internal server error"
	default:
		return err.Error()
	}
}
