package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors. Message is the client-visible
// text; Err carries internal detail for logs only.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

// NewMissingCredential signals an absent login password.
func NewMissingCredential() error {
	return NewDomainError("MISSING_CREDENTIAL", "Password is required", http.StatusBadRequest)
}

// NewInvalidCredential signals a password mismatch.
func NewInvalidCredential() error {
	return NewDomainError("INVALID_CREDENTIAL", "Invalid password", http.StatusUnauthorized)
}

// NewUnauthorized rejects requests lacking a valid admin cookie.
func NewUnauthorized() error {
	return NewDomainError("UNAUTHORIZED", "Unauthorized", http.StatusUnauthorized)
}

// NewValidationError rejects malformed request payloads.
func NewValidationError(message string) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest)
}

// NewUpsertFault wraps a failed directory insert. The store fault stays
// reachable through Unwrap; clients only ever see a generic message.
func NewUpsertFault(err error) error {
	return &DomainError{
		Code:       "UPSERT_FAILED",
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewDeleteFault wraps a failed directory delete.
func NewDeleteFault(err error) error {
	return &DomainError{
		Code:       "DELETE_FAILED",
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewInternalError is the catch-all for unexpected boundary faults.
func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
