package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
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
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewTermsRequired(message string) error {
	return NewDomainError("TERMS_REQUIRED", message, http.StatusBadRequest, nil)
}

func NewBotVerificationFailed(message string) error {
	return NewDomainError("BOT_VERIFICATION_FAILED", message, http.StatusBadRequest, nil)
}

func NewMethodNotAllowed() error {
	return NewDomainError("METHOD_NOT_ALLOWED", "Method not allowed", http.StatusMethodNotAllowed, nil)
}

func NewRateLimited() error {
	return NewDomainError("RATE_LIMITED", "Too many requests, please try again later", http.StatusTooManyRequests, nil)
}

// NewMisconfigured flags absent credentials for a sink the request requires.
// The public message stays generic; the sink name is kept for server-side logs.
func NewMisconfigured(sink string) error {
	return &DomainError{
		Code:       "SERVER_MISCONFIGURED",
		Message:    "Server configuration error",
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"sink": sink},
	}
}

// NewSinkFailure wraps a mandatory sink error with a caller-safe message.
func NewSinkFailure(message string, err error) error {
	return &DomainError{
		Code:       "SINK_FAILURE",
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "An error occurred processing your request",
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
		Message:    "An error occurred processing your request",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
