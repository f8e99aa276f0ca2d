package apierrors

import (
	"fmt"
	"net/http"
)

// APIError is a structured error surfaced to API callers. Status is
// the HTTP status code, Kind a stable machine-readable identifier and
// Message a human-readable description. Details carries per-rule
// validation messages when present. Secrets and hashes must never end
// up in any of these fields.
type APIError struct {
	Status  int      `json:"-"`
	Kind    string   `json:"kind"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewErrWeakPassword(details []string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Kind:    "weak_password",
		Message: "password does not meet strength requirements",
		Details: details,
	}
}

func NewErrValidation(message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Kind:    "validation_error",
		Message: message,
	}
}

func NewErrEmailTaken(email string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Kind:    "email_taken",
		Message: fmt.Sprintf("email %s is already registered", email),
	}
}

func NewErrInvalidCredentials() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Kind:    "invalid_credentials",
		Message: "invalid email or password",
	}
}

func NewErrAccountDeactivated() *APIError {
	return &APIError{
		Status:  http.StatusForbidden,
		Kind:    "account_deactivated",
		Message: "account is deactivated",
	}
}

func NewErrMissingToken() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Kind:    "missing_token",
		Message: "access token required",
	}
}

func NewErrInvalidToken() *APIError {
	return &APIError{
		Status:  http.StatusForbidden,
		Kind:    "invalid_token",
		Message: "invalid or expired token",
	}
}

func NewErrRevokedToken() *APIError {
	return &APIError{
		Status:  http.StatusForbidden,
		Kind:    "revoked_token",
		Message: "token has been revoked",
	}
}

func NewErrRateLimited() *APIError {
	return &APIError{
		Status:  http.StatusTooManyRequests,
		Kind:    "rate_limited",
		Message: "too many requests",
	}
}

func NewErrDependencyUnavailable() *APIError {
	return &APIError{
		Status:  http.StatusServiceUnavailable,
		Kind:    "dependency_unavailable",
		Message: "a backing service is unavailable, retry later",
	}
}

func NewErrInternal() *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Kind:    "internal_error",
		Message: "internal server error",
	}
}
