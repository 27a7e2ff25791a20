// Package errors provides standardized error handling for the activity registry API.
package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeActivityNotFound ErrorCode = "ACTIVITY_NOT_FOUND"
	ErrCodeAlreadyEnrolled  ErrorCode = "ALREADY_ENROLLED"
	ErrCodeCapacityExceeded ErrorCode = "CAPACITY_EXCEEDED"
	ErrCodeNotEnrolled      ErrorCode = "NOT_ENROLLED"

	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeInvalidCatalog ErrorCode = "INVALID_CATALOG"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches any *StandardError carrying the same code, so callers can use
// errors.Is(err, ErrActivityNotFound).
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrActivityNotFound = &StandardError{Code: ErrCodeActivityNotFound}
	ErrAlreadyEnrolled  = &StandardError{Code: ErrCodeAlreadyEnrolled}
	ErrCapacityExceeded = &StandardError{Code: ErrCodeCapacityExceeded}
	ErrNotEnrolled      = &StandardError{Code: ErrCodeNotEnrolled}
	ErrInvalidRequest   = &StandardError{Code: ErrCodeInvalidRequest}
	ErrInvalidCatalog   = &StandardError{Code: ErrCodeInvalidCatalog}
)

// ==========================
// 2. Error Constructors
// ==========================

// NewActivityNotFoundError reports a name absent from the registry.
func NewActivityNotFoundError(activityName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeActivityNotFound,
		Message:   "Activity not found",
		Details:   fmt.Sprintf("activity: %s", activityName),
		Retryable: false,
		Metadata:  map[string]interface{}{"activity": activityName},
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadyEnrolledError reports a duplicate signup.
func NewAlreadyEnrolledError(activityName, email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadyEnrolled,
		Message:   "Student is already signed up for this activity",
		Details:   fmt.Sprintf("activity: %s, email: %s", activityName, email),
		Retryable: false,
		Metadata:  map[string]interface{}{"activity": activityName, "email": email},
		Timestamp: time.Now().UTC(),
	}
}

// NewCapacityExceededError reports a full roster.
func NewCapacityExceededError(activityName string, maxParticipants int) *StandardError {
	return &StandardError{
		Code:      ErrCodeCapacityExceeded,
		Message:   "Activity is at max capacity",
		Details:   fmt.Sprintf("activity: %s, max_participants: %d", activityName, maxParticipants),
		Retryable: false,
		Metadata:  map[string]interface{}{"activity": activityName, "maxParticipants": maxParticipants},
		Timestamp: time.Now().UTC(),
	}
}

// NewNotEnrolledError reports an unregister for an email missing from the roster.
func NewNotEnrolledError(activityName, email string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotEnrolled,
		Message:   "Student is not registered for this activity",
		Details:   fmt.Sprintf("activity: %s, email: %s", activityName, email),
		Retryable: false,
		Metadata:  map[string]interface{}{"activity": activityName, "email": email},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError reports a request that failed validation.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCatalogError reports seed data that breaks a registry invariant.
func NewInvalidCatalogError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCatalog,
		Message:   "Activity catalog is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatusMapping maps error codes to response status codes.
var HTTPStatusMapping = map[ErrorCode]int{
	ErrCodeActivityNotFound: http.StatusNotFound,
	ErrCodeAlreadyEnrolled:  http.StatusBadRequest,
	ErrCodeCapacityExceeded: http.StatusBadRequest,
	ErrCodeNotEnrolled:      http.StatusBadRequest,
	ErrCodeInvalidRequest:   http.StatusBadRequest,
	ErrCodeInvalidCatalog:   http.StatusInternalServerError,
	ErrCodeInternal:         http.StatusInternalServerError,
}

// HTTPStatus returns the response status for a code, 500 when unmapped.
func HTTPStatus(code ErrorCode) int {
	if status, ok := HTTPStatusMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// ToResponse converts a StandardError into its wire form.
func ToResponse(stdErr *StandardError) ErrorResponse {
	return ErrorResponse{
		Detail: stdErr.Message,
		Code:   string(stdErr.Code),
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// IsClientError reports whether the code is caller-correctable.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatus(code)
	return status >= 400 && status < 500
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ACTIVITY"):
		return "LOOKUP"
	case strings.Contains(codeStr, "ENROLLED") || strings.Contains(codeStr, "CAPACITY"):
		return "ENROLLMENT"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
