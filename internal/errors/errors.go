package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthenticated is returned when no valid identity is present.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden is returned when the identity is valid but is not allowed
	// to perform the requested operation.
	ErrForbidden = errors.New("operation not allowed for this account")
	// ErrRoleMissing is returned when an authenticated identity carries no
	// recognized role. This is a data-integrity fault, not a user path.
	ErrRoleMissing = errors.New("account has no recognized role")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrProviderNotFound is returned when a provider profile is not found.
	ErrProviderNotFound = errors.New("provider not found")
	// ErrBookingNotFound is returned when a booking is not found.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrDuplicateName is returned when a category name already exists.
	ErrDuplicateName = errors.New("category name already exists")
	// ErrNotCompleted is returned when reviewing a booking that is not completed.
	ErrNotCompleted = errors.New("booking is not completed")
	// ErrAlreadyReviewed is returned when a booking already has a review.
	ErrAlreadyReviewed = errors.New("booking already reviewed")
	// ErrInvalidRating is returned when a rating is outside the allowed range.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// TransitionError reports a booking state machine violation, identifying the
// attempted (from-state, action) pair. It also covers the lost-race case
// where a concurrent writer changed the status first.
type TransitionError struct {
	From   string
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a booking in status %q", e.Action, e.From)
}

// NewTransitionError creates a TransitionError for the given pair.
func NewTransitionError(from, action string) *TransitionError {
	return &TransitionError{From: from, Action: action}
}

// ValidationError reports a creation-time field validation failure, naming
// the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Field      string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
		Field: e.Field,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var transitionErr *TransitionError
	if errors.As(err, &transitionErr) {
		return NewHTTPError(http.StatusConflict, transitionErr.Error(), "INVALID_TRANSITION")
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		httpErr := NewHTTPError(http.StatusBadRequest, validationErr.Error(), "INVALID_BOOKING")
		httpErr.Field = validationErr.Field
		return httpErr
	}

	switch err {
	case ErrUnauthenticated:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case ErrForbidden:
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case ErrUserNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case ErrProviderNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROVIDER_NOT_FOUND")
	case ErrBookingNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "BOOKING_NOT_FOUND")
	case ErrCategoryNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "CATEGORY_NOT_FOUND")
	case ErrDuplicateName:
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_NAME")
	case ErrNotCompleted:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NOT_COMPLETED")
	case ErrAlreadyReviewed:
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_REVIEWED")
	case ErrInvalidRating:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_RATING")
	case ErrRoleMissing:
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "ROLE_MISSING")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
