package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/chronoplan/internal/domain"
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

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewConfigurationError reports a feature that cannot run with the current configuration.
func NewConfigurationError(err error) error {
	return &DomainError{
		Code:       "CONFIGURATION_ERROR",
		Message:    "schedule generation is not configured",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewGenerationFailed wraps a failed or malformed model call.
func NewGenerationFailed(err error) error {
	return &DomainError{
		Code:       "GENERATION_FAILED",
		Message:    "schedule generation failed",
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewGenerationInProgress(sessionID string) error {
	return NewDomainError("GENERATION_IN_PROGRESS", "a generation request is already pending for this session",
		http.StatusConflict, map[string]any{"session_id": sessionID})
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
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

	var mapped error
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrGenerationFailed), errors.Is(err, domain.ErrMalformedResponse):
		mapped = NewGenerationFailed(err)
	case errors.As(err, &verr):
		mapped = &DomainError{
			Code:       "VALIDATION_FAILED",
			Message:    verr.Error(),
			HTTPStatus: http.StatusBadRequest,
			Details:    verr.DetailsMap(),
			Err:        err,
		}
	case errors.Is(err, domain.ErrEmptyPrompt), errors.Is(err, domain.ErrInvalidEvent):
		mapped = NewValidationError(err.Error(), nil)
	case errors.Is(err, domain.ErrUserNotFound):
		mapped = NewNotFound("user", nil)
	case errors.Is(err, domain.ErrMissingCredential):
		mapped = NewConfigurationError(err)
	case errors.Is(err, domain.ErrGenerationInProgress):
		mapped = NewDomainError("GENERATION_IN_PROGRESS", "a generation request is already pending for this session",
			http.StatusConflict, nil)
	default:
		mapped = NewInternalError(err)
	}
	if de, ok := mapped.(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
