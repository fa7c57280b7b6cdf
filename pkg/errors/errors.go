package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain error types for business logic

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// Pricing-specific errors

var (
	// ErrNoModelsLoaded indicates no price model tier could be loaded
	ErrNoModelsLoaded = errors.New("no price models are loaded")

	// ErrModelNotFound indicates the classified product type has no registered model
	ErrModelNotFound = errors.New("no model available for product type")

	// ErrPredictionFailed indicates the model pipeline failed at inference time
	ErrPredictionFailed = errors.New("prediction failed")

	// ErrFeatureContract indicates a feature record does not match the
	// feature names the registered model was trained with
	ErrFeatureContract = errors.New("feature record violates model contract")

	// ErrArtifactCorrupt indicates a model artifact could not be deserialized
	ErrArtifactCorrupt = errors.New("model artifact is corrupt")
)

// Recommendation-specific errors

var (
	// ErrRecsUnavailable indicates the recommendation index is not loaded
	ErrRecsUnavailable = errors.New("recommendation system is not available")

	// ErrEmbeddingFailed indicates the embedding provider call failed
	ErrEmbeddingFailed = errors.New("embedding generation failed")
)

// DomainError wraps an error with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// FieldError describes a single invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e FieldError) Error() string {
	return fmt.Sprintf("field '%s': %s", e.Field, e.Message)
}

// ValidationErrors collects every violation found in a request so callers
// see the full list, not just the first failure
type ValidationErrors struct {
	Violations []FieldError
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	if len(v.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(v.Violations))
	for i, f := range v.Violations {
		parts[i] = f.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a violation
func (v *ValidationErrors) Add(field, message string) {
	v.Violations = append(v.Violations, FieldError{Field: field, Message: message})
}

// HasErrors returns true if any violations were recorded
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Violations) > 0
}

// ToError returns the collected violations as an error, or nil if none
func (v *ValidationErrors) ToError() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
