package common

import (
	"errors"
	"net/http"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail"`
}

// CustomError carries an error code and the HTTP status it maps to.
type CustomError struct {
	Code    string
	Message string
	Err     error
	Status  int
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError creates a CustomError.
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// ValidationError marks malformed or out-of-range client input.
type ValidationError struct {
	Field   string
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError creates a validation error for a specific input field.
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		message: message,
	}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Error codes.
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"     // 400
	ErrCodeRequestTimeout     = "REQUEST_TIMEOUT"     // 408
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"   // 429
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504

	// Pipeline failure codes.
	ErrCodeUpstreamGeneration = "UPSTREAM_GENERATION_ERROR" // 502
	ErrCodeSchemaValidation   = "SCHEMA_VALIDATION_ERROR"   // 500
	ErrCodeEmptyResult        = "EMPTY_RESULT"              // 500
)

// NewUpstreamGenerationError wraps a failure to reach the generative backend
// or a non-success status from it.
func NewUpstreamGenerationError(err error) *CustomError {
	return NewError(ErrCodeUpstreamGeneration, "generative backend request failed", http.StatusBadGateway, err)
}

// NewSchemaValidationError wraps backend output that does not parse into the
// expected JSON shape.
func NewSchemaValidationError(err error) *CustomError {
	return NewError(ErrCodeSchemaValidation, "generative backend returned malformed output", http.StatusInternalServerError, err)
}

// IsUpstreamGenerationError reports whether err originated from the backend call.
func IsUpstreamGenerationError(err error) bool {
	var ce *CustomError
	return errors.As(err, &ce) && ce.Code == ErrCodeUpstreamGeneration
}

// IsSchemaValidationError reports whether err is a backend output shape error.
func IsSchemaValidationError(err error) bool {
	var ce *CustomError
	return errors.As(err, &ce) && ce.Code == ErrCodeSchemaValidation
}

// Predefined errors.
var (
	ErrInvalidRequest     = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrRequestTimeout     = NewError(ErrCodeRequestTimeout, "request timeout", http.StatusRequestTimeout, nil)
	ErrTooManyRequests    = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)
	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service temporarily unavailable", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "gateway timeout", http.StatusGatewayTimeout, nil)

	// ErrEmptyResult is returned when the pipeline completes but produces no recipes.
	ErrEmptyResult = NewError(ErrCodeEmptyResult, "no recipes generated, try different preferences", http.StatusInternalServerError, nil)

	ErrCacheDisabled = NewError("CACHE_DISABLED", "cache is disabled", http.StatusServiceUnavailable, nil)
	ErrCacheFull     = NewError("CACHE_FULL", "cache is full", http.StatusServiceUnavailable, nil)
)
