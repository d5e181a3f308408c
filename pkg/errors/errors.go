package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorType is the category of a failure. The REST error handler keys its
// status mapping and client messaging off this value, so callers should
// pick the constructor matching what actually went wrong rather than
// defaulting to internal.
type ErrorType string

const (
	// ErrorTypeValidation indicates invalid input data
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeMissingContent indicates a required artifact could not be
	// resolved from the request or from conversation memory
	ErrorTypeMissingContent ErrorType = "MISSING_CONTENT"

	// ErrorTypeNotFound indicates a requested resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeUnauthorized indicates missing or invalid authentication
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeForbidden indicates insufficient permissions
	ErrorTypeForbidden ErrorType = "FORBIDDEN"

	// ErrorTypeInternal indicates an internal system error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeTimeout indicates an operation timed out
	ErrorTypeTimeout ErrorType = "TIMEOUT"

	// ErrorTypeRateLimit indicates rate limit exceeded
	ErrorTypeRateLimit ErrorType = "RATE_LIMIT"

	// ErrorTypeUnavailable indicates a service is unavailable
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"

	// ErrorTypeNetwork indicates a network-level failure
	ErrorTypeNetwork ErrorType = "NETWORK"

	// ErrorTypeUpstream indicates a hosted model or other upstream
	// service failed or returned an unusable response
	ErrorTypeUpstream ErrorType = "UPSTREAM"
)

// statusOf holds the HTTP status each category maps to. Types absent from
// the table fall back to 500.
var statusOf = map[ErrorType]int{
	ErrorTypeValidation:     http.StatusBadRequest,
	ErrorTypeMissingContent: http.StatusBadRequest,
	ErrorTypeNotFound:       http.StatusNotFound,
	ErrorTypeConflict:       http.StatusConflict,
	ErrorTypeUnauthorized:   http.StatusUnauthorized,
	ErrorTypeForbidden:      http.StatusForbidden,
	ErrorTypeInternal:       http.StatusInternalServerError,
	ErrorTypeTimeout:        http.StatusRequestTimeout,
	ErrorTypeRateLimit:      http.StatusTooManyRequests,
	ErrorTypeUnavailable:    http.StatusServiceUnavailable,
	ErrorTypeNetwork:        http.StatusBadGateway,
	ErrorTypeUpstream:       http.StatusBadGateway,
}

// AppError represents an application error with context
type AppError struct {
	Type       ErrorType
	Message    string
	Code       string
	Details    map[string]interface{}
	Cause      error
	StackTrace string
	HTTPStatus int
}

// newAppError builds an AppError of the given category with its mapped
// status and a stack trace rooted at the exported constructor's caller.
func newAppError(t ErrorType, message string) *AppError {
	status, ok := statusOf[t]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &AppError{
		Type:       t,
		Message:    message,
		StackTrace: captureStackTrace(4),
		HTTPStatus: status,
	}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithCause adds an underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// captureStackTrace renders the trace starting skip frames up, dropping
// runtime internals so the first line is application code.
func captureStackTrace(skip int) string {
	var pcs [32]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var sb strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return newAppError(ErrorTypeValidation, message)
}

// NewMissingContentError creates an error for an artifact that could not
// be resolved from the request body or from conversation memory. The
// artifact name is preserved in the details so callers can tell which
// kind of content was required.
func NewMissingContentError(artifact, message string) *AppError {
	return newAppError(ErrorTypeMissingContent, message).WithDetails("artifact", artifact)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return newAppError(ErrorTypeNotFound, resource+" not found")
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return newAppError(ErrorTypeConflict, message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "unauthorized"
	}
	return newAppError(ErrorTypeUnauthorized, message)
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *AppError {
	return newAppError(ErrorTypeForbidden, message)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return newAppError(ErrorTypeInternal, message)
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(operation string) *AppError {
	return newAppError(ErrorTypeTimeout, fmt.Sprintf("operation '%s' timed out", operation))
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(limit int, window string) *AppError {
	return newAppError(ErrorTypeRateLimit, fmt.Sprintf("rate limit exceeded: %d requests per %s", limit, window))
}

// NewUnavailableError creates a service unavailable error
func NewUnavailableError(service string) *AppError {
	return newAppError(ErrorTypeUnavailable, fmt.Sprintf("service '%s' is unavailable", service))
}

// NewNetworkError creates a network error
func NewNetworkError(message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, message).WithCause(cause)
}

// NewUpstreamError creates an error for a failed call to a hosted model
// provider or other upstream service
func NewUpstreamError(service string, cause error) *AppError {
	return newAppError(ErrorTypeUpstream, fmt.Sprintf("upstream service '%s' error", service)).WithCause(cause)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsMissingContent checks if an error indicates unresolvable content
func IsMissingContent(err error) bool {
	return IsType(err, ErrorTypeMissingContent)
}

// IsUnauthorized checks if an error is an unauthorized error
func IsUnauthorized(err error) bool {
	return IsType(err, ErrorTypeUnauthorized)
}

// IsForbidden checks if an error is a forbidden error
func IsForbidden(err error) bool {
	return IsType(err, ErrorTypeForbidden)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return IsType(err, ErrorTypeConflict)
}

// IsUpstream checks if an error came from an upstream service
func IsUpstream(err error) bool {
	return IsType(err, ErrorTypeUpstream)
}

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool {
	return IsType(err, ErrorTypeInternal)
}

// Wrap prefixes an AppError's message in place, or promotes a plain error
// to an internal AppError with the message as context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = message + ": " + appErr.Message
		return appErr
	}

	wrapped := newAppError(ErrorTypeInternal, message)
	wrapped.Cause = err
	return wrapped
}

// Wrapf wraps an error with a formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
