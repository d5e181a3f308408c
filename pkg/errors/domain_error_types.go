package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// DomainErrorType is the category a domain error belongs to. The category
// decides the HTTP status; the per-error code stays stable for clients.
type DomainErrorType string

const (
	DomainValidationError     DomainErrorType = "VALIDATION_ERROR"
	DomainBusinessRuleError   DomainErrorType = "BUSINESS_RULE_ERROR"
	DomainNotFoundError       DomainErrorType = "NOT_FOUND"
	DomainConflictError       DomainErrorType = "CONFLICT"
	DomainInfrastructureError DomainErrorType = "INFRASTRUCTURE_ERROR"
	DomainAuthorizationError  DomainErrorType = "AUTHORIZATION_ERROR"
	DomainAuthenticationError DomainErrorType = "AUTHENTICATION_ERROR"
	DomainRateLimitError      DomainErrorType = "RATE_LIMIT_ERROR"
	DomainTimeoutError        DomainErrorType = "TIMEOUT_ERROR"
)

// domainStatusOf maps each domain category to its HTTP status. Categories
// not listed fall back to 500.
var domainStatusOf = map[DomainErrorType]int{
	DomainValidationError:     http.StatusBadRequest,
	DomainBusinessRuleError:   http.StatusUnprocessableEntity,
	DomainNotFoundError:       http.StatusNotFound,
	DomainConflictError:       http.StatusConflict,
	DomainAuthenticationError: http.StatusUnauthorized,
	DomainAuthorizationError:  http.StatusForbidden,
	DomainRateLimitError:      http.StatusTooManyRequests,
	DomainTimeoutError:        http.StatusGatewayTimeout,
	DomainInfrastructureError: http.StatusInternalServerError,
}

// DomainError carries a machine-readable code alongside the category so
// clients and tests can match on stable identifiers instead of message
// text. Two DomainErrors are errors.Is-equal when type and code match.
type DomainError struct {
	Type       DomainErrorType        `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"status_code"`
}

// NewDomainError builds an error in the given category with a stable code
func NewDomainError(errorType DomainErrorType, code string, message string) *DomainError {
	status, ok := domainStatusOf[errorType]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &DomainError{
		Type:       errorType,
		Code:       code,
		Message:    message,
		StatusCode: status,
	}
}

func (e *DomainError) Error() string {
	msg := fmt.Sprintf("%s [%s]: %s", e.Type, e.Code, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// WithCause attaches the underlying failure for Unwrap chains
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail records a structured detail for the response body
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithRetryable marks whether a client may retry the failed request
func (e *DomainError) WithRetryable(retryable bool) *DomainError {
	e.Retryable = retryable
	return e
}

// Is matches on type and code, so catalog entries below work as
// errors.Is targets for errors raised with instance-specific messages
func (e *DomainError) Is(target error) bool {
	other, ok := target.(*DomainError)
	return ok && e.Type == other.Type && e.Code == other.Code
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

func validation(code, message string) *DomainError {
	return NewDomainError(DomainValidationError, code, message)
}

func notFound(code, message string) *DomainError {
	return NewDomainError(DomainNotFoundError, code, message)
}

// Catalog of the errors the generation domain raises. Messages here are
// client-facing defaults; raisers may substitute specifics while keeping
// the code.
var (
	// Requirement, document and modification input rules
	ErrRequirementEmpty     = validation("REQUIREMENT_EMPTY", "Requirement cannot be empty")
	ErrRequirementTooShort  = validation("REQUIREMENT_TOO_SHORT", "Requirement is too short. Please provide more details.").WithDetail("min_length", 10)
	ErrRequirementTooLong   = validation("REQUIREMENT_TOO_LONG", "Requirement is too long. Please keep it under 5000 characters.").WithDetail("max_length", 5000)
	ErrDocumentTooShort     = validation("DOCUMENT_TOO_SHORT", "Document is too short or empty. Please provide more content.").WithDetail("min_length", 10)
	ErrDocumentTooLong      = validation("DOCUMENT_TOO_LONG", "Document is too long. Please keep it under 10000 characters.").WithDetail("max_length", 10000)
	ErrModificationEmpty    = validation("MODIFICATION_EMPTY", "Modification prompt cannot be empty")
	ErrModificationTooShort = validation("MODIFICATION_TOO_SHORT", "Modification prompt is too short. Please be more specific.").WithDetail("min_length", 5)
	ErrLanguageRequired     = validation("LANGUAGE_REQUIRED", "Programming language is required for code generation.")
	ErrDiagramTypeRequired  = validation("DIAGRAM_TYPE_REQUIRED", "Diagram type is required")

	// Chain resolution
	ErrUnknownChain         = notFound("UNKNOWN_CHAIN", "The requested chain is not registered")
	ErrMissingChainVariable = validation("MISSING_CHAIN_VARIABLE", "A required template variable was not supplied")

	// Project pipeline and registry
	ErrProjectNotFound     = notFound("PROJECT_NOT_FOUND", "The requested project does not exist")
	ErrEmptyTechnologyList = validation("EMPTY_TECHNOLOGY_LIST", "No technologies could be detected from the requirement")
	ErrNoProjectFiles      = validation("NO_PROJECT_FILES", "The generated project contains no files")
	ErrDuplicateFilePath   = validation("DUPLICATE_FILE_PATH", "The generated project declares the same file path twice")
	ErrPathConflict        = validation("PATH_CONFLICT", "A file path collides with a directory path in the generated project")

	// Throttling and infrastructure
	ErrRateLimitExceeded     = NewDomainError(DomainRateLimitError, "RATE_LIMIT_EXCEEDED", "Too many requests, please try again later").WithRetryable(true)
	ErrProviderNotConfigured = NewDomainError(DomainInfrastructureError, "PROVIDER_NOT_CONFIGURED", "No hosted model provider is configured")
)

// ValidationErrors collects field-level failures so a request can report
// every invalid field in one response
type ValidationErrors struct {
	Errors []*DomainError `json:"errors"`
}

// NewValidationErrors creates a new validation errors collection
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Errors: make([]*DomainError, 0)}
}

// Add records a failure against a field
func (v *ValidationErrors) Add(field string, message string) {
	v.Errors = append(v.Errors, validation("FIELD_VALIDATION_ERROR", message).WithDetail("field", field))
}

// AddError adds a pre-existing domain error
func (v *ValidationErrors) AddError(err *DomainError) {
	v.Errors = append(v.Errors, err)
}

// HasErrors returns true if there are validation errors
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}

	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Message
	}
	return "Validation failed: " + strings.Join(messages, "; ")
}

// ToMap groups messages by field for JSON serialization. Errors without
// a field detail land under "general".
func (v *ValidationErrors) ToMap() map[string][]string {
	result := make(map[string][]string)
	for _, err := range v.Errors {
		field, ok := err.Details["field"].(string)
		if !ok {
			field = "general"
		}
		result[field] = append(result[field], err.Message)
	}
	return result
}
