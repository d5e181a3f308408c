package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse is the JSON envelope every error leaves the API in
type ErrorResponse struct {
	Error     bool                   `json:"error"`
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	TraceID   string                 `json:"trace_id,omitempty"`
}

// errorTypeForStatus maps bare HTTP statuses onto envelope types for
// responses that do not originate from a typed error value.
var errorTypeForStatus = map[int]ErrorType{
	http.StatusBadRequest:         ErrorTypeValidation,
	http.StatusUnauthorized:       ErrorTypeUnauthorized,
	http.StatusForbidden:          ErrorTypeForbidden,
	http.StatusNotFound:           ErrorTypeNotFound,
	http.StatusConflict:           ErrorTypeConflict,
	http.StatusRequestTimeout:     ErrorTypeTimeout,
	http.StatusTooManyRequests:    ErrorTypeRateLimit,
	http.StatusServiceUnavailable: ErrorTypeUnavailable,
	http.StatusBadGateway:         ErrorTypeUpstream,
}

// ErrorHandler translates errors into HTTP responses with a stable JSON
// shape. Plain errors are masked so internal detail never reaches clients;
// debug mode exposes messages and stack traces for local diagnosis.
type ErrorHandler struct {
	logger        *zap.Logger
	debug         bool
	defaultStatus int
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger:        logger,
		debug:         debug,
		defaultStatus: http.StatusInternalServerError,
	}
}

// Handle writes the response for err, choosing the mapping by error kind.
// A nil error writes nothing.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	var status int
	var response ErrorResponse

	var domErr *DomainError
	if appErr := GetAppError(err); appErr != nil {
		status, response = h.appResponse(r, appErr)
	} else if errors.As(err, &domErr) {
		status, response = h.domainResponse(r, domErr)
	} else {
		status, response = h.genericResponse(r, err)
	}

	h.sendJSON(w, status, response)
}

// appResponse maps an AppError onto its carried status and fields
func (h *ErrorHandler) appResponse(r *http.Request, appErr *AppError) (int, ErrorResponse) {
	status := appErr.HTTPStatus
	if status == 0 {
		status = h.defaultStatus
	}

	response := ErrorResponse{
		Error:     true,
		Type:      string(appErr.Type),
		Message:   appErr.Message,
		Code:      appErr.Code,
		Details:   appErr.Details,
		RequestID: r.Header.Get("X-Request-ID"),
		TraceID:   r.Header.Get("X-Trace-ID"),
	}

	if h.debug && appErr.StackTrace != "" {
		if response.Details == nil {
			response.Details = make(map[string]interface{})
		}
		response.Details["stack_trace"] = appErr.StackTrace
	}

	h.logError(r, appErr, status)
	return status, response
}

// domainResponse maps a DomainError onto its status code, carrying the
// machine-readable code through to the client
func (h *ErrorHandler) domainResponse(r *http.Request, domErr *DomainError) (int, ErrorResponse) {
	status := domErr.StatusCode
	if status == 0 {
		status = h.defaultStatus
	}

	h.logger.Warn("Domain error",
		zap.String("error_type", string(domErr.Type)),
		zap.String("error_code", domErr.Code),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", r.Header.Get("X-Request-ID")),
	)

	return status, ErrorResponse{
		Error:     true,
		Type:      string(domErr.Type),
		Message:   domErr.Message,
		Code:      domErr.Code,
		Details:   domErr.Details,
		RequestID: r.Header.Get("X-Request-ID"),
		TraceID:   r.Header.Get("X-Trace-ID"),
	}
}

// genericResponse masks an untyped error as a 500. The real message is
// logged but only surfaced to the client in debug mode.
func (h *ErrorHandler) genericResponse(r *http.Request, err error) (int, ErrorResponse) {
	h.logger.Error("Unhandled error",
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", r.Header.Get("X-Request-ID")),
		zap.String("trace_id", r.Header.Get("X-Trace-ID")),
		zap.Int("status", h.defaultStatus),
	)

	message := "An internal error occurred"
	if h.debug {
		message = err.Error()
	}

	return h.defaultStatus, ErrorResponse{
		Error:     true,
		Type:      string(ErrorTypeInternal),
		Message:   message,
		RequestID: r.Header.Get("X-Request-ID"),
		TraceID:   r.Header.Get("X-Trace-ID"),
	}
}

// HandleStatus sends an error response for a bare status code, deriving
// the envelope type from the status
func (h *ErrorHandler) HandleStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	errType, ok := errorTypeForStatus[status]
	if !ok {
		errType = ErrorTypeInternal
	}

	h.logger.Warn("HTTP error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("message", message),
	)

	h.sendJSON(w, status, ErrorResponse{
		Error:     true,
		Type:      string(errType),
		Message:   message,
		RequestID: r.Header.Get("X-Request-ID"),
		TraceID:   r.Header.Get("X-Trace-ID"),
	})
}

// logError logs an AppError at a level following the response status
func (h *ErrorHandler) logError(r *http.Request, err *AppError, status int) {
	fields := []zap.Field{
		zap.String("error_type", string(err.Type)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", r.Header.Get("X-Request-ID")),
		zap.String("trace_id", r.Header.Get("X-Trace-ID")),
	}
	if err.Code != "" {
		fields = append(fields, zap.String("error_code", err.Code))
	}
	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}
	if err.Details != nil {
		fields = append(fields, zap.Any("details", err.Details))
	}

	switch {
	case status >= 500:
		h.logger.Error(err.Message, fields...)
	case status >= 400:
		h.logger.Warn(err.Message, fields...)
	default:
		h.logger.Info(err.Message, fields...)
	}
}

// sendJSON writes the envelope. An encode failure at this point can only
// be logged; the status line has already gone out.
func (h *ErrorHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode error response",
			zap.Error(err),
			zap.Any("data", data),
		)
	}
}

// Middleware converts panics anywhere below into masked 500 responses
func (h *ErrorHandler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.Handle(w, r, NewInternalError(fmt.Sprintf("panic: %v", rec)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
