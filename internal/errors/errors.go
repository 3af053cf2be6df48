package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	// ErrorTypeValidation marks bad or missing input fields. These are
	// user-correctable and surfaced verbatim so the front end can re-prompt.
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeStorage marks an unavailable or failing persistence layer.
	// Callers retry with backoff; the error propagates unmodified.
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeNotFound marks a missing record. An empty query result is
	// not an error and never produces this type.
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeRender marks an unexpected chart or document renderer fault.
	// Fatal for the single report being generated, stored data untouched.
	ErrorTypeRender ErrorType = "render"
	// ErrorTypeInternal marks everything else.
	ErrorTypeInternal ErrorType = "internal"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Field returns the offending input field for validation errors, if recorded.
func (e *AppError) Field() string {
	if f, ok := e.Context["field"].(string); ok {
		return f
	}
	return ""
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	source := fmt.Sprintf("%s:%d", file, line)

	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  source,
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)
	source := fmt.Sprintf("%s:%d", file, line)

	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   source,
		Context:  make(map[string]interface{}),
	}
}

// TypeOf returns the AppError type of err, or ErrorTypeInternal for
// errors that were not created by this package.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// AsAppError extracts the AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// IsValidation reports whether err is a user-correctable input error.
func IsValidation(err error) bool {
	return TypeOf(err) == ErrorTypeValidation
}

// IsStorage reports whether err is a persistence-layer failure.
func IsStorage(err error) bool {
	return TypeOf(err) == ErrorTypeStorage
}

// IsNotFound reports whether err marks a missing record.
func IsNotFound(err error) bool {
	return TypeOf(err) == ErrorTypeNotFound
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle processes an error according to its type
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	if appErr, ok := AsAppError(err); ok {
		h.handleAppError(ctx, appErr)
		return
	}
	h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
}

func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	switch err.Type {
	case ErrorTypeValidation, ErrorTypeNotFound:
		h.logger.WarnContext(ctx, "Rejected input", err.LogFields()...)
	case ErrorTypeStorage, ErrorTypeRender, ErrorTypeInternal:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

// Convenience constructors for the common cases.

// NewValidationError creates a validation error for a single input field.
func NewValidationError(field, message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message).WithContext("field", field)
}

// NewStorageError wraps a persistence-layer failure.
func NewStorageError(err error) *AppError {
	return Wrap(err, ErrorTypeStorage, "STORAGE_UNAVAILABLE", "Storage operation failed")
}

// NewNotFoundError creates a missing-record error.
func NewNotFoundError(message string) *AppError {
	return New(ErrorTypeNotFound, "NOT_FOUND", message)
}

// NewRenderError wraps a chart or document renderer fault.
func NewRenderError(err error, stage string) *AppError {
	return Wrap(err, ErrorTypeRender, "RENDER", fmt.Sprintf("%s rendering failed", stage)).
		WithContext("stage", stage)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *AppError {
	return Wrap(err, ErrorTypeInternal, "INTERNAL", "Internal error")
}
