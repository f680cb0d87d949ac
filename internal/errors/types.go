package errors

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	// ErrorTypeConfiguration marks a component used with props outside its
	// contract: an unknown variant value, missing children, a missing
	// delegate. These are programming errors and never recoverable.
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeDelegateContract marks a delegate that did not honour the
	// attribute bundle it was given. Only ever reported, never returned from
	// a render.
	ErrorTypeDelegateContract ErrorType = "delegate_contract"
	ErrorTypeValidation       ErrorType = "validation"
	ErrorTypeIO               ErrorType = "io"
	ErrorTypeConfig           ErrorType = "config"
	ErrorTypeInternal         ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeUnknownVariant    = "UNKNOWN_VARIANT"
	ErrCodeAxisMismatch      = "AXIS_MISMATCH"
	ErrCodeMissingChildren   = "MISSING_CHILDREN"
	ErrCodeMissingDelegate   = "MISSING_DELEGATE"
	ErrCodeNodeRefDropped    = "NODE_REF_DROPPED"
	ErrCodeComponentNotFound = "ERR_COMPONENT_NOT_FOUND"
	ErrCodeInvalidProp       = "ERR_INVALID_PROP"
	ErrCodeConfigInvalid     = "ERR_CONFIG_INVALID"
	ErrCodeFileNotFound      = "ERR_FILE_NOT_FOUND"
	ErrCodeInternalError     = "ERR_INTERNAL"
)

// ComponentError is a structured error with component context.
type ComponentError struct {
	Type        ErrorType
	Code        string
	Message     string
	Component   string
	Cause       error
	Context     map[string]interface{}
	Recoverable bool
}

// Error implements the error interface.
func (e *ComponentError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	parts = append(parts, e.Message)

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		parts = append(parts, "("+strings.Join(pairs, " ")+")")
	}

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *ComponentError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a ComponentError with the same type and code.
func (e *ComponentError) Is(target error) bool {
	var t *ComponentError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *ComponentError) WithContext(key string, value interface{}) *ComponentError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *ComponentError) WithComponent(component string) *ComponentError {
	e.Component = component

	return e
}

// NewConfigurationError creates an error for a component used outside its
// prop contract.
func NewConfigurationError(code, message string) *ComponentError {
	return &ComponentError{
		Type:        ErrorTypeConfiguration,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewDelegateContractError creates a delegate contract violation.
func NewDelegateContractError(code, message string) *ComponentError {
	return &ComponentError{
		Type:        ErrorTypeDelegateContract,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *ComponentError {
	return &ComponentError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewConfigError creates an application configuration error.
func NewConfigError(code, message string, cause error) *ComponentError {
	return &ComponentError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *ComponentError {
	return &ComponentError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *ComponentError {
	return &ComponentError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrUnknownVariant reports a value outside an axis's enumerated set.
func ErrUnknownVariant(axis, value string, allowed []string) *ComponentError {
	return NewConfigurationError(
		ErrCodeUnknownVariant,
		fmt.Sprintf("unknown %s %q", axis, value),
	).WithContext("axis", axis).WithContext("allowed", strings.Join(allowed, ","))
}

// ErrMissingChildren reports a component rendered without required children.
func ErrMissingChildren(component string) *ComponentError {
	return NewConfigurationError(ErrCodeMissingChildren, "children are required").
		WithComponent(component)
}

// ErrMissingDelegate reports a component that requires a delegate rendered
// without one.
func ErrMissingDelegate(component string) *ComponentError {
	return NewConfigurationError(ErrCodeMissingDelegate, "as_child delegate is required").
		WithComponent(component)
}

// ErrComponentNotFound creates a component not found error.
func ErrComponentNotFound(name string) *ComponentError {
	return NewValidationError(
		ErrCodeComponentNotFound,
		"component not found: "+name,
	)
}

// Wrap wraps err with a type and code, keeping the component of an existing
// ComponentError.
func Wrap(err error, errType ErrorType, code, message string) *ComponentError {
	if err == nil {
		return nil
	}

	wrapped := &ComponentError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeDelegateContract,
	}

	var ce *ComponentError
	if errors.As(err, &ce) {
		wrapped.Component = ce.Component
	}

	return wrapped
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var ce *ComponentError
	if errors.As(err, &ce) {
		return ce.Recoverable
	}

	return false
}

// HasErrorType reports whether any ComponentError in err's chain has errType.
func HasErrorType(err error, errType ErrorType) bool {
	for err != nil {
		var ce *ComponentError
		if !errors.As(err, &ce) {
			return false
		}
		if ce.Type == errType {
			return true
		}
		err = ce.Cause
	}

	return false
}

// HasErrorCode reports whether any ComponentError in err's chain has code.
func HasErrorCode(err error, code string) bool {
	for err != nil {
		var ce *ComponentError
		if !errors.As(err, &ce) {
			return false
		}
		if ce.Code == code {
			return true
		}
		err = ce.Cause
	}

	return false
}

// IsConfigurationError reports whether err is a configuration error.
func IsConfigurationError(err error) bool {
	return HasErrorType(err, ErrorTypeConfiguration)
}

// IsDelegateContractViolation reports whether err is a delegate contract
// violation.
func IsDelegateContractViolation(err error) bool {
	return HasErrorType(err, ErrorTypeDelegateContract)
}

// IsNotFound reports whether err is a component lookup failure.
func IsNotFound(err error) bool {
	return HasErrorCode(err, ErrCodeComponentNotFound)
}

// ErrorHandler provides centralized error handling.
type ErrorHandler struct {
	logger    Logger
	collector *ErrorCollector
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// NewErrorHandler creates a new error handler. Either argument may be nil.
func NewErrorHandler(logger Logger, collector *ErrorCollector) *ErrorHandler {
	return &ErrorHandler{
		logger:    logger,
		collector: collector,
	}
}

// Handle logs err at a level matching its type and records it with the
// collector.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	if h.collector != nil {
		h.collector.Add(err)
	}

	var ce *ComponentError
	if errors.As(err, &ce) {
		h.handleComponentError(ctx, ce)
	} else {
		h.handleGenericError(ctx, err)
	}
}

func (h *ErrorHandler) handleComponentError(ctx context.Context, err *ComponentError) {
	if h.logger == nil {
		return
	}

	switch err.Type {
	case ErrorTypeDelegateContract:
		h.logger.Warn(ctx, err, "Delegate contract violation",
			"type", err.Type,
			"code", err.Code,
			"component", err.Component)
	case ErrorTypeValidation:
		h.logger.Warn(ctx, err, "Validation error occurred",
			"type", err.Type,
			"code", err.Code,
			"component", err.Component)
	case ErrorTypeConfiguration:
		h.logger.Error(ctx, err, "Component configuration error",
			"type", err.Type,
			"code", err.Code,
			"component", err.Component)
	default:
		h.logger.Error(ctx, err, "Error occurred",
			"type", err.Type,
			"code", err.Code,
			"component", err.Component)
	}
}

func (h *ErrorHandler) handleGenericError(ctx context.Context, err error) {
	if h.logger != nil {
		h.logger.Error(ctx, err, "Unhandled error occurred")
	}
}
