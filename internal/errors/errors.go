package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Param   string // offending parameter name, when the error is about one
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Param:   appErr.Param,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Param:   appErr.Param,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeDatabaseError     = "DATABASE_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeInvalidParameter  = "INVALID_PARAMETER"
	CodeNumericDegeneracy = "NUMERIC_DEGENERACY"
	CodeUserExpression    = "USER_EXPRESSION_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

// InvalidParameter reports an input outside its documented domain. The
// message always names the parameter and the violated bound so callers can
// display it without reconstruction. Never retried, no partial result.
func InvalidParameter(param, requirement string) *AppError {
	return &AppError{
		Code:    CodeInvalidParameter,
		Message: fmt.Sprintf("parameter %s: %s", param, requirement),
		Param:   param,
	}
}

// InvalidParameterf is InvalidParameter with a formatted requirement.
func InvalidParameterf(param, format string, args ...interface{}) *AppError {
	return InvalidParameter(param, fmt.Sprintf(format, args...))
}

// NumericDegeneracy reports a computation that would otherwise produce a
// non-finite or undefined value (zero expected bin frequency, degenerate
// sample). Sampling paths clamp instead of raising; this code covers the
// cases that cannot be clamped.
func NumericDegeneracy(message string) *AppError {
	return New(CodeNumericDegeneracy, message)
}

// UserExpression reports a failure in a user-supplied expression, either at
// parse time or when evaluating a point.
func UserExpression(message string, cause error) *AppError {
	return &AppError{
		Code:    CodeUserExpression,
		Message: message,
		Cause:   cause,
	}
}
