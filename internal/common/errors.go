package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	CodeDocumentUnreadable = "DOCUMENT_UNREADABLE"
	CodeCorruptImage       = "CORRUPT_IMAGE"
	CodeConfig             = "CONFIG_ERROR"
	CodeStore              = "STORE_ERROR"
	CodeExport             = "EXPORT_ERROR"
)

// Common application errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
	ErrDatabase           = errors.New("database error")
	ErrValidation         = errors.New("validation failed")
	ErrDocumentUnreadable = errors.New("document unreadable")
	ErrCorruptImage       = errors.New("corrupt image")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// DocumentUnreadable reports that a document could not be opened or parsed.
// The result matches ErrDocumentUnreadable under errors.Is.
func DocumentUnreadable(filename string, cause error) *AppError {
	return NewAppError(CodeDocumentUnreadable, filename, joinCause(ErrDocumentUnreadable, cause))
}

// CorruptImage reports an embedded image that failed to decode or write.
func CorruptImage(name string, cause error) *AppError {
	return NewAppError(CodeCorruptImage, name, joinCause(ErrCorruptImage, cause))
}

func joinCause(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// CodeOf returns the AppError code in err's chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
