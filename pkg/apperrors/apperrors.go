package apperrors

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeUnknown    Code = "UNKNOWN"
	CodeValidation Code = "VALIDATION"
	CodePermission Code = "PERMISSION"
	CodeNotFound   Code = "NOT_FOUND"
	CodeConflict   Code = "CONFLICT"
	CodeStore      Code = "STORE"
)

type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Constructors
func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func Validation(msg string) *AppError {
	return New(CodeValidation, msg)
}

func Permission(msg string) *AppError {
	return New(CodePermission, msg)
}

func NotFound(msg string) *AppError {
	return New(CodeNotFound, msg)
}

func Conflict(msg string) *AppError {
	return New(CodeConflict, msg)
}

func Store(msg string, cause error) *AppError {
	return Wrap(CodeStore, msg, cause)
}

// CodeOf classifies an error. Anything that is not an *AppError counts as
// CodeStore so a raw database error never leaks past a handler unclassified.
func CodeOf(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeStore
}

func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
