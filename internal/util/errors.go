package util

import (
	"errors"
	"fmt"
)

// 错误类别，HTTP 层据此映射状态码
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("authentication failed")
	ErrForbidden  = errors.New("forbidden")
	ErrInternal   = errors.New("internal error")
)

var (
	ErrExerciseNotFound   = NotFoundError("Exercise not found")
	ErrAlreadyAnswered    = ConflictError("Exercise already answered")
	ErrSubmitInProgress   = ConflictError("Submission already in progress")
	ErrNoExercises        = NotFoundError("No exercises available for the given criteria")
	ErrEmailRegistered    = ValidationError("Email already registered")
	ErrInvalidCredentials = AuthError("Incorrect email or password")
	ErrInvalidToken       = AuthError("Could not validate credentials")
)

// AppError 带类别的业务错误
type AppError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Kind == t.Kind && e.Message == t.Message
	}
	return errors.Is(e.Kind, target)
}

func newError(kind error, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func ValidationError(message string) *AppError { return newError(ErrValidation, message) }
func NotFoundError(message string) *AppError   { return newError(ErrNotFound, message) }
func ConflictError(message string) *AppError   { return newError(ErrConflict, message) }
func AuthError(message string) *AppError       { return newError(ErrAuth, message) }
func ForbiddenError(message string) *AppError  { return newError(ErrForbidden, message) }

// Wrap 为底层错误附加类别与说明
func Wrap(kind error, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}
