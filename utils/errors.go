package utils

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindNotFound   ErrorKind = "not_found"
	KindAuth       ErrorKind = "auth"
	KindUpload     ErrorKind = "upload"
	KindInternal   ErrorKind = "internal"
)

var statusByKind = map[ErrorKind]int{
	KindValidation: http.StatusBadRequest,
	KindConflict:   http.StatusBadRequest,
	KindNotFound:   http.StatusNotFound,
	KindAuth:       http.StatusUnauthorized,
	KindUpload:     http.StatusBadRequest,
	KindInternal:   http.StatusInternalServerError,
}

// AppError is the error type handlers hand to the central error middleware.
// Message is safe to show to clients; Cause is only logged.
type AppError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Status returns the HTTP status for the error kind.
func (e *AppError) Status() int {
	if status, ok := statusByKind[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func ValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func ConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func NotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func AuthError(message string) *AppError {
	return &AppError{Kind: KindAuth, Message: message}
}

func UploadError(message string, cause error) *AppError {
	return &AppError{Kind: KindUpload, Message: message, Cause: cause}
}

func InternalError(message string, cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Cause: cause}
}

// AsAppError unwraps err into an *AppError, or nil when it is something else.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// FromDBError maps gorm errors to the domain taxonomy. notFoundMsg is used for
// missing records; anything unrecognised becomes an internal error.
func FromDBError(err error, notFoundMsg string) *AppError {
	switch {
	case err == nil:
		return nil
	case AsAppError(err) != nil:
		return AsAppError(err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFoundError(notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &AppError{Kind: KindConflict, Message: "Duplicate value for a unique field", Cause: err}
	default:
		return InternalError("Internal server error", err)
	}
}
