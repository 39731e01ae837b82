package application

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError is an orchestration-level error carrying the HTTP status a
// transport layer should map it to.
type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeIdempotencyConflict = "IDEMPOTENCY_CONFLICT"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInvalidTransition   = "INVALID_TRANSITION"
	ErrCodeTransient           = "TRANSIENT_ERROR"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

func NewValidationError(msg string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewIdempotencyConflictError(key string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeIdempotencyConflict,
		Message:    fmt.Sprintf("idempotency key %s reused with a different payload", key),
		HTTPStatus: http.StatusConflict,
	}
}

func NewNotFoundError(msg string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeNotFound,
		Message:    msg,
		HTTPStatus: http.StatusNotFound,
	}
}

func NewInvalidTransitionError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidTransition,
		Message:    err.Error(),
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        err,
	}
}

func NewTransientError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeTransient,
		Message:    "temporary failure, retry may succeed",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "an internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}
