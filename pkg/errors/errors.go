package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInternal          = errors.New("internal error")
	ErrInvalidInstance   = errors.New("invalid cart instance")
	ErrDuplicateInstance = errors.New("duplicate cart instance")
	ErrInvalidStorage    = errors.New("invalid storage implementation")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// InvalidCartInstance creates a 404 error for an operation that requires a
// live cart instance when none exists under the given ID.
func InvalidCartInstance(id string) *AppError {
	msg := "no cart instance is available"
	if id != "" {
		msg = fmt.Sprintf("cart instance %q does not exist", id)
	}
	return &AppError{
		Code:    "INVALID_CART_INSTANCE",
		Message: msg,
		Status:  http.StatusNotFound,
		Err:     ErrInvalidInstance,
	}
}

// DuplicateCartInstance creates a 409 error for creating an instance under an
// ID that is already registered without permission to overwrite it.
func DuplicateCartInstance(id string) *AppError {
	return &AppError{
		Code:    "DUPLICATE_CART_INSTANCE",
		Message: fmt.Sprintf("cart instance %q already exists", id),
		Status:  http.StatusConflict,
		Err:     ErrDuplicateInstance,
	}
}

// InvalidStorageImplementation creates a 500 error for a configured storage
// driver that cannot be resolved to a working backend.
func InvalidStorageImplementation(driver string) *AppError {
	return &AppError{
		Code:    "INVALID_STORAGE_IMPLEMENTATION",
		Message: fmt.Sprintf("storage driver %q is not a valid storage implementation", driver),
		Status:  http.StatusInternalServerError,
		Err:     ErrInvalidStorage,
	}
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInstance):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateInstance):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
