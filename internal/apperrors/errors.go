package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of
// the resource, e.g. a voucher number collision under concurrency or a status
// transition that is not allowed from the current status.
var ErrConflict = errors.New("conflicting state")

// ErrUnbalanced indicates that the debit and credit lines of a voucher do not
// balance, or that neither side matches the declared total amount.
var ErrUnbalanced = errors.New("entry lines do not balance")

// ErrAlreadyVoid indicates an attempt to void a voucher that is already void.
var ErrAlreadyVoid = errors.New("transaction already void")

// ErrInternal indicates an unexpected internal failure, typically a storage
// error surfaced through a repository.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level error with an HTTP-like status code and a
// message that is safe to log and return. Repositories use it so callers
// never see raw driver errors.
type AppError struct {
	Code    int
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

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches ErrNotFound under errors.Is.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
