package uia

import (
	"errors"
	"fmt"
)

// Code is the integer status exposed across the foreign-call surface.
type Code int

const (
	CodeSuccess Code = iota
	CodeWindowNotFound
	CodeElementNotFound
	CodeInvalidHandle
	CodeOperationFailed
	CodeTimeout
	CodeNullPointer
)

// Sentinel errors for the status taxonomy. Operation failures wrap
// ErrOperationFailed with the underlying platform detail, so callers can
// match with errors.Is and still read the cause.
var (
	ErrWindowNotFound  = errors.New("window not found")
	ErrElementNotFound = errors.New("element not found")
	ErrInvalidHandle   = errors.New("invalid handle")
	ErrOperationFailed = errors.New("operation failed")
	ErrTimeout         = errors.New("operation timed out")
	ErrNullPointer     = errors.New("null pointer")
)

// CodeOf maps an error to its status code. A nil error is CodeSuccess;
// anything outside the taxonomy reads as CodeOperationFailed.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeSuccess
	case errors.Is(err, ErrWindowNotFound):
		return CodeWindowNotFound
	case errors.Is(err, ErrElementNotFound):
		return CodeElementNotFound
	case errors.Is(err, ErrInvalidHandle):
		return CodeInvalidHandle
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	case errors.Is(err, ErrNullPointer):
		return CodeNullPointer
	default:
		return CodeOperationFailed
	}
}

func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeWindowNotFound:
		return "window_not_found"
	case CodeElementNotFound:
		return "element_not_found"
	case CodeInvalidHandle:
		return "invalid_handle"
	case CodeOperationFailed:
		return "operation_failed"
	case CodeTimeout:
		return "timeout"
	case CodeNullPointer:
		return "null_pointer"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// opFailed wraps an underlying platform error as ErrOperationFailed,
// keeping the cause text in the message.
func opFailed(op string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", op, ErrOperationFailed)
	}
	return fmt.Errorf("%s: %v: %w", op, err, ErrOperationFailed)
}
