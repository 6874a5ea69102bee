package storage

import (
	"errors"
	"fmt"
)

var (
	ErrConnFailed    = errors.New("connection failed")
	ErrAccessDenied  = errors.New("access denied")
	ErrNotFound      = errors.New("object not found")
	ErrDecode        = errors.New("content decode failed")
	ErrTimeout       = errors.New("operation timeout")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// IsRetryable returns true if error may succeed on a retry
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConnFailed) || errors.Is(err, ErrTimeout)
}

// IsCritical returns true if error should stop all operations
func IsCritical(err error) bool {
	return errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrInvalidConfig)
}

// WrapError adds context to an error
func WrapError(name, operation string, err error) error {
	return fmt.Errorf("%s (%s): %w", operation, name, err)
}
