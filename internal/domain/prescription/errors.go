package prescription

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers prescriptions that do not exist or do not belong
	// to the caller. Scoped lookups return it instead of a forbidden error
	// so existence never leaks across patients.
	ErrNotFound = errors.New("prescription not found")

	// ErrValidation marks rejected input (schedule shape, date ranges).
	ErrValidation = errors.New("validation failed")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
