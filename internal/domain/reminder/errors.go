package reminder

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers reminders that do not exist or do not belong to
	// the caller. Scoped lookups return it instead of a forbidden error so
	// existence never leaks across patients.
	ErrNotFound = errors.New("reminder not found")

	// ErrInvalidState marks transitions the state machine forbids, such as
	// confirming a terminal reminder or confirming too early.
	ErrInvalidState = errors.New("invalid reminder state")

	// ErrValidation marks rejected input such as an out-of-bounds snooze
	// duration or a malformed date.
	ErrValidation = errors.New("validation failed")
)

func invalidStatef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
