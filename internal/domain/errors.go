package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a lookup miss: unknown access code or request ID.
var ErrNotFound = errors.New("not found")

// ValidationError is returned before any persistence or broadcast is
// attempted.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid field: %s", e.Field)
}
