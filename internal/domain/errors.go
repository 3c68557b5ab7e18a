package domain

import (
	"errors"
	"fmt"
)

// ErrOrderNotFound is returned by lookups referencing an unknown order id.
// Callers match it with errors.Is.
var ErrOrderNotFound = errors.New("order not found")

// NotFound wraps ErrOrderNotFound with the offending id.
func NotFound(id string) error {
	return fmt.Errorf("%w: %s", ErrOrderNotFound, id)
}

// ValidationError reports an order whose parameters fail domain rules. It is
// raised before any account state changes, so a failed submit or modify
// leaves prior state untouched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order: %s %s", e.Field, e.Reason)
}
