package listview

import (
	"errors"
	"fmt"
)

// ErrEmptySectionsOptIn is returned when the empty-section flag is present
// but not true. The flag is opt-in only: leave it unset or set it to true.
var ErrEmptySectionsOptIn = errors.New("enable empty sections may only be set to true")

// ErrInvalidConfig is wrapped by Config.Validate failures.
var ErrInvalidConfig = errors.New("invalid list config")

// InvariantError names a violated engine invariant.
type InvariantError struct {
	Invariant string // Short, stable identifier (e.g. "materialized-bounds").
	Detail    string
	Err       error
}

func (e *InvariantError) Error() string {
	if e.Detail == "" {
		return "listview: invariant " + e.Invariant + " violated"
	}
	return "listview: invariant " + e.Invariant + " violated: " + e.Detail
}

func (e *InvariantError) Unwrap() error { return e.Err }

// assertf panics with an *InvariantError when cond is false. Used for
// programming errors only, never for caller input.
func assertf(cond bool, invariant, format string, args ...any) {
	if cond {
		return
	}
	panic(&InvariantError{Invariant: invariant, Detail: fmt.Sprintf(format, args...)})
}
