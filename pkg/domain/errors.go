package domain

import (
	"errors"
	"fmt"
)

// ErrGuardUnmet signals a guard short-circuit: the action's condition was
// false or its disabled expression was true. Not a fault, a normal skip.
var ErrGuardUnmet = errors.New("action guard unmet")

// ErrCancelled signals that the user declined a confirmation or parameter
// dialog.
var ErrCancelled = errors.New("cancelled by user")

// ErrMissingID signals an update or delete with no record identifier.
// Retrying cannot fix it, so it is never retried.
var ErrMissingID = errors.New("missing record identifier")

// ErrUnknownAction is returned when an engine lookup names no registered action.
var ErrUnknownAction = errors.New("unknown action")

// ErrNotBulk is returned when a bulk execution names an action that is not
// bulk-eligible.
var ErrNotBulk = errors.New("action is not bulk-eligible")

// TransportError preserves the verbatim failure of a backend call.
type TransportError struct {
	Status  int
	Message string
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport error (status %d): %s", e.Status, e.Message)
	}
	return "transport error: " + e.Message
}

// EvalError wraps a failed or rejected expression evaluation. Unsafe and
// malformed expressions both fail closed through this type.
type EvalError struct {
	Expr string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("expression %q: %v", e.Expr, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }
