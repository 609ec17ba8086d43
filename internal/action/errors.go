package action

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors.
var (
	// ErrUnknownAction is returned when the first path segment is not a command.
	ErrUnknownAction = errors.New("action: unknown action")

	// ErrMissingTarget is returned when a command has no target segment.
	ErrMissingTarget = errors.New("action: missing target")

	// ErrInvalidValue is returned when a value segment is missing, not a
	// number, or out of range.
	ErrInvalidValue = errors.New("action: invalid value")
)

// ErrBridgeUnavailable is returned by executors when the transport to the
// home platform is down or refusing work.
var ErrBridgeUnavailable = errors.New("action: bridge unavailable")

// ErrorKind classifies an execution Error.
type ErrorKind string

// Error kinds.
const (
	KindTargetNotFound    ErrorKind = "target_not_found"
	KindAmbiguousTarget   ErrorKind = "ambiguous_target"
	KindUnsupportedAction ErrorKind = "unsupported_action"
	KindBridgeUnavailable ErrorKind = "bridge_unavailable"
	KindExecutionFailed   ErrorKind = "execution_failed"
)

// Error is a failed command with a message fit to show the caller.
type Error struct {
	Kind    ErrorKind
	Target  string   // set for KindTargetNotFound
	Options []string // set for KindAmbiguousTarget, rendered "Room/Name"
	Action  Command  // set for KindUnsupportedAction
	Reason  string   // set for KindExecutionFailed
	Err     error
}

// Message returns the user-facing text for the error.
func (e *Error) Message() string {
	switch e.Kind {
	case KindTargetNotFound:
		return "Target not found: " + e.Target
	case KindAmbiguousTarget:
		return "Ambiguous target, options: " + strings.Join(e.Options, ", ")
	case KindUnsupportedAction:
		return "Unsupported action: " + string(e.Action)
	case KindBridgeUnavailable:
		return "Bridge unavailable"
	default:
		return e.Reason
	}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message(), e.Err)
	}
	return e.Message()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether the error means the target does not exist.
func (e *Error) IsNotFound() bool {
	return e.Kind == KindTargetNotFound
}
