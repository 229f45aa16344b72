package model

import "fmt"

// Kind classifies why a mutator failed. It names a semantic category, not a
// Go type, per the error-handling design: callers branch on Kind, not on
// a zoo of error types.
type Kind int

const (
	InvalidArgument Kind = iota
	NotFound
	InvariantViolation
	ConflictResolved
	VersionUnsupported
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case NotFound:
		return "NotFound"
	case InvariantViolation:
		return "InvariantViolation"
	case ConflictResolved:
		return "ConflictResolved"
	case VersionUnsupported:
		return "VersionUnsupported"
	default:
		return "Unknown"
	}
}

// Error is the core's single error type. Message carries the caller-facing
// detail; Kind carries the stable, switchable category.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is lets errors.Is(err, model.ErrNotFound) match by Kind alone, ignoring
// Message, so callers can test "what kind of failure" without string
// comparison.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewError builds an Error with a formatted message.
func NewError(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Sentinels, one per Kind, for errors.Is comparisons.
var (
	ErrInvalidArgument    = &Error{Kind: InvalidArgument}
	ErrNotFound           = &Error{Kind: NotFound}
	ErrInvariantViolation = &Error{Kind: InvariantViolation}
	ErrConflictResolved   = &Error{Kind: ConflictResolved}
	ErrVersionUnsupported = &Error{Kind: VersionUnsupported}
)
