package drawing

import (
	"errors"
	"fmt"
)

var (
	// ErrBlueprintNotFound: no blueprint matches the author (or author+name).
	ErrBlueprintNotFound = errors.New("blueprint not found")
	// ErrBlueprintExists: a blueprint with the same (author, name) is already stored.
	ErrBlueprintExists = errors.New("blueprint already exists")
	// ErrInvalidBlueprint: caller input failed validation.
	ErrInvalidBlueprint = errors.New("invalid blueprint")
	// ErrPersistenceUnavailable: storage unreachable, timed out, or transiently failing.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)

// Error carries a caller-facing message and matches its Kind with errors.Is.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message == "" && e.Kind != nil {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

func NewError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
