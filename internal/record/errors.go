package record

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord matches every normalization failure via errors.Is.
var ErrInvalidRecord = errors.New("invalid record")

// MissingFieldError reports a required field that is absent or null.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrInvalidRecord }

// InvalidFieldError reports a field whose value has the wrong shape or type.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

func (e *InvalidFieldError) Is(target error) bool { return target == ErrInvalidRecord }

// MalformedDateError reports a created_at value that no known layout accepts.
type MalformedDateError struct {
	Value string
	Err   error
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("malformed date %q: %v", e.Value, e.Err)
}

func (e *MalformedDateError) Unwrap() error { return e.Err }

func (e *MalformedDateError) Is(target error) bool { return target == ErrInvalidRecord }
