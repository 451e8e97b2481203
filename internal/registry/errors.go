package registry

import (
	"errors"
	"fmt"
)

// -- Error Types --

// AlreadyRegisteredError is returned when a path is taken by another entry of
// the same kind, or the entry itself is already registered.
type AlreadyRegisteredError struct {
	Kind Kind
	Path string
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("%s %s is already registered", e.Kind, e.Path)
}
func (e *AlreadyRegisteredError) Unwrap() error { return ErrAlreadyRegistered }

// NotFoundError is returned when an entry is not registered.
type NotFoundError struct {
	Kind Kind
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s is not registered", e.Kind, e.Path)
}
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// RetiredError is returned when an operation targets a deregistered entry.
type RetiredError struct {
	Kind Kind
	Path string
}

func (e *RetiredError) Error() string {
	return fmt.Sprintf("%s %s was deregistered", e.Kind, e.Path)
}
func (e *RetiredError) Unwrap() error { return ErrRetired }

// InvalidFormatError is returned when parameter text cannot be parsed.
type InvalidFormatError struct {
	Input string
	Type  string
	Cause error
}

func (e *InvalidFormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid %s value %q: %v", e.Type, e.Input, e.Cause)
	}
	return fmt.Sprintf("invalid %s value %q", e.Type, e.Input)
}
func (e *InvalidFormatError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrInvalidFormat}
	}
	return []error{ErrInvalidFormat, e.Cause}
}

// -- Sentinels --

var (
	ErrEmptyPath         = errors.New("path is empty")
	ErrAlreadyRegistered = errors.New("already registered")
	ErrNotFound          = errors.New("not registered")
	ErrRetired           = errors.New("entry was deregistered")
	ErrInvalidFormat     = errors.New("invalid format")
	ErrUnknownKind       = errors.New("unknown entry kind")
)
