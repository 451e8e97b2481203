package logging

import (
	"errors"
	"fmt"
)

// -- Error Types --

// ObjectExistsError is returned when an object with the same name is already added.
type ObjectExistsError struct {
	Name string
}

func (e *ObjectExistsError) Error() string {
	return fmt.Sprintf("log object %q already exists", e.Name)
}
func (e *ObjectExistsError) Unwrap() error { return ErrObjectExists }

// UnknownLevelError is returned for a level or mask that does not parse.
type UnknownLevelError struct {
	Input string
}

func (e *UnknownLevelError) Error() string {
	return fmt.Sprintf("unknown log level %q", e.Input)
}
func (e *UnknownLevelError) Unwrap() error { return ErrUnknownLevel }

// UnknownFormatError is returned by NewLogger for an unsupported format.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown log format %q", e.Format)
}
func (e *UnknownFormatError) Unwrap() error { return ErrUnknownFormat }

// -- Sentinels --

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyAdded  = errors.New("already added")
	ErrObjectExists  = errors.New("log object exists")
	ErrUnknownLevel  = errors.New("unknown log level")
	ErrUnknownFormat = errors.New("unknown log format")
)
