package vfs

import (
	"errors"
	"fmt"
)

// -- Error Types --

// InvalidFlagsError is returned when an open flag combination is rejected.
type InvalidFlagsError struct {
	Flags  Flags
	Reason string
}

func (e *InvalidFlagsError) Error() string {
	return fmt.Sprintf("invalid open flags %s: %s", e.Flags, e.Reason)
}
func (e *InvalidFlagsError) Unwrap() error { return ErrInvalidFlags }

// NoSuchMountError is returned when no mount covers a path.
type NoSuchMountError struct {
	Path  string
	Cause error
}

func (e *NoSuchMountError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("no mount for %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("no mount for %s", e.Path)
}
func (e *NoSuchMountError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrNoSuchMount}
	}
	return []error{ErrNoSuchMount, e.Cause}
}

// AlreadyMountedError is returned when a mount name is taken.
type AlreadyMountedError struct {
	Name string
}

func (e *AlreadyMountedError) Error() string {
	return fmt.Sprintf("%s is already mounted", e.Name)
}
func (e *AlreadyMountedError) Unwrap() error { return ErrAlreadyMounted }

// -- Sentinels --

var (
	ErrInvalidFlags   = errors.New("invalid flags")
	ErrNoSuchMount    = errors.New("no such mount")
	ErrAlreadyMounted = errors.New("already mounted")
	ErrNotFound       = errors.New("mount not found")
	ErrBadHandle      = errors.New("bad file handle")
	ErrBufferFull     = errors.New("line does not fit in buffer")
	ErrNotDirectory   = errors.New("not a directory")
)
