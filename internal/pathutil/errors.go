package pathutil

import (
	"errors"
	"fmt"
)

// -- Error Types --

// MalformedPathError is returned when a path cannot be used in the namespace.
type MalformedPathError struct {
	Path   string
	Reason string
}

func (e *MalformedPathError) Error() string {
	return fmt.Sprintf("malformed path %q: %s", e.Path, e.Reason)
}
func (e *MalformedPathError) Unwrap() error { return ErrMalformed }

// -- Sentinels --

var (
	ErrMalformed = errors.New("malformed path")
)
