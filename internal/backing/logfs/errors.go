package logfs

import (
	"errors"
	"fmt"
)

// -- Error Types --

// CorruptRecordError is returned when a log image fails verification.
type CorruptRecordError struct {
	Seq    uint64
	Reason string
	Cause  error
}

func (e *CorruptRecordError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("record %d: %s: %v", e.Seq, e.Reason, e.Cause)
	}
	return fmt.Sprintf("record %d: %s", e.Seq, e.Reason)
}
func (e *CorruptRecordError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrCorrupt}
	}
	return []error{ErrCorrupt, e.Cause}
}

// -- Sentinels --

var (
	ErrCorrupt      = errors.New("corrupt log")
	ErrFileTooLarge = errors.New("file exceeds maximum size")
	ErrIsRoot       = errors.New("mount root is not a file")
	ErrClosed       = errors.New("file already closed")
)
