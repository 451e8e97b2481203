package shell

import (
	"errors"
	"fmt"
)

// -- Error Types --

// CommandNotFoundError is returned when a line names nothing in the registry.
type CommandNotFoundError struct {
	Path string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("%s: command not found", e.Path)
}
func (e *CommandNotFoundError) Unwrap() error { return ErrCommandNotFound }

// UnterminatedQuoteError is returned when a line ends inside a quoted region.
type UnterminatedQuoteError struct {
	Offset int
}

func (e *UnterminatedQuoteError) Error() string {
	return fmt.Sprintf("unterminated quote starting at offset %d", e.Offset)
}
func (e *UnterminatedQuoteError) Unwrap() error { return ErrUnterminatedQuote }

// NoSuchDirectoryError is returned when a directory does not exist in the
// namespace.
type NoSuchDirectoryError struct {
	Path string
}

func (e *NoSuchDirectoryError) Error() string {
	return fmt.Sprintf("%s: no such directory", e.Path)
}
func (e *NoSuchDirectoryError) Unwrap() error { return ErrNoSuchDirectory }

// -- Sentinels --

var (
	ErrCommandNotFound   = errors.New("command not found")
	ErrUnterminatedQuote = errors.New("unterminated quote")
	ErrNoSuchDirectory   = errors.New("no such directory")
	// ErrExit is returned by Session.Execute when the exit builtin runs.
	ErrExit = errors.New("exit")
)
