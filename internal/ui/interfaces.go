package ui

import (
	"context"
	"io"
)

// Shell is the line-oriented session the UI drives.
type Shell interface {
	Prompt() string
	Cwd() string
	History() []string
	AutoComplete(partial string) (string, int)
	Execute(ctx context.Context, line string, input io.Reader, output io.Writer) (int, error)
	// Help returns markdown.
	Help() string
}
