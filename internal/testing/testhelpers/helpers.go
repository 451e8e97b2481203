// Package testhelpers provides shared fixtures for tests that need a wired
// namespace: a registry, a mount table and an interpreter over both.
package testhelpers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Cyclone1070/nsh/internal/registry"
	"github.com/Cyclone1070/nsh/internal/shell"
	"github.com/Cyclone1070/nsh/internal/vfs"
	"github.com/stretchr/testify/require"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Namespace is a registry and mount table behind one interpreter.
type Namespace struct {
	Registry *registry.Registry
	Table    *vfs.Table
	Interp   *shell.Interpreter
}

// NewNamespace creates an empty namespace.
func NewNamespace(t testing.TB) *Namespace {
	t.Helper()
	logger := DiscardLogger()
	reg := registry.New(logger)
	table := vfs.NewTable(logger)
	return &Namespace{
		Registry: reg,
		Table:    table,
		Interp:   shell.NewInterpreter(reg, table, logger),
	}
}

// Mount attaches backend at name as a block filesystem.
func (n *Namespace) Mount(t testing.TB, name string, backend vfs.Backend) {
	t.Helper()
	require.NoError(t, n.Table.Mount(name, vfs.KindBlock, backend))
}

// Command registers a command at path.
func (n *Namespace) Command(t testing.TB, path string, cb registry.Callback) *registry.Command {
	t.Helper()
	cmd := registry.NewCommand(path, cb, nil)
	require.NoError(t, n.Registry.RegisterCommand(cmd))
	return cmd
}

// Call runs line through the interpreter and returns its output.
func (n *Namespace) Call(line string, input io.Reader) (int, string, error) {
	var out bytes.Buffer
	code, err := n.Interp.Call(context.Background(), line, input, &out, nil)
	return code, out.String(), err
}

// Run is Call for lines that must resolve to a command, counter or parameter.
func (n *Namespace) Run(t testing.TB, line string, input io.Reader) (int, string) {
	t.Helper()
	code, out, err := n.Call(line, input)
	require.NoError(t, err, line)
	return code, out
}
