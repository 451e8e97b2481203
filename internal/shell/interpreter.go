// Package shell interprets command lines against the resource registry and
// the mount table.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/Cyclone1070/nsh/internal/pathutil"
	"github.com/Cyclone1070/nsh/internal/registry"
	"github.com/Cyclone1070/nsh/internal/vfs"
)

// Interpreter resolves the first word of a line to a command, counter or
// parameter and runs it.
type Interpreter struct {
	registry *registry.Registry
	table    *vfs.Table
	logger   *slog.Logger

	mu  sync.RWMutex
	cwd string
}

// NewInterpreter creates an interpreter whose current directory is the root.
func NewInterpreter(reg *registry.Registry, table *vfs.Table, logger *slog.Logger) *Interpreter {
	if reg == nil {
		panic("registry is required")
	}
	if table == nil {
		panic("table is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Interpreter{registry: reg, table: table, logger: logger, cwd: pathutil.Root}
}

// Cwd returns the current directory.
func (in *Interpreter) Cwd() string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.cwd
}

// Chdir changes the current directory. dir must exist in the namespace.
func (in *Interpreter) Chdir(ctx context.Context, dir string) error {
	abs, err := pathutil.Resolve(in.Cwd(), dir)
	if err != nil {
		return err
	}
	if abs != pathutil.Root {
		if _, err := in.Children(ctx, abs); err != nil {
			return err
		}
	}

	in.mu.Lock()
	in.cwd = abs
	in.mu.Unlock()
	return nil
}

// Call tokenizes line and dispatches it. A command returns its callback's
// result code. A counter prints its value. A parameter prints its value when
// given no argument and is set from a single argument. When nothing matches,
// a message is written to output and a *CommandNotFoundError is returned.
// arg is passed to the callback as Call.CallArg.
func (in *Interpreter) Call(ctx context.Context, line string, input io.Reader, output io.Writer, arg any) (int, error) {
	args, err := Tokenize(line)
	if err != nil {
		fmt.Fprintf(output, "%v\n", err)
		return registry.ResultInvalidArgument, err
	}
	if len(args) == 0 {
		return registry.ResultOK, nil
	}

	cwd := in.Cwd()
	path, err := pathutil.Resolve(cwd, args[0])
	if err != nil {
		fmt.Fprintf(output, "%v\n", err)
		return registry.ResultInvalidArgument, err
	}

	if cmd := in.registry.LookupCommand(path); cmd != nil {
		code := cmd.Invoke(&registry.Call{
			Ctx:     pathutil.WithCwd(ctx, cwd),
			Args:    args,
			In:      input,
			Out:     output,
			CallArg: arg,
		})
		in.logger.Debug("command finished", "path", path, "code", code)
		return code, nil
	}
	if counter := in.registry.LookupCounter(path); counter != nil {
		fmt.Fprintf(output, "%d\n", in.registry.Value(counter))
		return registry.ResultOK, nil
	}
	if param := in.registry.LookupParameter(path); param != nil {
		return in.parameter(param, args, output), nil
	}

	fmt.Fprintf(output, "%s: command not found\n", args[0])
	return registry.ResultNotFound, &CommandNotFoundError{Path: path}
}

func (in *Interpreter) parameter(param *registry.Parameter, args []string, output io.Writer) int {
	switch len(args) {
	case 1:
		if err := in.registry.PrintParameter(param, output); err != nil {
			fmt.Fprintf(output, "%s: %v\n", args[0], err)
			return registry.ResultIO
		}
	case 2:
		if err := in.registry.SetParameter(param, args[1]); err != nil {
			fmt.Fprintf(output, "%s: %v\n", args[0], err)
			return registry.ResultInvalidArgument
		}
	default:
		fmt.Fprintf(output, "usage: %s [value]\n", args[0])
		return registry.ResultInvalidArgument
	}
	return registry.ResultOK
}

// Children lists the names directly beneath dir: files and mount points from
// the mount table plus commands, counters and parameters from the registry.
func (in *Interpreter) Children(ctx context.Context, dir string) ([]vfs.DirEntry, error) {
	abs, err := pathutil.Resolve(in.Cwd(), dir)
	if err != nil {
		return nil, err
	}

	entries, err := in.table.List(pathutil.WithCwd(ctx, in.Cwd()), abs)
	found := err == nil
	if err != nil && !errors.Is(err, vfs.ErrNoSuchMount) {
		return nil, err
	}

	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Name] = i
	}
	for _, path := range in.registryPaths() {
		rest, ok := pathutil.TrimPrefix(path, abs)
		if !ok || rest == "" {
			continue
		}
		found = true
		name, _, nested := strings.Cut(rest, "/")
		if i, ok := index[name]; ok {
			entries[i].IsDir = entries[i].IsDir || nested
			continue
		}
		index[name] = len(entries)
		entries = append(entries, vfs.DirEntry{Name: name, IsDir: nested})
	}

	if !found && abs != pathutil.Root {
		return nil, &NoSuchDirectoryError{Path: abs}
	}
	slices.SortFunc(entries, func(a, b vfs.DirEntry) int { return strings.Compare(a.Name, b.Name) })
	return entries, nil
}

func (in *Interpreter) registryPaths() []string {
	var paths []string
	for _, c := range in.registry.Commands() {
		paths = append(paths, c.Path())
	}
	for _, c := range in.registry.Counters() {
		paths = append(paths, c.Path())
	}
	for _, p := range in.registry.Parameters() {
		paths = append(paths, p.Path())
	}
	return paths
}

// AutoComplete completes the last path segment of partial. When exactly one
// name in the namespace starts with that segment, the missing suffix is
// appended, with a trailing slash for directories, and its length returned.
// Otherwise partial is returned unchanged with 0.
func (in *Interpreter) AutoComplete(ctx context.Context, partial string) (string, int) {
	line := Split(partial)
	dir := in.Cwd()
	if line.HasPath {
		p := line.Path
		if p == "" {
			p = pathutil.Root
		}
		abs, err := pathutil.Resolve(dir, p)
		if err != nil {
			return partial, 0
		}
		dir = abs
	}

	entries, err := in.Children(ctx, dir)
	if err != nil {
		return partial, 0
	}

	var (
		match   vfs.DirEntry
		matches int
	)
	for _, e := range entries {
		if strings.HasPrefix(e.Name, line.Command) {
			match = e
			matches++
		}
	}
	if matches != 1 {
		return partial, 0
	}

	suffix := match.Name[len(line.Command):]
	if match.IsDir {
		suffix += "/"
	}
	return partial + suffix, len(suffix)
}
