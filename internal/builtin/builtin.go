// Package builtin registers the standard filesystem and diagnostic commands.
package builtin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Cyclone1070/nsh/internal/channel"
	"github.com/Cyclone1070/nsh/internal/config"
	"github.com/Cyclone1070/nsh/internal/registry"
	"github.com/Cyclone1070/nsh/internal/vfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// lister enumerates a namespace directory.
type lister interface {
	Children(ctx context.Context, dir string) ([]vfs.DirEntry, error)
}

// Commands owns the builtin command set.
type Commands struct {
	registry    *registry.Registry
	table       *vfs.Table
	lister      lister
	logger      *slog.Logger
	prefix      string
	pollTimeout time.Duration
	bufferSize  int

	commands []*registry.Command
}

// New prepares the builtin commands. File commands are placed under
// cfg.Shell.CommandPrefix.
func New(reg *registry.Registry, table *vfs.Table, lister lister, cfg *config.Config, logger *slog.Logger) *Commands {
	if reg == nil {
		panic("reg is required")
	}
	if table == nil {
		panic("table is required")
	}
	if lister == nil {
		panic("lister is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Commands{
		registry:    reg,
		table:       table,
		lister:      lister,
		logger:      logger,
		prefix:      strings.TrimSuffix(cfg.Shell.CommandPrefix, "/"),
		pollTimeout: time.Duration(cfg.Shell.InputPollTimeoutMs) * time.Millisecond,
		bufferSize:  cfg.Shell.ReadBufferSize,
	}
	c.commands = []*registry.Command{
		registry.NewCommand(c.prefix+"/read", c.read, nil),
		registry.NewCommand(c.prefix+"/write", c.write, vfs.FlagWrite|vfs.FlagCreate|vfs.FlagTruncate),
		registry.NewCommand(c.prefix+"/append", c.write, vfs.FlagAppend|vfs.FlagCreate),
		registry.NewCommand(c.prefix+"/list", c.list, nil),
		registry.NewCommand("/filesystems/list", c.filesystems, nil),
		registry.NewCommand("/kernel/counters/list", c.counters, nil),
		registry.NewCommand("/kernel/counters/reset", c.resetCounters, nil),
		registry.NewCommand("/kernel/parameters/list", c.parameters, nil),
		registry.NewCommand("/kernel/index/print", c.printIndex, nil),
	}
	return c
}

// Register publishes every builtin. Either all are registered or none are.
func (c *Commands) Register() error {
	for i, cmd := range c.commands {
		if err := c.registry.RegisterCommand(cmd); err != nil {
			for _, done := range c.commands[:i] {
				_ = c.registry.DeregisterCommand(done)
			}
			return err
		}
	}
	c.logger.Debug("builtin commands registered", "count", len(c.commands), "prefix", c.prefix)
	return nil
}

// Deregister withdraws every builtin.
func (c *Commands) Deregister() error {
	var errs []error
	for _, cmd := range c.commands {
		errs = append(errs, c.registry.DeregisterCommand(cmd))
	}
	return errors.Join(errs...)
}

// Paths returns the paths of the builtin commands.
func (c *Commands) Paths() []string {
	paths := make([]string, len(c.commands))
	for i, cmd := range c.commands {
		paths[i] = cmd.Path()
	}
	return paths
}

func usage(call *registry.Call, args string) int {
	fmt.Fprintf(call.Out, "usage: %s %s\n", call.Args[0], args)
	return registry.ResultInvalidArgument
}

func fail(call *registry.Call, err error) int {
	fmt.Fprintf(call.Out, "%s: %v\n", call.Args[0], err)
	return resultCode(err)
}

// resultCode maps an error to the negative result code a script sees.
func resultCode(err error) int {
	switch {
	case err == nil:
		return registry.ResultOK
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, vfs.ErrNoSuchMount), errors.Is(err, registry.ErrNotFound):
		return registry.ResultNotFound
	case errors.Is(err, fs.ErrExist):
		return registry.ResultExists
	case errors.Is(err, vfs.ErrInvalidFlags), errors.Is(err, registry.ErrInvalidFormat), errors.Is(err, registry.ErrUnknownKind):
		return registry.ResultInvalidArgument
	default:
		return registry.ResultIO
	}
}

func (c *Commands) read(call *registry.Call) int {
	if len(call.Args) != 2 {
		return usage(call, "<path>")
	}
	f, err := c.table.Open(call.Ctx, call.Args[1], vfs.FlagRead)
	if err != nil {
		return fail(call, err)
	}
	defer f.Close()

	buf := make([]byte, c.bufferSize)
	for {
		n, err := f.ReadLine(buf)
		call.Out.Write(buf[:n])
		switch {
		case err == nil:
			io.WriteString(call.Out, "\n")
		case errors.Is(err, vfs.ErrBufferFull):
		case errors.Is(err, io.EOF):
			return registry.ResultOK
		default:
			return fail(call, err)
		}
	}
}

// write backs both write and append; the open flags are the bound argument.
// Arguments after the path are written joined by spaces with a trailing
// newline. Without them the input channel is copied until end of stream.
func (c *Commands) write(call *registry.Call) int {
	flags := call.Arg.(vfs.Flags)
	if len(call.Args) < 2 || (flags.Has(vfs.FlagAppend) && len(call.Args) < 3) {
		return usage(call, "<path> [data...]")
	}
	f, err := c.table.Open(call.Ctx, call.Args[1], flags)
	if err != nil {
		return fail(call, err)
	}
	defer f.Close()

	if len(call.Args) > 2 {
		if _, err := io.WriteString(f, strings.Join(call.Args[2:], " ")+"\n"); err != nil {
			return fail(call, err)
		}
		return registry.ResultOK
	}
	if err := c.copyInput(call.Ctx, f, call.In); err != nil {
		return fail(call, err)
	}
	return registry.ResultOK
}

func (c *Commands) copyInput(ctx context.Context, dst io.Writer, src io.Reader) error {
	if src == nil {
		return nil
	}
	buf := make([]byte, c.bufferSize)
	for {
		ready, err := channel.Wait(src, c.pollTimeout, ctx.Done())
		if err != nil {
			return err
		}
		if !ready {
			return ctx.Err()
		}
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *Commands) list(call *registry.Call) int {
	if len(call.Args) > 3 {
		return usage(call, "[path] [filter]")
	}
	dir := "."
	if len(call.Args) > 1 {
		dir = call.Args[1]
	}
	match := func(string, bool) bool { return true }
	if len(call.Args) > 2 {
		matcher := gitignore.NewMatcher([]gitignore.Pattern{gitignore.ParsePattern(call.Args[2], nil)})
		match = func(name string, isDir bool) bool { return matcher.Match([]string{name}, isDir) }
	}

	entries, err := c.lister.Children(call.Ctx, dir)
	if err != nil {
		return fail(call, err)
	}
	for _, e := range entries {
		if !match(e.Name, e.IsDir) {
			continue
		}
		if e.IsDir {
			fmt.Fprintf(call.Out, "%s/\n", e.Name)
		} else {
			fmt.Fprintf(call.Out, "%s\t%d\n", e.Name, e.Size)
		}
	}
	return registry.ResultOK
}

func (c *Commands) filesystems(call *registry.Call) int {
	for _, m := range c.table.Mounts() {
		fmt.Fprintf(call.Out, "%s\t%s\n", m.Name(), m.Kind())
	}
	return registry.ResultOK
}

func (c *Commands) counters(call *registry.Call) int {
	counters := c.registry.Counters()
	slices.SortFunc(counters, func(a, b *registry.Counter) int { return strings.Compare(a.Path(), b.Path()) })
	for _, counter := range counters {
		fmt.Fprintf(call.Out, "%s\t%d\n", counter.Path(), c.registry.Value(counter))
	}
	return registry.ResultOK
}

// resetCounters zeroes the named counters, or every counter without arguments.
func (c *Commands) resetCounters(call *registry.Call) int {
	if len(call.Args) == 1 {
		for _, counter := range c.registry.Counters() {
			_ = c.registry.Reset(counter)
		}
		return registry.ResultOK
	}
	for _, path := range call.Args[1:] {
		counter := c.registry.LookupCounter(path)
		if counter == nil {
			return fail(call, &registry.NotFoundError{Kind: registry.KindCounter, Path: path})
		}
		if err := c.registry.Reset(counter); err != nil {
			return fail(call, err)
		}
	}
	return registry.ResultOK
}

func (c *Commands) parameters(call *registry.Call) int {
	params := c.registry.Parameters()
	slices.SortFunc(params, func(a, b *registry.Parameter) int { return strings.Compare(a.Path(), b.Path()) })
	for _, p := range params {
		var value strings.Builder
		if err := c.registry.PrintParameter(p, &value); err != nil {
			return fail(call, err)
		}
		fmt.Fprintf(call.Out, "%s\t%s\n", p.Path(), strings.TrimRight(value.String(), "\n"))
	}
	return registry.ResultOK
}

func (c *Commands) printIndex(call *registry.Call) int {
	if len(call.Args) != 2 {
		return usage(call, "<commands|counters|parameters>")
	}
	kind, err := registry.ParseKind(call.Args[1])
	if err != nil {
		return fail(call, err)
	}
	if err := c.registry.PrintIndex(kind, call.Out); err != nil {
		return fail(call, err)
	}
	return registry.ResultOK
}
