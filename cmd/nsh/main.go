// Package main provides nsh, a shell over a namespace of commands, counters,
// parameters and mounted filesystems.
//
// With -c it runs one line. With a script argument, or when stdin is not a
// terminal, it runs lines from the script or stdin. Otherwise it starts the
// full-screen interface.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Cyclone1070/nsh/internal/backing"
	"github.com/Cyclone1070/nsh/internal/builtin"
	"github.com/Cyclone1070/nsh/internal/channel"
	"github.com/Cyclone1070/nsh/internal/config"
	"github.com/Cyclone1070/nsh/internal/logging"
	"github.com/Cyclone1070/nsh/internal/registry"
	"github.com/Cyclone1070/nsh/internal/shell"
	"github.com/Cyclone1070/nsh/internal/ui"
	uiservices "github.com/Cyclone1070/nsh/internal/ui/services"
	"github.com/Cyclone1070/nsh/internal/vfs"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// exitError reports a failing result code from -c.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.ExitCode()) }

// ExitCode turns a negative result code into a process status.
func (e *exitError) ExitCode() int {
	if status := -e.code; status > 0 && status < 126 {
		return status
	}
	return 1
}

type options struct {
	configPath string
	logLevel   string
	logFormat  string
	noTUI      bool
	command    string
	script     string
	help       bool
}

func parseFlags(args []string, stderr io.Writer) (*options, *pflag.FlagSet, error) {
	var opts options
	flagSet := pflag.NewFlagSet("nsh", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.configPath, "config", "", "config file (default: ~/.config/nsh/config.jsonc or config.yaml)")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "log level: fatal, error, warning, info, debug")
	flagSet.StringVar(&opts.logFormat, "log-format", "", "log format: module, text, json, auto")
	flagSet.BoolVar(&opts.noTUI, "no-tui", false, "read lines from stdin instead of starting the interface")
	flagSet.StringVarP(&opts.command, "command", "c", "", "run one line and exit with its result")
	flagSet.BoolVarP(&opts.help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		return nil, flagSet, err
	}
	switch rest := flagSet.Args(); len(rest) {
	case 0:
	case 1:
		opts.script = rest[0]
	default:
		return nil, flagSet, fmt.Errorf("expected at most one script, got %d arguments", len(rest))
	}
	return &opts, flagSet, nil
}

func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.NewLoader().LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, flagSet, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) || (err == nil && opts.help) {
		fmt.Fprintf(stdout, "usage: nsh [flags] [script]\n\n%s", flagSet.FlagUsages())
		return nil
	}
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	interactive := opts.command == "" && opts.script == "" && !opts.noTUI && isTerminal(stdin) && isTerminal(stdout)

	logOut := stderr
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	} else if interactive {
		logOut = io.Discard
	}

	app, err := newApp(cfg, logOut)
	if err != nil {
		return err
	}
	defer app.Close()

	switch {
	case opts.command != "":
		input := io.Reader(channel.Null)
		if !isTerminal(stdin) {
			input = stdin
		}
		code, err := app.Session.Execute(ctx, opts.command, input, stdout)
		if err != nil && !errors.Is(err, shell.ErrExit) {
			app.Logger.Debug("command failed", "line", opts.command, "error", err)
		}
		if code != registry.ResultOK {
			return &exitError{code: code}
		}
		return nil

	case opts.script != "":
		f, err := os.Open(opts.script)
		if err != nil {
			return err
		}
		defer f.Close()
		return app.Session.Run(ctx, f, stdout)

	case !interactive:
		return app.Session.Run(ctx, stdin, stdout)
	}

	spinnerFactory := func() spinner.Model {
		return spinner.New(spinner.WithSpinner(spinner.Dot))
	}
	return ui.NewUI(ctx, app.Session, cfg, uiservices.NewGlamourRenderer(""), spinnerFactory).Start()
}

// App holds the wired namespace.
type App struct {
	Config   *config.Config
	Log      *logging.Module
	Logger   *slog.Logger
	Registry *registry.Registry
	Table    *vfs.Table
	Session  *shell.Session

	closers []func() error
}

func newApp(cfg *config.Config, logOut io.Writer) (*App, error) {
	module := logging.New(logOut)
	logger, err := logging.NewLogger(cfg.Log, module, logOut)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Log:      module,
		Logger:   logger,
		Registry: registry.New(logger.With(logging.ObjectKey, "registry")),
		Table:    vfs.NewTable(logger.With(logging.ObjectKey, "vfs")),
	}

	for _, m := range cfg.Mounts {
		if err := backing.Mount(app.Table, m.Name, vfs.Kind(m.Kind), m.Options); err != nil {
			return nil, fmt.Errorf("failed to mount %s: %w", m.Name, err)
		}
		logger.Info("mounted", "name", m.Name, "kind", m.Kind)
	}

	logCommands := logging.NewCommands(module, app.Registry, logging.DefaultCommandPrefix)
	if err := logCommands.Register(); err != nil {
		return nil, err
	}
	app.closers = append(app.closers, logCommands.Deregister)

	interp := shell.NewInterpreter(app.Registry, app.Table, logger)
	builtins := builtin.New(app.Registry, app.Table, interp, cfg, logger)
	if err := builtins.Register(); err != nil {
		app.Close()
		return nil, err
	}
	app.closers = append(app.closers, builtins.Deregister)

	app.Session = shell.NewSession(interp, app.Registry, cfg, logger)
	if err := app.Session.Register(); err != nil {
		app.Close()
		return nil, err
	}
	app.closers = append(app.closers, app.Session.Close)
	return app, nil
}

// Close withdraws everything newApp registered, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
