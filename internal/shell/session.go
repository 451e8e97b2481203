package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/Cyclone1070/nsh/internal/channel"
	"github.com/Cyclone1070/nsh/internal/config"
	"github.com/Cyclone1070/nsh/internal/registry"
)

const (
	commandsCounterPath = "/kernel/shell/commands"
	promptParamPath     = "/kernel/shell/prompt"
	historyParamPath    = "/kernel/shell/history_size"
)

// Session is an interactive front end to an Interpreter. It adds the cd,
// pwd, history, help and exit builtins, keeps a bounded history, and
// publishes its prompt and history size as parameters.
type Session struct {
	interp   *Interpreter
	registry *registry.Registry
	logger   *slog.Logger

	prompt      string
	historySize int32

	mu      sync.Mutex
	history []string

	commands     *registry.Counter
	promptParam  *registry.Parameter
	historyParam *registry.Parameter
}

// NewSession creates a session and moves the interpreter to cfg.Shell.Cwd.
// Call Register to publish the session's counter and parameters.
func NewSession(interp *Interpreter, reg *registry.Registry, cfg *config.Config, logger *slog.Logger) *Session {
	if interp == nil {
		panic("interp is required")
	}
	if reg == nil {
		panic("reg is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Session{
		interp:      interp,
		registry:    reg,
		logger:      logger,
		prompt:      cfg.Shell.Prompt,
		historySize: int32(cfg.Shell.HistorySize),
	}
	s.commands = registry.NewCounter(commandsCounterPath, 0)
	s.promptParam = registry.NewStringParameter(promptParamPath, &s.prompt)
	s.historyParam = registry.NewIntParameter(historyParamPath, &s.historySize)

	if err := interp.Chdir(context.Background(), cfg.Shell.Cwd); err != nil {
		logger.Warn("starting directory unavailable, using root", "cwd", cfg.Shell.Cwd, "error", err)
	}
	return s
}

// Register publishes the session counter and parameters. Either all of them
// are registered or none are.
func (s *Session) Register() error {
	if err := s.registry.RegisterCounter(s.commands); err != nil {
		return err
	}
	if err := s.registry.RegisterParameter(s.promptParam); err != nil {
		_ = s.registry.DeregisterCounter(s.commands)
		return err
	}
	if err := s.registry.RegisterParameter(s.historyParam); err != nil {
		_ = s.registry.DeregisterParameter(s.promptParam)
		_ = s.registry.DeregisterCounter(s.commands)
		return err
	}
	return nil
}

// Close withdraws what Register published.
func (s *Session) Close() error {
	return errors.Join(
		s.registry.DeregisterParameter(s.historyParam),
		s.registry.DeregisterParameter(s.promptParam),
		s.registry.DeregisterCounter(s.commands),
	)
}

// Prompt returns the current prompt text.
func (s *Session) Prompt() string {
	prompt, _ := registry.ParameterValue[string](s.registry, s.promptParam)
	return prompt
}

// Cwd returns the interpreter's current directory.
func (s *Session) Cwd() string {
	return s.interp.Cwd()
}

// History returns the remembered lines, oldest first.
func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// AutoComplete completes the last path segment of partial.
func (s *Session) AutoComplete(partial string) (string, int) {
	return s.interp.AutoComplete(context.Background(), partial)
}

// Execute runs one line. Builtins are handled here; everything else goes to
// the interpreter with the session as the call argument. The exit builtin
// returns ErrExit.
func (s *Session) Execute(ctx context.Context, line string, input io.Reader, output io.Writer) (int, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return registry.ResultOK, nil
	}
	s.remember(line)

	args, err := Tokenize(line)
	if err != nil {
		fmt.Fprintf(output, "%v\n", err)
		return registry.ResultInvalidArgument, err
	}

	switch args[0] {
	case "exit":
		return registry.ResultOK, ErrExit
	case "pwd":
		fmt.Fprintln(output, s.interp.Cwd())
		return registry.ResultOK, nil
	case "cd":
		dir := "/"
		if len(args) > 1 {
			dir = args[1]
		}
		if err := s.interp.Chdir(ctx, dir); err != nil {
			fmt.Fprintf(output, "cd: %v\n", err)
			return registry.ResultNotFound, nil
		}
		return registry.ResultOK, nil
	case "history":
		for i, h := range s.History() {
			fmt.Fprintf(output, "%4d  %s\n", i+1, h)
		}
		return registry.ResultOK, nil
	case "help":
		io.WriteString(output, s.Help())
		return registry.ResultOK, nil
	}

	if err := s.registry.Increment(s.commands, 1); err != nil {
		s.logger.Debug("command counter unavailable", "error", err)
	}
	return s.interp.Call(ctx, line, input, output, s)
}

// Run executes lines from r until it is exhausted, exit runs, or ctx is
// cancelled. Command failures do not stop the run.
func (s *Session) Run(ctx context.Context, r io.Reader, output io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		code, err := s.Execute(ctx, scanner.Text(), channel.Null, output)
		if errors.Is(err, ErrExit) {
			return nil
		}
		if code != registry.ResultOK {
			s.logger.Debug("line failed", "line", scanner.Text(), "code", code, "error", err)
		}
	}
	return scanner.Err()
}

func (s *Session) remember(line string) {
	limit, ok := registry.ParameterValue[int32](s.registry, s.historyParam)
	if !ok || limit < 1 {
		limit = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, line)
	if over := len(s.history) - int(limit); over > 0 {
		s.history = slices.Delete(s.history, 0, over)
	}
}

// Help returns a markdown summary of the builtins and registered commands.
func (s *Session) Help() string {
	var b strings.Builder
	b.WriteString("# nsh\n\n")
	b.WriteString("## Builtins\n\n")
	b.WriteString("| command | description |\n|---|---|\n")
	b.WriteString("| `cd [dir]` | change the current directory |\n")
	b.WriteString("| `pwd` | print the current directory |\n")
	b.WriteString("| `history` | list previous lines |\n")
	b.WriteString("| `help` | show this text |\n")
	b.WriteString("| `exit` | leave the shell |\n\n")

	commands := s.registry.Commands()
	slices.SortFunc(commands, func(a, b *registry.Command) int { return strings.Compare(a.Path(), b.Path()) })
	b.WriteString("## Commands\n\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "- `%s`\n", c.Path())
	}
	b.WriteString("\nCounters print their value. Parameters print their value, or take one argument to set it.\n")
	return b.String()
}
