package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/Cyclone1070/nsh/internal/config"
	"golang.org/x/term"
)

// NewLogger builds the process logger from cfg.
//
// The "module" format prints through m as cfg.Object, adding that object
// with a mask up to cfg.Level when it does not exist yet. "text" and "json"
// write slog's own formats to w. "auto" picks text when w is a terminal and
// json otherwise.
func NewLogger(cfg config.LogConfig, m *Module, w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	format := strings.ToLower(cfg.Format)
	if format == "auto" {
		format = "json"
		if isTerminal(w) {
			format = "text"
		}
	}

	options := &slog.HandlerOptions{Level: level.slogLevel()}
	switch format {
	case "", "module":
		object := cfg.Object
		if object == "" {
			object = DefaultObject
		}
		if o := m.Object(object); o == nil {
			if err := m.AddObject(NewObject(object, UpTo(level))); err != nil {
				return nil, err
			}
		} else if err := m.SetMask(object, UpTo(level)); err != nil {
			return nil, err
		}
		return slog.New(m.Handler(object)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, options)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, options)), nil
	default:
		return nil, &UnknownFormatError{Format: cfg.Format}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
