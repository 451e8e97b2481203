package logging

import (
	"log/slog"
	"strconv"
	"strings"
)

// Level is a log severity. Lower values are more severe.
type Level int

const (
	LevelFatal Level = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{"fatal", "error", "warning", "info", "debug"}

func (l Level) String() string {
	if l < LevelFatal || l > LevelDebug {
		return "level(" + strconv.Itoa(int(l)) + ")"
	}
	return levelNames[l]
}

// ParseLevel accepts a level name. "warn" is an alias for warning.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warn" {
		return LevelWarning, nil
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return 0, &UnknownLevelError{Input: s}
}

// slogLevel maps l onto the slog scale.
func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelFatal:
		return slog.LevelError + 4
	case LevelError:
		return slog.LevelError
	case LevelWarning:
		return slog.LevelWarn
	case LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func levelOf(l slog.Level) Level {
	switch {
	case l > slog.LevelError:
		return LevelFatal
	case l >= slog.LevelError:
		return LevelError
	case l >= slog.LevelWarn:
		return LevelWarning
	case l >= slog.LevelInfo:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// Mask selects levels, one bit per level.
type Mask uint8

const (
	MaskNone Mask = 0
	MaskAll  Mask = 1<<(LevelDebug+1) - 1
)

// UpTo returns the mask of l and every more severe level.
func UpTo(l Level) Mask {
	return Mask(1<<(l+1)-1) & MaskAll
}

// Has reports whether l is selected.
func (m Mask) Has(l Level) bool {
	return l >= LevelFatal && l <= LevelDebug && m&(1<<l) != 0
}

// ParseMask accepts a number in any Go base prefix, a level name (meaning
// that level and everything more severe), "all" or "none".
func ParseMask(s string) (Mask, error) {
	switch strings.ToLower(s) {
	case "all":
		return MaskAll, nil
	case "none":
		return MaskNone, nil
	}
	if n, err := strconv.ParseUint(s, 0, 8); err == nil {
		return Mask(n) & MaskAll, nil
	}
	l, err := ParseLevel(s)
	if err != nil {
		return 0, err
	}
	return UpTo(l), nil
}
