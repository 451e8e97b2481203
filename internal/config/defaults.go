package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Shell  ShellConfig   `json:"shell" yaml:"shell"`
	Log    LogConfig     `json:"log" yaml:"log"`
	UI     UIConfig      `json:"ui" yaml:"ui"`
	Mounts []MountConfig `json:"mounts" yaml:"mounts"`
}

type ShellConfig struct {
	Prompt      string `json:"prompt" yaml:"prompt"`             // Default: "nsh> "
	HistorySize int    `json:"history_size" yaml:"history_size"` // Default: 100
	Cwd         string `json:"cwd" yaml:"cwd"`                   // Default: "/"

	// Builtin commands
	CommandPrefix      string `json:"command_prefix" yaml:"command_prefix"`               // Default: "/filesystems/fs"
	InputPollTimeoutMs int    `json:"input_poll_timeout_ms" yaml:"input_poll_timeout_ms"` // Default: 1000
	ReadBufferSize     int    `json:"read_buffer_size" yaml:"read_buffer_size"`           // Default: 4096
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // Default: "info"
	Format string `json:"format" yaml:"format"` // Default: "module" (module, text, json, auto)
	File   string `json:"file" yaml:"file"`     // Default: "" (stderr)
	Object string `json:"object" yaml:"object"` // Default: "nsh"
}

type UIConfig struct {
	TickIntervalMs int    `json:"tick_interval_ms" yaml:"tick_interval_ms"` // Default: 100
	MaxOutputLines int    `json:"max_output_lines" yaml:"max_output_lines"` // Default: 1000
	ColorPrimary   string `json:"color_primary" yaml:"color_primary"`       // Default: "63"
	ColorSuccess   string `json:"color_success" yaml:"color_success"`       // Default: "42"
	ColorError     string `json:"color_error" yaml:"color_error"`           // Default: "196"
	ColorMuted     string `json:"color_muted" yaml:"color_muted"`           // Default: "241"
}

type MountConfig struct {
	Name    string         `json:"name" yaml:"name"`
	Kind    string         `json:"kind" yaml:"kind"` // "block" or "log"
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Shell: ShellConfig{
			Prompt:             "nsh> ",
			HistorySize:        100,
			Cwd:                "/",
			CommandPrefix:      "/filesystems/fs",
			InputPollTimeoutMs: 1000,
			ReadBufferSize:     4096,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "module",
			Object: "nsh",
		},
		UI: UIConfig{
			TickIntervalMs: 100,
			MaxOutputLines: 1000,
			ColorPrimary:   "63",
			ColorSuccess:   "42",
			ColorError:     "196",
			ColorMuted:     "241",
		},
		Mounts: []MountConfig{
			{Name: "/tmp", Kind: "block"},
			{Name: "/flash", Kind: "log", Options: map[string]any{"compression": "lz4"}},
		},
	}
}
