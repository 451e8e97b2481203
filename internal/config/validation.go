package config

import (
	"fmt"
	"slices"
	"strings"
)

// Validate checks config values for life correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Shell validation
	if c.Shell.HistorySize < 1 {
		errs = append(errs, "shell.history_size must be >= 1")
	}
	if !strings.HasPrefix(c.Shell.Cwd, "/") {
		errs = append(errs, "shell.cwd must be an absolute path")
	}
	if !strings.HasPrefix(c.Shell.CommandPrefix, "/") {
		errs = append(errs, "shell.command_prefix must be an absolute path")
	}
	if c.Shell.InputPollTimeoutMs < 1 {
		errs = append(errs, "shell.input_poll_timeout_ms must be >= 1")
	}
	if c.Shell.ReadBufferSize < 1 {
		errs = append(errs, "shell.read_buffer_size must be >= 1")
	}

	// Log validation
	levels := []string{"fatal", "error", "warning", "warn", "info", "debug"}
	if !slices.Contains(levels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Sprintf("log.level %q is not a level", c.Log.Level))
	}
	switch c.Log.Format {
	case "module", "text", "json", "auto":
	default:
		errs = append(errs, "log.format must be one of module, text, json, auto")
	}
	if c.Log.Object == "" {
		errs = append(errs, "log.object must not be empty")
	}

	// UI validation
	if c.UI.TickIntervalMs < 1 {
		errs = append(errs, "ui.tick_interval_ms must be >= 1")
	}
	if c.UI.MaxOutputLines < 1 {
		errs = append(errs, "ui.max_output_lines must be >= 1")
	}

	// Mount validation
	seen := make(map[string]bool, len(c.Mounts))
	for i, m := range c.Mounts {
		if !strings.HasPrefix(m.Name, "/") {
			errs = append(errs, fmt.Sprintf("mounts[%d].name must be an absolute path", i))
		}
		if seen[m.Name] {
			errs = append(errs, fmt.Sprintf("mounts[%d].name %s is mounted twice", i, m.Name))
		}
		seen[m.Name] = true
		if m.Kind != "block" && m.Kind != "log" {
			errs = append(errs, fmt.Sprintf("mounts[%d].kind must be block or log", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
