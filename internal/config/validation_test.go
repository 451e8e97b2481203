package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_AllDefaults_Pass(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_Shell(t *testing.T) {
	t.Run("Zero HistorySize Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Shell.HistorySize = 0
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "history_size")
	})

	t.Run("Relative Cwd Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Shell.Cwd = "tmp"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "shell.cwd")
	})

	t.Run("Zero Poll Timeout Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Shell.InputPollTimeoutMs = 0
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "input_poll_timeout_ms")
	})
}

func TestValidate_Log(t *testing.T) {
	t.Run("Unknown Level Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Log.Level = "verbose"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "log.level")
	})

	t.Run("Unknown Format Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Log.Format = "xml"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "log.format")
	})

	t.Run("Offset Level Passes", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Log.Level = "warn+2"
		assert.NoError(t, cfg.Validate())
	})
}

func TestValidate_Mounts(t *testing.T) {
	t.Run("Relative Name Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Mounts = []MountConfig{{Name: "data", Kind: "block"}}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "mounts[0].name")
	})

	t.Run("Duplicate Name Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Mounts = []MountConfig{{Name: "/a", Kind: "block"}, {Name: "/a", Kind: "log"}}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "mounted twice")
	})

	t.Run("Unknown Kind Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Mounts = []MountConfig{{Name: "/a", Kind: "tape"}}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "mounts[0].kind")
	})
}

func TestValidate_MultipleErrors_AllReported(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Shell.HistorySize = 0
	cfg.UI.MaxOutputLines = 0

	err := cfg.Validate()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "history_size")
	assert.Contains(t, err.Error(), "max_output_lines")
}
