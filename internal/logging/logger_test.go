package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/Cyclone1070/nsh/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerModuleFormat(t *testing.T) {
	m, out := newModule(t)

	logger, err := NewLogger(config.LogConfig{Level: "debug", Format: "module", Object: "nsh"}, m, nil)
	require.NoError(t, err)
	logger.Debug("ready")

	assert.Equal(t, MaskAll, m.Object("nsh").Mask())
	assert.Equal(t, "3:debug:nsh: ready\n", out.String())
}

func TestNewLoggerJSONFormat(t *testing.T) {
	m, _ := newModule(t)
	var buf bytes.Buffer

	logger, err := NewLogger(config.LogConfig{Level: "info", Format: "json"}, m, &buf)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "k", 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "shown", record["msg"])
}

func TestNewLoggerAutoOnPipeIsJSON(t *testing.T) {
	m, _ := newModule(t)
	var buf bytes.Buffer

	logger, err := NewLogger(config.LogConfig{Level: "info", Format: "auto"}, m, &buf)
	require.NoError(t, err)
	logger.Info("x")

	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNewLoggerErrors(t *testing.T) {
	m, _ := newModule(t)

	_, err := NewLogger(config.LogConfig{Level: "loud"}, m, nil)
	assert.ErrorIs(t, err, ErrUnknownLevel)

	_, err = NewLogger(config.LogConfig{Level: "info", Format: "xml"}, m, nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
