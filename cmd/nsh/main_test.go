package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a YAML config that mounts only an in-memory /tmp so
// tests never touch the user's config directory.
func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nsh.yaml")
	content := `
log:
  level: warning
mounts:
  - name: /tmp
    kind: block
  - name: /flash
    kind: log
    options:
      compression: zstd
      max_file_size: 1024
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runNsh(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"--config", writeConfig(t)}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunCommandFlag(t *testing.T) {
	out, _, err := runNsh(t, "", "-c", "/filesystems/list")

	require.NoError(t, err)
	assert.Equal(t, "/tmp\tblock\n/flash\tlog\n", out)
}

func TestRunCommandFlagExitStatus(t *testing.T) {
	out, _, err := runNsh(t, "", "-c", "/no/such/command")

	var exit *exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 2, exit.ExitCode())
	assert.Contains(t, out, "command not found")
}

func TestRunStdinWritesAndReadsLogMount(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg := writeConfig(t)

	// Each run builds a fresh namespace, so write and read in one script.
	err := run(context.Background(), []string{"--config", cfg, "--no-tui"},
		strings.NewReader("/filesystems/fs/write /flash/a hello\n/filesystems/fs/append /flash/a again\n/filesystems/fs/read /flash/a\n"),
		&stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, "hello\nagain\n", stdout.String())
}

func TestRunScriptFile(t *testing.T) {
	script := filepath.Join(t.TempDir(), "boot.nsh")
	require.NoError(t, os.WriteFile(script, []byte("cd /kernel\npwd\nexit\npwd\n"), 0o644))

	out, _, err := runNsh(t, "", script)

	require.NoError(t, err)
	assert.Equal(t, "/kernel\n", out)
}

func TestRunStdinLines(t *testing.T) {
	out, _, err := runNsh(t, "/kernel/log/set_log_mask nsh all\n/kernel/log/list\n")

	require.NoError(t, err)
	assert.Contains(t, out, "OBJECT-NAME")
	assert.Contains(t, out, "nsh               0x1f")
}

func TestRunLogLevelFlagOverridesConfig(t *testing.T) {
	_, stderr, err := runNsh(t, "", "--log-level", "info", "-c", "pwd")

	require.NoError(t, err)
	assert.Contains(t, stderr, ":info:nsh: mounted name=/tmp kind=block")
}

func TestRunRejectsBadInput(t *testing.T) {
	_, _, err := runNsh(t, "", "--log-format", "xml", "-c", "pwd")
	assert.ErrorContains(t, err, "log.format")

	_, _, err = runNsh(t, "", "a", "b")
	assert.Error(t, err)

	_, _, err = runNsh(t, "", "--bogus")
	assert.Error(t, err)
}

func TestRunHelp(t *testing.T) {
	var stdout bytes.Buffer

	err := run(context.Background(), []string{"--help"}, strings.NewReader(""), &stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "--no-tui")
}

func TestNewAppRegistersNamespace(t *testing.T) {
	cfg, err := loadConfig(&options{configPath: writeConfig(t)})
	require.NoError(t, err)

	app, err := newApp(cfg, &bytes.Buffer{})
	require.NoError(t, err)

	for _, path := range []string{
		"/kernel/log/print",
		"/kernel/counters/list",
		"/filesystems/fs/read",
	} {
		assert.NotNil(t, app.Registry.LookupCommand(path), path)
	}
	assert.Len(t, app.Table.Mounts(), 2)

	require.NoError(t, app.Close())
	assert.Nil(t, app.Registry.LookupCommand("/kernel/log/print"))
}
