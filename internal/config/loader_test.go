package config

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFileSystem implements FileSystem for testing.
type MockFileSystem struct {
	HomeDir     string
	HomeDirErr  error
	Files       map[string][]byte
	ReadFileErr error
}

func (m *MockFileSystem) UserHomeDir() (string, error) {
	return m.HomeDir, m.HomeDirErr
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

const (
	jsoncPath = "/home/user/.config/nsh/config.jsonc"
	yamlPath  = "/home/user/.config/nsh/config.yaml"
)

func newLoader(files map[string]string) *Loader {
	fs := &MockFileSystem{HomeDir: "/home/user", Files: map[string][]byte{}}
	for path, content := range files {
		fs.Files[path] = []byte(content)
	}
	return NewLoaderWithFS(fs)
}

// --- HAPPY PATH TESTS ---

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	cfg, err := newLoader(nil).Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_JSONCWithComments_Parsed(t *testing.T) {
	configJSONC := `{
		// interactive prompt
		"shell": {"prompt": "> ", "history_size": 10,},
		/* storage */
		"mounts": [
			{"name": "/data", "kind": "log", "options": {"compression": "zstd", "max_file_size": 4096}},
		],
	}`

	cfg, err := newLoader(map[string]string{jsoncPath: configJSONC}).Load()

	require.NoError(t, err)
	assert.Equal(t, "> ", cfg.Shell.Prompt)
	assert.Equal(t, 10, cfg.Shell.HistorySize)
	require.Len(t, cfg.Mounts, 1)
	assert.Equal(t, "/data", cfg.Mounts[0].Name)
	assert.Equal(t, "zstd", cfg.Mounts[0].Options["compression"])
	assert.Equal(t, float64(4096), cfg.Mounts[0].Options["max_file_size"])
}

func TestLoad_YAMLFallback_Parsed(t *testing.T) {
	configYAML := `
shell:
  prompt: "$ "
log:
  level: debug
mounts:
  - name: /tmp
    kind: block
    options:
      root: /var/tmp/nsh
`

	cfg, err := newLoader(map[string]string{yamlPath: configYAML}).Load()

	require.NoError(t, err)
	assert.Equal(t, "$ ", cfg.Shell.Prompt)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 100, cfg.Shell.HistorySize) // Default preserved
	require.Len(t, cfg.Mounts, 1)
	assert.Equal(t, "/var/tmp/nsh", cfg.Mounts[0].Options["root"])
}

func TestLoad_JSONCPreferredOverYAML(t *testing.T) {
	cfg, err := newLoader(map[string]string{
		jsoncPath: `{"shell": {"prompt": "jsonc"}}`,
		yamlPath:  "shell:\n  prompt: yaml\n",
	}).Load()

	require.NoError(t, err)
	assert.Equal(t, "jsonc", cfg.Shell.Prompt)
}

func TestLoad_PartialOverride_MergesWithDefaults(t *testing.T) {
	cfg, err := newLoader(map[string]string{jsoncPath: `{"ui": {"color_primary": "255"}}`}).Load()

	require.NoError(t, err)
	assert.Equal(t, "255", cfg.UI.ColorPrimary) // Overridden
	assert.Equal(t, "42", cfg.UI.ColorSuccess)  // Default preserved
	assert.Len(t, cfg.Mounts, 2)                // Default list
}

func TestLoad_EmptyMountsArray_ReplacesDefault(t *testing.T) {
	cfg, err := newLoader(map[string]string{jsoncPath: `{"mounts": []}`}).Load()

	require.NoError(t, err)
	assert.Empty(t, cfg.Mounts)
}

func TestLoadFile_ExtensionSelectsFormat(t *testing.T) {
	loader := newLoader(map[string]string{
		"/etc/nsh.yml":  "log:\n  format: json\n",
		"/etc/nsh.json": `{"log": {"format": "text"}}`,
	})

	cfg, err := loader.LoadFile("/etc/nsh.yml")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)

	cfg, err = loader.LoadFile("/etc/nsh.json")
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Log.Format)

	_, err = loader.LoadFile("/etc/missing.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// --- UNHAPPY PATH TESTS ---

func TestLoad_MalformedJSON_ReturnsError(t *testing.T) {
	cfg, err := newLoader(map[string]string{jsoncPath: `{invalid json`}).Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid")
}

func TestLoad_MalformedYAML_ReturnsError(t *testing.T) {
	cfg, err := newLoader(map[string]string{yamlPath: "shell: [unclosed"}).Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PermissionDenied_ReturnsError(t *testing.T) {
	fs := &MockFileSystem{
		HomeDir:     "/home/user",
		ReadFileErr: os.ErrPermission,
	}

	cfg, err := NewLoaderWithFS(fs).Load()

	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestLoad_HomeDirError_ReturnsDefaults(t *testing.T) {
	fs := &MockFileSystem{HomeDirErr: errors.New("homeless")}

	cfg, err := NewLoaderWithFS(fs).Load()

	require.NoError(t, err)
	assert.Equal(t, "nsh> ", cfg.Shell.Prompt)
}

func TestLoad_WrongJSONType_ReturnsError(t *testing.T) {
	cfg, err := newLoader(map[string]string{jsoncPath: `["not", "an", "object"]`}).Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidValues_FailValidation(t *testing.T) {
	cfg, err := newLoader(map[string]string{jsoncPath: `{"shell": {"history_size": 0}}`}).Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history_size")
}

// --- EDGE CASE TESTS ---

func TestLoad_EmptyPrompt_Overrides(t *testing.T) {
	// Explicit empty string replaces the default prompt
	cfg, err := newLoader(map[string]string{jsoncPath: `{"shell": {"prompt": ""}}`}).Load()

	require.NoError(t, err)
	assert.Equal(t, "", cfg.Shell.Prompt)
}
