package views

import (
	"testing"

	"github.com/Cyclone1070/nsh/internal/config"
	"github.com/Cyclone1070/nsh/internal/ui/models"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/stretchr/testify/assert"
)

func testStyles() Styles {
	return NewStyles(config.DefaultConfig().UI)
}

func TestRenderOutput_Empty(t *testing.T) {
	result := RenderOutput(models.State{}, testStyles())

	assert.Contains(t, result, "help")
}

func TestRenderOutput_ShowsViewport(t *testing.T) {
	vp := viewport.New(40, 5)
	vp.SetContent("hello")
	state := models.State{Lines: []models.Line{{Text: "hello"}}, Viewport: vp}

	assert.Contains(t, RenderOutput(state, testStyles()), "hello")
}

func TestFormatOutput(t *testing.T) {
	lines := []models.Line{
		{Kind: models.LineCommand, Text: "nsh> pwd"},
		{Kind: models.LineOutput, Text: "/"},
		{Kind: models.LineError, Text: "x: command not found"},
		{Kind: models.LineRendered, Text: "as is"},
	}

	result := FormatOutput(lines, testStyles())

	assert.Contains(t, result, "nsh> pwd")
	assert.Contains(t, result, "command not found")
	assert.Contains(t, result, "as is")
}

func TestRenderStatus(t *testing.T) {
	st := testStyles()

	tests := []struct {
		name  string
		state models.State
		want  string
	}{
		{"idle", models.State{Cwd: "/tmp"}, "ready"},
		{"ok", models.State{Cwd: "/", HasRun: true}, "✔ 0"},
		{"failed", models.State{Cwd: "/", HasRun: true, LastCode: -2}, "✘ -2"},
		{"running", models.State{Cwd: "/", Running: "/filesystems/fs/read x"}, "/filesystems/fs/read x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RenderStatus(tt.state, st)
			assert.Contains(t, result, tt.want)
			assert.Contains(t, result, tt.state.Cwd)
		})
	}
}

func TestRenderRoot(t *testing.T) {
	result := RenderRoot(models.State{Cwd: "/kernel", Input: textinput.New()}, testStyles())

	assert.Contains(t, result, "/kernel")
	assert.Contains(t, result, "ready")
}
