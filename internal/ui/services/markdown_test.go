package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widthRecorder struct{ width int }

func (w *widthRecorder) Render(content string, width int) (string, error) {
	w.width = width
	return content, nil
}

func TestRenderMarkdownDefaultsWidth(t *testing.T) {
	r := &widthRecorder{}

	_, err := RenderMarkdown("# x", 0, r)

	require.NoError(t, err)
	assert.Equal(t, 80, r.width)
}

func TestGlamourRendererPlainStyle(t *testing.T) {
	r := NewGlamourRenderer("notty")

	out, err := r.Render("# Title\n\n- `/kernel/log/print`\n", 60)

	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "/kernel/log/print")
}

func TestGlamourRendererUnknownStyle(t *testing.T) {
	_, err := NewGlamourRenderer("no-such-style").Render("x", 40)

	assert.Error(t, err)
}
