package services

import (
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown for a terminal of the given width.
type MarkdownRenderer interface {
	Render(content string, width int) (string, error)
}

// GlamourRenderer renders with glamour using a standard style.
type GlamourRenderer struct {
	style string
}

// NewGlamourRenderer creates a renderer. An empty style picks one from the
// terminal background, or plain text when stdout is not a terminal.
func NewGlamourRenderer(style string) *GlamourRenderer {
	if style == "" {
		style = "auto"
	}
	return &GlamourRenderer{style: style}
}

func (g *GlamourRenderer) Render(content string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(g.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(content)
}

// RenderMarkdown renders content, falling back to a width of 80 when the
// terminal size is not known yet.
func RenderMarkdown(content string, width int, renderer MarkdownRenderer) (string, error) {
	if width <= 0 {
		width = 80
	}
	return renderer.Render(content, width)
}
