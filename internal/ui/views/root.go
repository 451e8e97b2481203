package views

import (
	"github.com/Cyclone1070/nsh/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderRoot renders the complete UI layout
func RenderRoot(s models.State, st Styles) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderOutput(s, st),
		RenderInput(s, st),
		RenderStatus(s, st),
	)
}
