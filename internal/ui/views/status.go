package views

import (
	"fmt"
	"strings"

	"github.com/Cyclone1070/nsh/internal/ui/models"
	"github.com/charmbracelet/lipgloss"
)

// RenderStatus renders the status bar: cwd on the left, the running command
// or the last result code on the right.
func RenderStatus(s models.State, st Styles) string {
	left := st.Status.Render(s.Cwd)

	var right string
	switch {
	case s.Running != "":
		right = st.Status.Render(fmt.Sprintf("%s %s", s.Spinner.View(), s.Running))
	case !s.HasRun:
		right = st.Status.Render("ready")
	case s.LastCode == 0:
		right = st.StatusOK.Render("✔ 0")
	default:
		right = st.StatusErr.Render(fmt.Sprintf("✘ %d", s.LastCode))
	}

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}
