package views

import (
	"strings"

	"github.com/Cyclone1070/nsh/internal/ui/models"
)

// RenderOutput renders the scrollback
func RenderOutput(s models.State, st Styles) string {
	if len(s.Lines) == 0 {
		return st.Muted.Render("Type help for a list of commands.")
	}
	return s.Viewport.View()
}

// FormatOutput styles the lines for the viewport
func FormatOutput(lines []models.Line, st Styles) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		switch l.Kind {
		case models.LineCommand:
			out[i] = st.Command.Render(l.Text)
		case models.LineError:
			out[i] = st.Error.Render(l.Text)
		case models.LineRendered:
			out[i] = l.Text
		default:
			out[i] = st.Output.Render(l.Text)
		}
	}
	return strings.Join(out, "\n")
}
