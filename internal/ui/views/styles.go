package views

import (
	"github.com/Cyclone1070/nsh/internal/config"
	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles used by the views.
type Styles struct {
	Command   lipgloss.Style
	Output    lipgloss.Style
	Error     lipgloss.Style
	Input     lipgloss.Style
	Status    lipgloss.Style
	StatusOK  lipgloss.Style
	StatusErr lipgloss.Style
	Muted     lipgloss.Style
}

// NewStyles builds the styles from the configured colors.
func NewStyles(cfg config.UIConfig) Styles {
	primary := lipgloss.Color(cfg.ColorPrimary)
	muted := lipgloss.Color(cfg.ColorMuted)
	return Styles{
		Command:   lipgloss.NewStyle().Foreground(primary).Bold(true),
		Output:    lipgloss.NewStyle(),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.ColorError)),
		Input:     lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderTop(true).BorderForeground(muted),
		Status:    lipgloss.NewStyle().Foreground(muted),
		StatusOK:  lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.ColorSuccess)),
		StatusErr: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.ColorError)).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(muted).Faint(true),
	}
}
