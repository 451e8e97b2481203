package ui

import (
	"context"

	"github.com/Cyclone1070/nsh/internal/config"
	"github.com/Cyclone1070/nsh/internal/ui/services"
	tea "github.com/charmbracelet/bubbletea"
)

// UI runs a shell session in a full-screen Bubble Tea program.
type UI struct {
	program *tea.Program
}

// NewUI creates a new Bubble Tea UI. Options are passed to tea.NewProgram
// after tea.WithAltScreen.
func NewUI(
	ctx context.Context,
	sh Shell,
	cfg *config.Config,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
	opts ...tea.ProgramOption,
) *UI {
	if sh == nil {
		panic("sh is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	model := newBubbleTeaModel(ctx, sh, cfg, renderer, spinnerFactory)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	return &UI{program: tea.NewProgram(model, opts...)}
}

// Start runs the program until the user quits or the context is cancelled.
func (u *UI) Start() error {
	_, err := u.program.Run()
	return err
}
