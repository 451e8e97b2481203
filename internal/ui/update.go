package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Cyclone1070/nsh/internal/channel"
	"github.com/Cyclone1070/nsh/internal/config"
	"github.com/Cyclone1070/nsh/internal/shell"
	"github.com/Cyclone1070/nsh/internal/ui/models"
	"github.com/Cyclone1070/nsh/internal/ui/services"
	"github.com/Cyclone1070/nsh/internal/ui/views"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// BubbleTeaModel implements tea.Model
type BubbleTeaModel struct {
	state models.State

	// Dependencies
	ctx      context.Context
	shell    Shell
	renderer services.MarkdownRenderer
	styles   views.Styles
	maxLines int
}

// SpinnerFactory creates a new spinner
type SpinnerFactory func() spinner.Model

// newBubbleTeaModel creates a new Bubble Tea model
func newBubbleTeaModel(
	ctx context.Context,
	sh Shell,
	cfg *config.Config,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
) BubbleTeaModel {
	ti := textinput.New()
	ti.Prompt = sh.Prompt()
	ti.Focus()

	sp := spinnerFactory()
	sp.Spinner.FPS = time.Duration(cfg.UI.TickIntervalMs) * time.Millisecond

	return BubbleTeaModel{
		state: models.State{
			Input:        ti,
			Viewport:     viewport.New(80, 20),
			Spinner:      sp,
			Cwd:          sh.Cwd(),
			HistoryIndex: -1,
		},
		ctx:      ctx,
		shell:    sh,
		renderer: renderer,
		styles:   views.NewStyles(cfg.UI),
		maxLines: cfg.UI.MaxOutputLines,
	}
}

// resultMsg carries the outcome of one executed line.
type resultMsg struct {
	output   string
	code     int
	err      error
	markdown bool
}

// Init initializes the model
func (m BubbleTeaModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.state.Spinner.Tick)
}

// Update handles messages
func (m BubbleTeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.state.Viewport.Width = msg.Width
		m.state.Viewport.Height = max(msg.Height-3, 1) // input, its border and status
		m.state.Input.Width = max(msg.Width-len(m.state.Input.Prompt)-1, 1)
		m.updateViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd

	case resultMsg:
		return m.handleResult(msg)
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

// View renders the UI
func (m BubbleTeaModel) View() string {
	return views.RenderRoot(m.state, m.styles)
}

// handleKeyPress handles keyboard input
func (m BubbleTeaModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "ctrl+d":
		return m, tea.Quit
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.state.Viewport, cmd = m.state.Viewport.Update(msg)
		return m, cmd
	}

	// Keys below edit or submit the input, which waits while a line runs.
	if m.state.Running != "" {
		return m, nil
	}

	switch msg.String() {
	case "enter":
		return m.submit()
	case "tab":
		m.complete()
		return m, nil
	case "up":
		m.browseHistory(-1)
		return m, nil
	case "down":
		m.browseHistory(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

// submit echoes the input line and runs it in the background.
func (m BubbleTeaModel) submit() (tea.Model, tea.Cmd) {
	line := m.state.Input.Value()
	m.state.Input.SetValue("")
	m.state.HistoryIndex = -1
	m.state.Draft = ""
	m.appendLines(models.LineCommand, m.state.Input.Prompt+line)
	m.updateViewport()

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return m, nil
	}
	m.state.Running = trimmed

	ctx, sh := m.ctx, m.shell
	markdown := trimmed == "help"
	return m, func() tea.Msg {
		var out bytes.Buffer
		code, err := sh.Execute(ctx, line, channel.Null, &out)
		return resultMsg{output: out.String(), code: code, err: err, markdown: markdown}
	}
}

func (m BubbleTeaModel) handleResult(msg resultMsg) (tea.Model, tea.Cmd) {
	m.state.Running = ""
	m.state.HasRun = true
	m.state.LastCode = msg.code
	m.state.Cwd = m.shell.Cwd()
	m.state.Input.Prompt = m.shell.Prompt()

	if errors.Is(msg.err, shell.ErrExit) {
		return m, tea.Quit
	}

	output := strings.TrimRight(msg.output, "\n")
	switch {
	case output == "":
	case msg.markdown:
		rendered, err := services.RenderMarkdown(msg.output, m.state.Width, m.renderer)
		if err != nil {
			m.appendLines(models.LineOutput, output)
		} else {
			m.appendLines(models.LineRendered, strings.TrimRight(rendered, "\n"))
		}
	case msg.code < 0:
		m.appendLines(models.LineError, output)
	default:
		m.appendLines(models.LineOutput, output)
	}
	m.updateViewport()
	return m, nil
}

// complete runs auto-completion on the last word of the input.
func (m *BubbleTeaModel) complete() {
	value := m.state.Input.Value()
	head, last := "", value
	if i := strings.LastIndexByte(value, ' '); i >= 0 {
		head, last = value[:i+1], value[i+1:]
	}
	completed, n := m.shell.AutoComplete(last)
	if n == 0 {
		return
	}
	m.state.Input.SetValue(head + completed)
	m.state.Input.CursorEnd()
}

// browseHistory moves through the shell history; delta -1 is older.
func (m *BubbleTeaModel) browseHistory(delta int) {
	history := m.shell.History()
	if len(history) == 0 {
		return
	}

	idx := m.state.HistoryIndex
	switch {
	case idx == -1 && delta < 0:
		m.state.Draft = m.state.Input.Value()
		idx = len(history) - 1
	case idx == -1:
		return
	default:
		idx += delta
	}

	switch {
	case idx < 0:
		idx = 0
	case idx >= len(history):
		m.state.HistoryIndex = -1
		m.state.Input.SetValue(m.state.Draft)
		m.state.Input.CursorEnd()
		return
	}
	m.state.HistoryIndex = idx
	m.state.Input.SetValue(history[idx])
	m.state.Input.CursorEnd()
}

// appendLines adds text split into lines, keeping at most maxLines.
func (m *BubbleTeaModel) appendLines(kind models.LineKind, text string) {
	for _, l := range strings.Split(text, "\n") {
		m.state.Lines = append(m.state.Lines, models.Line{Kind: kind, Text: l})
	}
	if over := len(m.state.Lines) - m.maxLines; m.maxLines > 0 && over > 0 {
		m.state.Lines = m.state.Lines[over:]
	}
}

// updateViewport updates the viewport content
func (m *BubbleTeaModel) updateViewport() {
	m.state.Viewport.SetContent(views.FormatOutput(m.state.Lines, m.styles))
	m.state.Viewport.GotoBottom()
}
