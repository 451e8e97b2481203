package models

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
)

// LineKind selects how an output line is styled.
type LineKind int

const (
	LineOutput LineKind = iota
	LineCommand
	LineError
	// LineRendered is already styled, e.g. by the markdown renderer.
	LineRendered
)

// Line is one line of the scrollback.
type Line struct {
	Kind LineKind
	Text string
}

// State holds the UI state
type State struct {
	Input    textinput.Model
	Viewport viewport.Model
	Spinner  spinner.Model

	Lines []Line

	Width  int
	Height int

	Cwd      string
	Running  string // line being executed, empty when idle
	LastCode int
	HasRun   bool

	// HistoryIndex is the position while browsing history, -1 otherwise.
	HistoryIndex int
	// Draft keeps the unsent input while browsing history.
	Draft string
}
