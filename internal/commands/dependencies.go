package commands

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/diogo/codeassist/internal/chat"
	"github.com/diogo/codeassist/internal/render"
	"github.com/diogo/codeassist/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, ctrl *chat.Controller, modelName string, opts render.Options) error
	RunConfig() error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// Completer replaces the HTTP completion client when set.
	Completer chat.Completer

	// Clipboard replaces the system clipboard when set.
	Clipboard chat.Clipboard

	// TUI is the terminal user interface.
	TUI TUIInterface

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinIsPipe reports whether a prompt is being piped in.
	StdinIsPipe func() bool
	// StdoutIsTTY decides between rendered and raw one-shot output.
	StdoutIsTTY func() bool
	// TerminalWidth returns the width used for rendered output.
	TerminalWidth func() int
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, ctrl *chat.Controller, modelName string, opts render.Options) error {
	return tui.RunChat(ctx, ctrl, modelName, opts)
}

func (d *DefaultTUI) RunConfig() error {
	return tui.RunConfig()
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		TUI:           &DefaultTUI{},
		Stdin:         os.Stdin,
		Stdout:        os.Stdout,
		Stderr:        os.Stderr,
		StdinIsPipe:   stdinIsPipe,
		StdoutIsTTY:   isStdoutTTY,
		TerminalWidth: getTerminalWidth,
	}
}

// withDefaults fills the fields a test left unset
func (d *Dependencies) withDefaults() *Dependencies {
	if d == nil {
		return NewDependencies()
	}
	def := NewDependencies()
	out := *d
	if out.TUI == nil {
		out.TUI = def.TUI
	}
	if out.Stdin == nil {
		out.Stdin = def.Stdin
	}
	if out.Stdout == nil {
		out.Stdout = def.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = def.Stderr
	}
	if out.StdinIsPipe == nil {
		out.StdinIsPipe = def.StdinIsPipe
	}
	if out.StdoutIsTTY == nil {
		out.StdoutIsTTY = def.StdoutIsTTY
	}
	if out.TerminalWidth == nil {
		out.TerminalWidth = def.TerminalWidth
	}
	return &out
}

func stdinIsPipe() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
