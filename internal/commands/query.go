package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/codeassist/internal/chat"
	"github.com/diogo/codeassist/internal/config"
	"github.com/diogo/codeassist/internal/render"
	"github.com/diogo/codeassist/internal/tui"
)

var (
	colorText    = lipgloss.Color("#c0caf5")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorWarning = lipgloss.Color("#f7768e")
	colorPrimary = lipgloss.Color("#7aa2f7")
)

var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
)

// spinner redraws tui.LoadingFrame on one terminal line until halted
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprint(s.out, hideCursor)
		for frame := 0; ; frame++ {
			select {
			case <-s.stop:
				fmt.Fprint(s.out, clearLine+showCursor)
				return
			case <-ticker.C:
				fmt.Fprint(s.out, clearLine+tui.LoadingFrame(frame, s.message))
			}
		}
	}()
}

// halt stops the animation and waits for the line to be cleared.
// It is safe to call more than once.
func (s *spinner) halt() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}

func (s *spinner) stopWithSuccess(message string) {
	s.halt()
	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	fmt.Fprintf(s.out, "%s %s\n", checkmark, successStyle.Render(message))
}

func (s *spinner) stopWithError() {
	s.halt()
}

const (
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
	clearLine  = "\r\033[K"
)

// runQuery submits a single prompt and prints the assistant reply.
// A failed completion is printed like any other reply and is not an error:
// the reply already carries the error text.
func runQuery(ctx context.Context, deps *Dependencies, global *globalOptions, opts *askOptions, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	s, err := newSession(ctx, deps, global, opts.language)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	cfg := s.cfg
	rawOutput := !deps.StdoutIsTTY()
	verbose := cfg.Verbose && !rawOutput

	if verbose {
		fmt.Fprintf(deps.Stderr, "[verbose] Model: %s\n", cfg.Model)
		fmt.Fprintf(deps.Stderr, "[verbose] Language: %s\n", config.LanguageLabel(s.ctrl.Language()))
	}

	var spin *spinner
	if !rawOutput {
		spin = newSpinner(deps.Stderr, "Generating response")
		spin.start()
	}

	startTime := time.Now()
	s.ctrl.Submit(ctx, prompt)
	requestDuration := time.Since(startTime)

	callErr := s.completer.lastErr
	if spin != nil {
		if callErr != nil {
			spin.stopWithError()
		} else {
			spin.stopWithSuccess("Done")
		}
	}

	if verbose {
		fmt.Fprintf(deps.Stderr, "[verbose] Request took %s\n", requestDuration.Round(time.Millisecond))
		if callErr != nil {
			fmt.Fprintln(deps.Stderr, tui.FormatError(callErr))
		}
	}
	s.logger.Info("one-shot query finished",
		"duration", requestDuration,
		"failed", callErr != nil,
	)

	reply := s.ctrl.Last().Content

	if callErr == nil && cfg.CopyToClipboard {
		copyReply(s.ctrl, deps, reply, rawOutput)
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(reply), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !rawOutput {
			fmt.Fprintln(deps.Stderr, successStyle.Render(fmt.Sprintf("✓ Response saved to %s", opts.output)))
		}
		return nil
	}

	if rawOutput {
		fmt.Fprint(deps.Stdout, reply)
		if !strings.HasSuffix(reply, "\n") {
			fmt.Fprintln(deps.Stdout)
		}
		return nil
	}

	fmt.Fprintln(deps.Stdout, renderReply(reply, cfg, deps.TerminalWidth()))
	return nil
}

// copyReply copies the reply's last code block, or the whole reply when it
// has none
func copyReply(ctrl *chat.Controller, deps *Dependencies, reply string, quiet bool) {
	text := reply
	label := "reply"
	if blocks := chat.ExtractCodeBlocks([]chat.Message{ctrl.Last()}); len(blocks) > 0 {
		last := blocks[len(blocks)-1]
		text = last.Code
		label = last.Lang + " code block"
	}

	if _, err := ctrl.Copy(text); err != nil {
		fmt.Fprintln(deps.Stderr, warningStyle.Render(fmt.Sprintf("⚠ %v", err)))
		return
	}
	if !quiet {
		fmt.Fprintln(deps.Stderr, successStyle.Render(fmt.Sprintf("✓ Copied %s to clipboard", label)))
	}
}

// renderReply draws the reply the way the chat shows it: a labeled bubble
// with prose through glamour and numbered code blocks
func renderReply(reply string, cfg config.Config, termWidth int) string {
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	opts := render.OptionsFromConfig(cfg).WithWidth(contentWidth)
	body, _ := render.Message(reply, opts, 1)

	label := assistantLabelStyle.Render("</> Assistant")
	return label + "\n" + assistantBubbleStyle.Width(bubbleWidth).Render(body)
}
