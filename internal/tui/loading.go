package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	loadingFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	// Loading bar colors, independent of the theme
	gradientColors = []lipgloss.Color{
		lipgloss.Color("#ff6b6b"),
		lipgloss.Color("#feca57"),
		lipgloss.Color("#48dbfb"),
		lipgloss.Color("#ff9ff3"),
		lipgloss.Color("#54a0ff"),
		lipgloss.Color("#5f27cd"),
		lipgloss.Color("#00d2d3"),
		lipgloss.Color("#1dd1a1"),
	}
)

// LoadingFrame renders one frame of the waiting indicator: a spinner glyph,
// a gradient bar and the message followed by up to three dots. Both the chat
// view and the one-shot command draw it, so they animate alike.
func LoadingFrame(frame int, message string) string {
	if frame < 0 {
		frame = 0
	}

	spin := lipgloss.NewStyle().
		Foreground(gradientColors[frame%len(gradientColors)]).
		Bold(true).
		Render(loadingFrames[frame%len(loadingFrames)])

	var bar strings.Builder
	for i := 0; i < 16; i++ {
		c := gradientColors[(i+frame)%len(gradientColors)]
		bar.WriteString(lipgloss.NewStyle().Foreground(c).Render("▰"))
	}

	dots := strings.Repeat(".", (frame/4)%4)
	text := lipgloss.NewStyle().Foreground(colorText).Render(" " + message + dots)

	return spin + " " + bar.String() + text
}
