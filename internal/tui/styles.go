// Package tui provides the terminal user interface for codeassist.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/diogo/codeassist/internal/errors"
	"github.com/diogo/codeassist/internal/render"
)

// Palette, refreshed by UpdateTheme
var (
	colorBorder    lipgloss.Color
	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorAccent    lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color
	colorText      lipgloss.Color
	colorTextDim   lipgloss.Color
	colorTextMute  lipgloss.Color
)

// Styles, rebuilt by UpdateTheme
var (
	headerStyle   lipgloss.Style
	titleStyle    lipgloss.Style
	subtitleStyle lipgloss.Style
	hintStyle     lipgloss.Style

	messagesAreaStyle    lipgloss.Style
	userLabelStyle       lipgloss.Style
	userBubbleStyle      lipgloss.Style
	assistantLabelStyle  lipgloss.Style
	assistantBubbleStyle lipgloss.Style

	inputPanelStyle lipgloss.Style
	inputLabelStyle lipgloss.Style
	loadingStyle    lipgloss.Style

	noticeStyle      lipgloss.Style
	noticeErrorStyle lipgloss.Style
	errorStyle       lipgloss.Style

	statusBarStyle  lipgloss.Style
	statusKeyStyle  lipgloss.Style
	statusDescStyle lipgloss.Style

	pickerBoxStyle     lipgloss.Style
	menuTitleStyle     lipgloss.Style
	menuPanelStyle     lipgloss.Style
	menuSectionStyle   lipgloss.Style
	menuItemStyle      lipgloss.Style
	menuSelectedStyle  lipgloss.Style
	menuCursorStyle    lipgloss.Style
	menuValueStyle     lipgloss.Style
	menuEnabledStyle   lipgloss.Style
	menuDisabledStyle  lipgloss.Style
	menuPathStyle      lipgloss.Style
	menuCurrentStyle   lipgloss.Style
	menuFeedbackStyle  lipgloss.Style
	menuStatusBarStyle lipgloss.Style
)

func init() {
	UpdateTheme()
}

// UpdateTheme reloads the palette from render.GetTUITheme and rebuilds styles
func UpdateTheme() {
	theme := render.GetTUITheme()

	colorBorder = theme.Border
	colorPrimary = theme.Primary
	colorSecondary = theme.Secondary
	colorAccent = theme.Accent
	colorWarning = theme.Warning
	colorError = theme.Error
	colorText = theme.Text
	colorTextDim = theme.TextDim
	colorTextMute = theme.TextMute

	rebuildStyles()
}

func rebuildStyles() {
	rounded := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(c)
	}

	headerStyle = rounded(colorBorder).Padding(0, 2)
	titleStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	hintStyle = lipgloss.NewStyle().Foreground(colorTextMute).Italic(true)

	messagesAreaStyle = rounded(colorBorder).Padding(0, 1)
	userLabelStyle = lipgloss.NewStyle().Foreground(colorSecondary).Bold(true).MarginLeft(4)
	userBubbleStyle = rounded(colorSecondary).Padding(0, 1).MarginLeft(4)
	assistantLabelStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	assistantBubbleStyle = rounded(colorPrimary).Foreground(colorText).Padding(0, 1).MarginRight(4)

	inputPanelStyle = rounded(colorBorder).Padding(0, 1)
	inputLabelStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).MarginRight(1)
	loadingStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	noticeStyle = lipgloss.NewStyle().Foreground(colorSecondary).Bold(true)
	noticeErrorStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	statusBarStyle = lipgloss.NewStyle().Foreground(colorTextMute)
	statusKeyStyle = lipgloss.NewStyle().Foreground(colorTextDim).Bold(true)
	statusDescStyle = lipgloss.NewStyle().Foreground(colorTextMute)

	pickerBoxStyle = rounded(colorPrimary).Padding(1, 2)
	menuTitleStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).MarginBottom(1)
	menuPanelStyle = rounded(colorBorder).Padding(1, 2)
	menuSectionStyle = lipgloss.NewStyle().Foreground(colorSecondary).Bold(true)
	menuItemStyle = lipgloss.NewStyle().Foreground(colorText)
	menuSelectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	menuCursorStyle = lipgloss.NewStyle().Foreground(colorAccent)
	menuValueStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	menuEnabledStyle = lipgloss.NewStyle().Foreground(colorSecondary)
	menuDisabledStyle = lipgloss.NewStyle().Foreground(colorError)
	menuPathStyle = lipgloss.NewStyle().Foreground(colorTextMute).Italic(true)
	menuCurrentStyle = lipgloss.NewStyle().Foreground(colorSecondary)
	menuFeedbackStyle = lipgloss.NewStyle().Foreground(colorTextDim).Italic(true).MarginTop(1)
	menuStatusBarStyle = lipgloss.NewStyle().Foreground(colorTextMute).MarginTop(1).Align(lipgloss.Center)
}

// shortcut is one entry of a status bar
type shortcut struct {
	key  string
	desc string
}

func renderShortcuts(items []shortcut) string {
	parts := make([]string, 0, len(items))
	for _, s := range items {
		parts = append(parts, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	return strings.Join(parts, statusDescStyle.Render("  │  "))
}

// FormatError returns a styled error with whatever context the error carries.
// It is for failures outside a conversation, such as a broken config file.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	dim := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dim.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dim.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case apierrors.IsMissingAPIKey(err):
		sb.WriteString(dim.Render("\n  Hint: export GROQ_API_KEY or run 'codeassist config set api_key <key>'"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dim.Render("\n  Hint: check your internet connection and try again"))
	}

	return sb.String()
}
