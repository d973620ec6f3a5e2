package render

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// DefaultCodeStyle is the chroma style used when none is configured
const DefaultCodeStyle = "monokai"

// minCodeWidth keeps the frame usable on very narrow terminals
const minCodeWidth = 20

// Highlight colors code for a 256-color terminal. The lexer is picked by
// tag, then by content analysis. On any failure the code comes back as is.
func Highlight(code, lang, style string) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var b strings.Builder
	if err := formatter.Format(&b, s, it); err != nil {
		return code
	}
	return b.String()
}

// CodeStyleNames lists the chroma styles available for code blocks
func CodeStyleNames() []string {
	return styles.Names()
}

// CodeBlock renders a framed code block with the language label on the left
// and the copy index on the right of the header. An index below 1 omits it.
func CodeBlock(label, code string, index int, opts Options) string {
	theme := GetTUITheme()

	width := opts.Width - 2
	if width < minCodeWidth {
		width = minCodeWidth
	}

	labelStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	left := labelStyle.Render(label)
	header := left
	if index > 0 {
		right := hintStyle.Render(fmt.Sprintf("[%d] copy", index))
		gap := width - 4 - lipgloss.Width(left) - lipgloss.Width(right)
		if gap < 1 {
			gap = 1
		}
		header = left + strings.Repeat(" ", gap) + right
	}

	style := opts.CodeStyle
	if style == "" {
		style = DefaultCodeStyle
	}
	body := Highlight(strings.TrimRight(code, "\n"), label, style)
	if NormalizeStyle(opts.Style) == StyleNoTTY || NormalizeStyle(opts.Style) == StyleASCII {
		body = strings.TrimRight(code, "\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1).
		Width(width).
		Render(header + "\n" + body)
}
