package render

import (
	"strings"

	"github.com/diogo/codeassist/internal/chat"
)

// Message renders a message body. Prose goes through glamour and code
// blocks are framed and numbered from firstIndex. It returns the output and
// the next unused index so callers can number blocks across a transcript.
// Prose that fails to render is emitted raw.
func Message(content string, opts Options, firstIndex int) (string, int) {
	var parts []string
	next := firstIndex

	for _, seg := range chat.Split(content) {
		if seg.IsCode() {
			parts = append(parts, CodeBlock(seg.Label(), seg.Text, next, opts))
			next++
			continue
		}

		if strings.TrimSpace(seg.Text) == "" {
			continue
		}
		out, err := Markdown(seg.Text, opts)
		if err != nil {
			out = seg.Text
		}
		parts = append(parts, strings.Trim(out, "\n"))
	}

	return strings.Join(parts, "\n"), next
}
