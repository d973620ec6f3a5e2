// Package render turns assistant replies into terminal output: markdown
// prose through glamour and fenced code through chroma.
package render

// Options configures rendering
type Options struct {
	// Width is the wrap width for prose and the frame width for code
	Width int

	// Style is a glamour style name or a path to a JSON style file
	Style string

	// CodeStyle is the chroma style used for code blocks
	CodeStyle string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the defaults used when no config is present
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleDark,
		CodeStyle:        DefaultCodeStyle,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns a copy with the given width
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns a copy with the given markdown style
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithCodeStyle returns a copy with the given chroma style
func (o Options) WithCodeStyle(style string) Options {
	o.CodeStyle = style
	return o
}

// WithEmoji returns a copy with emoji conversion toggled
func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}

// WithPreserveNewLines returns a copy with newline preservation toggled
func (o Options) WithPreserveNewLines(enabled bool) Options {
	o.PreserveNewLines = enabled
	return o
}

// WithTableWrap returns a copy with table cell wrapping toggled
func (o Options) WithTableWrap(enabled bool) Options {
	o.TableWrap = enabled
	return o
}

// WithInlineTableLinks returns a copy with inline table links toggled
func (o Options) WithInlineTableLinks(enabled bool) Options {
	o.InlineTableLinks = enabled
	return o
}
