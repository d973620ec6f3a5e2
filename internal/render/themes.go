package render

import "strings"

// Markdown style names understood by glamour
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleDracula    = "dracula"
	StyleTokyoNight = "tokyo-night"
	StylePink       = "pink"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
)

// StyleInfo describes a markdown style for the config menu
type StyleInfo struct {
	Name        string
	Description string
}

// styleAliases maps TUI theme names onto the closest markdown style
var styleAliases = map[string]string{
	"tokyonight": StyleTokyoNight,
	"catppuccin": StyleDark,
	"nord":       StyleDark,
}

// AvailableStyles lists the markdown styles offered for selection
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark terminals (default)"},
		{Name: StyleLight, Description: "Light terminals"},
		{Name: StyleTokyoNight, Description: "Tokyo Night colors"},
		{Name: StyleDracula, Description: "Dracula colors"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleNoTTY, Description: "Plain text, no colors"},
		{Name: StyleASCII, Description: "ASCII only"},
	}
}

// StyleNames returns the names from AvailableStyles
func StyleNames() []string {
	styles := AvailableStyles()
	names := make([]string, 0, len(styles))
	for _, s := range styles {
		names = append(names, s.Name)
	}
	return names
}

// NormalizeStyle resolves aliases. Unknown names, including paths to JSON
// style files, are returned unchanged.
func NormalizeStyle(style string) string {
	style = strings.TrimSpace(style)
	if style == "" {
		return StyleDark
	}
	if alias, ok := styleAliases[strings.ToLower(style)]; ok {
		return alias
	}
	return style
}

// IsBuiltinStyle reports whether style (after aliasing) is bundled with glamour
func IsBuiltinStyle(style string) bool {
	style = NormalizeStyle(style)
	for _, s := range AvailableStyles() {
		if s.Name == style {
			return true
		}
	}
	return false
}
