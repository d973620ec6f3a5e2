package render

import (
	"os"

	"github.com/diogo/codeassist/internal/config"
)

// EnvStyle overrides the configured markdown style
const EnvStyle = "GLAMOUR_STYLE"

// OptionsFromConfig builds options from a loaded config. GLAMOUR_STYLE wins
// over the config file.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()

	md := cfg.Markdown
	if md.Style != "" {
		opts.Style = md.Style
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	if cfg.CodeStyle != "" {
		opts.CodeStyle = cfg.CodeStyle
	}

	if style := os.Getenv(EnvStyle); style != "" {
		opts.Style = style
	}
	return opts
}

// LoadOptions reads the config file and returns render options with the
// given width. A missing or broken config yields the defaults.
func LoadOptions(width int) Options {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return OptionsFromConfig(cfg).WithWidth(width)
}
