package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/diogo/codeassist/internal/config"
)

// NewLanguagesCmd creates the command listing the language presets
func NewLanguagesCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()

	return &cobra.Command{
		Use:   "languages",
		Short: "List the language presets",
		Long: `List the language presets accepted by --language and /lang.

Any other value passed to --language is sent to the model as is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "TAG\tLABEL\tDEFAULT")
			_, _ = fmt.Fprintln(w, "---\t-----\t-------")
			for _, l := range config.Languages() {
				isDefault := ""
				if l.Tag == config.NormalizeLanguage(cfg.DefaultLanguage) {
					isDefault = "✓"
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", l.Tag, l.Label, isDefault)
			}
			return w.Flush()
		},
	}
}
