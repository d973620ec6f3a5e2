package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/codeassist/internal/render"
	"github.com/diogo/codeassist/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, global *globalOptions) *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

Each message is answered on its own; earlier messages are not sent along.
Type /lang to pick a language, /copy to copy a code block, /clear to start
over, and 'exit', 'quit', Esc or Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps.withDefaults(), global, language)
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "Language the assistant specializes in")
	return cmd
}

func runChat(cmd *cobra.Command, deps *Dependencies, global *globalOptions, language string) error {
	ctx := cmd.Context()

	s, err := newSession(ctx, deps, global, language)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	if s.cfg.TUITheme != "" && render.SetTUITheme(s.cfg.TUITheme) {
		tui.UpdateTheme()
	}

	return deps.TUI.RunChat(ctx, s.ctrl, s.cfg.Model, render.OptionsFromConfig(s.cfg))
}
