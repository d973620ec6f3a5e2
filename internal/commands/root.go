// Package commands provides CLI commands for codeassist.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/diogo/codeassist/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalOptions holds the persistent flags
type globalOptions struct {
	model string
	debug bool
}

// askOptions holds the one-shot flags
type askOptions struct {
	output   string
	file     string
	language string
}

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	global := &globalOptions{}
	ask := &askOptions{}

	cmd := &cobra.Command{
		Use:   "codeassist [prompt]",
		Short: "AI coding assistant for the terminal",
		Long: `codeassist sends your code and questions to a hosted LLM and shows the
answer with code blocks highlighted and ready to copy.

The API key is read from CODEASSIST_API_KEY, GROQ_API_KEY or the config file.

Examples:
  codeassist chat                          Start interactive chat
  codeassist chat -l python                Chat about Python
  codeassist config                        Configure settings
  codeassist "Why is my map nil?" -l go    Ask a single question
  codeassist -f error.txt                  Read the prompt from a file
  cat main.js | codeassist                 Read the prompt from stdin
  codeassist "Write a CSV parser" -o out.md`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "codeassist %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if ask.file != "" {
				data, err := os.ReadFile(ask.file)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return runQuery(cmd.Context(), deps, global, ask, string(data))
			}

			if len(args) > 0 {
				return runQuery(cmd.Context(), deps, global, ask, args[0])
			}

			if deps.StdinIsPipe() {
				data, err := io.ReadAll(deps.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				return runQuery(cmd.Context(), deps, global, ask, string(data))
			}

			// No input - show help
			return cmd.Help()
		},
	}

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().StringVarP(&global.model, "model", "m", "", "Model to use (e.g., llama-3.3-70b-versatile)")
	cmd.PersistentFlags().BoolVar(&global.debug, "debug", false, "Write debug records to the log file")
	cmd.Flags().StringVarP(&ask.output, "output", "o", "", "Save response to file")
	cmd.Flags().StringVarP(&ask.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().StringVarP(&ask.language, "language", "l", "", "Language the assistant specializes in")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps, global))
	cmd.AddCommand(NewConfigCmd(deps))
	cmd.AddCommand(NewLanguagesCmd(deps))

	return cmd
}

var rootCmd = NewRootCmd(NewDependencies())

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, tui.FormatError(err))
		stop()
		os.Exit(1)
	}
}
