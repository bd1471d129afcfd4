// Package cmd provides the CLI commands for askgpt.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wethinkt/go-askgpt/internal/install"
)

// rootCmd is the root command for the CLI.
//
// The documented surface uses multi-character single-dash flags (-wc,
// -ms, -mc, -wl) that pflag cannot express, so flag parsing is disabled
// and dispatch handles argv directly. Cobra still provides the command
// frame, help text, and the version subcommand.
var rootCmd = &cobra.Command{
	Use:   "askgpt",
	Short: "Session manager for conversations with GPT models",
	Long: `askgpt maintains named conversation sessions with a hosted GPT model.

Options:
  -l                 List all sessions.
  -c sessionname     Create a new session and switch to it.
  -s sessionname     Switch to an existing session.
  -d sessionname     Delete the specified session.
  -d                 Display the current session ([GPT]/[USER] format,
                     system messages excluded).
  -n                 Show the current session name.
  -a                 Show the current session record as JSON.
  -p                 Show the current session's past history as JSON.
  -e eofword         Use 'eofword' as the end-of-input word for this run.
  -f filename        Supply the file's content as the pending first
                     user message for interactive mode.

  -w workspace_path  Switch the workspace (sessions stored in
                     workspace_path/.askgpt/sessions).
  -wc                Clear the workspace and revert to ~/.askgpt/sessions.
  -wl                List known workspaces.

  -m modelname       Set the current session's model.
  -ms modelname      Set the global default model (~/.askgpt/model.conf).
  -mc                Clear the global default model (revert to gpt-4o).

Without options:
  askgpt             Start interactive mode. Type your question and end
                     input with the EOF word (default: EOF). Before your
                     first query, an empty line shows the history; after
                     a query has been answered, an empty line followed by
                     the EOF word exits.

Requires the OPENAI_API_KEY environment variable for model calls.`,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	RunE:               runRoot,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// stdinIsTerminal reports whether the run is interactive enough for
// prompts and styled output.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// maybeOfferInstall runs the one-time ~/bin install prompt, only on a
// real terminal.
func maybeOfferInstall() {
	if stdinIsTerminal() && stdoutIsTerminal() {
		install.MaybeOffer(os.Stdin, os.Stdout)
	}
}
