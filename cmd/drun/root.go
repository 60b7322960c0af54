// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the values of the root command's flags.
type rootOptions struct {
	file    string
	cfgFile string
	verbose bool
}

// newRootCommand builds the drun command. Each call returns an independent
// command so tests can run it repeatedly.
func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "drun [flags] <script> [args...]",
		Short: "A script runner for Deno projects",
		Long: TitleStyle.Render("drun") + SubtitleStyle.Render(" - A script runner for Deno projects") + `

drun reads named scripts from a declaration file (scripts.cue, scripts.yaml,
scripts.json or scripts.toml) in the working directory and runs them with
the permissions, environment and arguments declared there. Scripts with
'watch' enabled are re-run whenever their files change.

Every argument after the script name is passed through to the script.

` + SubtitleStyle.Render("Examples:") + `
  drun start                Run the 'start' script
  drun test --filter unit   Run 'test' with extra arguments
  drun -f ci.yaml lint      Use another declaration file`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.SetInterspersed(false)
	flags.StringVarP(&opts.file, "file", "f", "", "script declaration file (default is the first scripts.{cue,yaml,yml,json,toml} in the working directory)")
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.config/drun/config.cue)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	return cmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command and exits the process with its exit code.
// This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		newRootCommand(),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
		fang.WithErrorHandler(handleError),
	); err != nil {
		os.Exit(exitCodeOf(err))
	}
}

// handleError prints errors that runScript has not reported already, such
// as flag parsing failures.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
