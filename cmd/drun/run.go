// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/drunsh/drun/internal/config"
	"github.com/drunsh/drun/internal/engine"
	"github.com/drunsh/drun/internal/resolve"
	"github.com/drunsh/drun/internal/runtime"
	"github.com/drunsh/drun/pkg/scriptfile"
)

// runScript is the root command's RunE. Every failure it returns is an
// *ExitError that has already been printed.
func runScript(cmd *cobra.Command, opts *rootOptions, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: opts.cfgFile})
	if err != nil {
		return reportError(cmd, opts, runtime.ExitConfigError, err)
	}

	level := cfg.LogLevel.Level()
	if opts.verbose {
		level = log.DebugLevel
	}
	logger := newLogger(cmd.ErrOrStderr(), level)

	cwd, err := os.Getwd()
	if err != nil {
		return reportError(cmd, opts, runtime.ExitFailure, fmt.Errorf("failed to get working directory: %w", err))
	}

	decl, err := loadDeclaration(opts.file, cwd)
	if err != nil {
		return reportError(cmd, opts, runtime.ExitConfigError, err)
	}
	logger.Debug("loaded scripts", "file", decl.FilePath, "count", len(decl.Scripts))

	inv := resolve.Invocation{}
	if len(args) > 0 {
		inv.ScriptName = args[0]
		inv.RestArgs = args[1:]
	}

	eng := &engine.Engine{
		Declaration: decl,
		Launcher: &runtime.Launcher{
			Stdin:  cmd.InOrStdin(),
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
			Logger: logger,
		},
		Logger:        logger,
		Interpreter:   cfg.Interpreter,
		Probe:         resolve.DirProbe(cwd),
		LoadEnvFile:   runtime.DirEnvFileLoader(cwd),
		WatchInterval: cfg.WatchInterval(),
		ClearScreen:   cfg.Watch.ClearScreen,
		BaseDir:       cwd,
		Verbose:       opts.verbose,
	}

	code, err := eng.Run(ctx, inv)
	if err != nil {
		return reportError(cmd, opts, code, classifyRunError(err, inv.ScriptName, decl))
	}
	if !code.IsSuccess() {
		return &ExitError{Code: code}
	}
	return nil
}

// loadDeclaration reads the declaration at path, or the first one found in
// dir when path is empty.
func loadDeclaration(path, dir string) (*scriptfile.Declaration, error) {
	if path == "" {
		found, err := scriptfile.Discover(dir)
		if err != nil {
			return nil, classifyLoadError(err, dir)
		}
		path = found
	}
	decl, err := scriptfile.Load(path)
	if err != nil {
		return nil, classifyLoadError(err, path)
	}
	return decl, nil
}

// reportError prints err as a single styled line and returns it as an
// ExitError carrying code.
func reportError(cmd *cobra.Command, opts *rootOptions, code runtime.ExitCode, err error) error {
	if code.IsSuccess() {
		code = runtime.ExitFailure
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, opts.verbose))
	return &ExitError{Code: code, Err: err}
}
