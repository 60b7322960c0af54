// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/drunsh/drun/internal/issue"
	"github.com/drunsh/drun/internal/resolve"
	"github.com/drunsh/drun/internal/runtime"
	"github.com/drunsh/drun/pkg/scriptfile"
)

// classifyRunError wraps an engine error in an ActionableError whose
// suggestions match the failure. Errors that are already actionable are
// returned unchanged.
func classifyRunError(err error, script string, decl *scriptfile.Declaration) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	ctx := issue.NewErrorContext().
		WithOperation("run script").
		WithResource(script).
		Wrap(err)

	switch {
	case errors.Is(err, resolve.ErrScriptNotFound):
		ctx.WithSuggestion(availableScripts(decl))
	case errors.Is(err, runtime.ErrFileNotFound):
		ctx.WithSuggestion(fmt.Sprintf("Check the 'file' of script '%s' in %s", script, declarationName(decl)))
	case errors.Is(err, runtime.ErrEnvFileLoad):
		ctx.WithSuggestion("Create the env file or set 'envFile: false' on the script")
	case errors.Is(err, runtime.ErrNoExecutionTarget):
		ctx.WithSuggestion("Give the script a 'file' to run or a non-empty 'run' command")
	case errors.Is(err, os.ErrPermission):
		ctx.WithSuggestion("Check the permissions of the script and its interpreter")
	}
	return ctx.BuildError()
}

// classifyLoadError wraps a declaration loading failure.
func classifyLoadError(err error, path string) error {
	ctx := issue.NewErrorContext().
		WithOperation("load scripts").
		WithResource(path).
		Wrap(err)

	if errors.Is(err, scriptfile.ErrNoDeclaration) {
		ctx.WithSuggestion("Create one of " + strings.Join(scriptfile.DeclarationFileNames, ", ") + " or pass --file")
	} else {
		ctx.WithSuggestion("Check the declaration layout: { global?: {...}, scripts: { <name>: {...} } }")
	}
	return ctx.BuildError()
}

func availableScripts(decl *scriptfile.Declaration) string {
	if decl == nil || len(decl.Scripts) == 0 {
		return "The declaration defines no scripts"
	}
	names := decl.Names()
	for i, n := range names {
		names[i] = CmdStyle.Render(n)
	}
	return "Available scripts: " + strings.Join(names, ", ")
}

func declarationName(decl *scriptfile.Declaration) string {
	if decl == nil || decl.FilePath == "" {
		return "the script declaration"
	}
	return decl.FilePath
}

// formatErrorForDisplay renders err for the terminal. Suggestions and the
// error chain are only shown in verbose mode.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if verbose && errors.As(err, &ae) {
		return ae.Format(true)
	}
	return err.Error()
}
