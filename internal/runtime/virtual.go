// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// runShell runs inv.Shell in the embedded POSIX shell interpreter.
func (l *Launcher) runShell(ctx context.Context, inv *Invocation, mode StreamMode) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(inv.Shell), inv.Script)
	if err != nil {
		return NewErrorResult(ExitConfigError, fmt.Errorf("script '%s': invalid shell syntax: %w", inv.Script, err))
	}

	var environ []string
	if inv.Env != nil {
		environ = l.environ(inv.Env)
	} else if l.Environ != nil {
		environ = l.Environ()
	}

	stdin, stdout, stderr := l.streams(mode)
	opts := []interp.RunnerOption{
		interp.StdIO(stdin, stdout, stderr),
	}
	if environ != nil {
		opts = append(opts, interp.Env(expand.ListEnviron(environ...)))
	}
	if l.Dir != "" {
		opts = append(opts, interp.Dir(l.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return NewErrorResult(ExitFailure, fmt.Errorf("failed to create shell interpreter: %w", err))
	}

	err = runner.Run(ctx, prog)
	if err == nil {
		return NewSuccessResult()
	}
	var status interp.ExitStatus
	if errors.As(err, &status) {
		return NewExitCodeResult(ExitCode(status))
	}
	if ctx.Err() != nil {
		return NewExitCodeResult(ExitFailure)
	}
	return NewErrorResult(ExitFailure, fmt.Errorf("script '%s': %w", inv.Script, err))
}
