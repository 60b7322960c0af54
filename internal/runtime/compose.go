// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/drunsh/drun/internal/resolve"
	"github.com/drunsh/drun/pkg/scriptfile"
)

// DefaultInterpreter is the command prefix used for file scripts.
var DefaultInterpreter = []string{"deno", "run"}

// Invocation is a fully composed launch request. It is rebuilt for every
// launch and never shared between runs.
type Invocation struct {
	// Script is the script name, for messages.
	Script string
	// Argv is the command and its arguments. For shell invocations it is
	// only used for display.
	Argv []string
	// Env is the overlay applied to the host environment. nil inherits the
	// host environment unchanged.
	Env map[string]string
	// File is the target of a file script. The launcher checks that it
	// exists before spawning.
	File string
	// Shell holds the source for the embedded shell when non-empty.
	Shell string
}

// Compose builds the invocation for rs. restArgs are appended after the
// script's own args. interpreter defaults to DefaultInterpreter. Compose
// does not touch the filesystem and leaves Env unset.
func Compose(rs *resolve.ResolvedScript, restArgs, interpreter []string) (*Invocation, error) {
	switch target := rs.Target.(type) {
	case *scriptfile.FileScript:
		if target.File == "" {
			return nil, &NoExecutionTargetError{Script: rs.Name}
		}
		return composeFile(rs, target, restArgs, interpreter), nil
	case *scriptfile.CommandScript:
		if target.Run.Empty() {
			return nil, &NoExecutionTargetError{Script: rs.Name}
		}
		return composeCommand(rs, target, restArgs)
	default:
		return nil, &NoExecutionTargetError{Script: rs.Name}
	}
}

func composeFile(rs *resolve.ResolvedScript, target *scriptfile.FileScript, restArgs, interpreter []string) *Invocation {
	if len(interpreter) == 0 {
		interpreter = DefaultInterpreter
	}

	argv := append([]string{}, interpreter...)
	argv = append(argv, PermissionFlags(rs.Permissions, nil)...)
	argv = append(argv, TsconfigFlag(rs.Tsconfig, "")...)
	argv = append(argv, rs.DenoArgs.Tokens()...)
	argv = append(argv, ImportMapFlag("", rs.ImportMap)...)
	argv = append(argv, UnstableFlag(false, rs.Unstable)...)
	argv = append(argv, target.File)
	argv = append(argv, rs.Args.Tokens()...)
	argv = append(argv, restArgs...)

	return &Invocation{Script: rs.Name, Argv: argv, File: target.File}
}

func composeCommand(rs *resolve.ResolvedScript, target *scriptfile.CommandScript, restArgs []string) (*Invocation, error) {
	extra := append(rs.Args.Tokens(), restArgs...)

	argv := target.Run.Tokens()
	argv = append(argv, extra...)
	inv := &Invocation{Script: rs.Name, Argv: argv}
	if !target.Shell {
		return inv, nil
	}

	// The run line is shell source; args are data and get quoted.
	var sb strings.Builder
	sb.WriteString(target.Run.String())
	for _, arg := range extra {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return nil, fmt.Errorf("cannot pass argument %q to shell: %w", arg, err)
		}
		sb.WriteByte(' ')
		sb.WriteString(quoted)
	}
	inv.Shell = sb.String()
	return inv, nil
}
