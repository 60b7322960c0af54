// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// StreamMode selects how a launched child is connected to the terminal.
type StreamMode int

const (
	// StreamInherit connects the child directly to the launcher's stdin,
	// stdout and stderr. Used for one-shot runs.
	StreamInherit StreamMode = iota
	// StreamCaptured copies the child's output to the launcher's writers
	// and gives it no stdin. Used in watch mode so a rerun never competes
	// with the supervisor for the terminal.
	StreamCaptured
)

// String returns the mode name.
func (m StreamMode) String() string {
	switch m {
	case StreamInherit:
		return "inherit"
	case StreamCaptured:
		return "captured"
	default:
		return fmt.Sprintf("StreamMode(%d)", int(m))
	}
}

// Launcher starts composed invocations. The zero value uses the process
// standard streams, working directory and environment.
type Launcher struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Dir is the child's working directory. Empty means the current one.
	Dir string
	// Environ returns the host environment. Defaults to os.Environ.
	Environ func() []string
	Logger  *log.Logger
}

// Launch runs inv to completion and returns its exit code. Result.Error is
// set when the target file is missing or the child could not be started. A
// child killed by a signal reports ExitFailure. Launch never exits the
// current process.
func (l *Launcher) Launch(ctx context.Context, inv *Invocation, mode StreamMode) *Result {
	if inv.File != "" {
		if err := l.checkFile(inv.File); err != nil {
			return NewErrorResult(ExitConfigError, err)
		}
	}

	l.logger().Debug("launching", "script", inv.Script, "mode", mode, "argv", inv.Argv)

	if inv.Shell != "" {
		return l.runShell(ctx, inv, mode)
	}
	return l.runProcess(ctx, inv, mode)
}

func (l *Launcher) runProcess(ctx context.Context, inv *Invocation, mode StreamMode) *Result {
	if len(inv.Argv) == 0 {
		return NewErrorResult(ExitConfigError, &NoExecutionTargetError{Script: inv.Script})
	}

	cmd := exec.CommandContext(ctx, inv.Argv[0], inv.Argv[1:]...)
	cmd.Dir = l.Dir
	if inv.Env != nil {
		cmd.Env = l.environ(inv.Env)
	}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = l.streams(mode)

	err := cmd.Run()
	if err == nil {
		return NewSuccessResult()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Terminated by a signal.
			return NewExitCodeResult(ExitFailure)
		}
		return NewExitCodeResult(ExitCode(code))
	}
	return NewErrorResult(ExitFailure, fmt.Errorf("failed to start %s: %w", inv.Argv[0], err))
}

func (l *Launcher) checkFile(file string) error {
	path := filepath.FromSlash(file)
	if !filepath.IsAbs(path) && l.Dir != "" {
		path = filepath.Join(l.Dir, path)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return &FileNotFoundError{Path: file}
	}
	return nil
}

func (l *Launcher) streams(mode StreamMode) (stdin io.Reader, stdout, stderr io.Writer) {
	stdout, stderr = l.Stdout, l.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	if mode == StreamCaptured {
		return nil, stdout, stderr
	}
	stdin = l.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	return stdin, stdout, stderr
}

// environ returns the host environment with env applied on top.
func (l *Launcher) environ(env map[string]string) []string {
	base := os.Environ
	if l.Environ != nil {
		base = l.Environ
	}
	return overlayEnviron(base(), env)
}

func (l *Launcher) logger() *log.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return log.Default()
}
