// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"
)

func skipOnWindows(t *testing.T) {
	t.Helper()

	if goruntime.GOOS == "windows" {
		t.Skip("skipping: test relies on a POSIX sh")
	}
}

func newTestLauncher(t *testing.T) (*Launcher, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	return &Launcher{
		Stdin:   strings.NewReader(""),
		Stdout:  &stdout,
		Stderr:  &stderr,
		Dir:     t.TempDir(),
		Environ: func() []string { return []string{"PATH=" + os.Getenv("PATH"), "INHERITED=host"} },
	}, &stdout, &stderr
}

func TestLaunch_ExitCodes(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	tests := []struct {
		name   string
		script string
		want   ExitCode
	}{
		{"success", "exit 0", ExitSuccess},
		{"exact child code", "exit 3", 3},
		{"killed by signal", "kill -9 $$", ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, _, _ := newTestLauncher(t)
			result := l.Launch(context.Background(), &Invocation{Script: tt.name, Argv: []string{"sh", "-c", tt.script}}, StreamInherit)
			if result.Error != nil {
				t.Fatalf("unexpected error: %v", result.Error)
			}
			if result.ExitCode != tt.want {
				t.Errorf("ExitCode = %d, want %d", result.ExitCode, tt.want)
			}
		})
	}
}

func TestLaunch_CapturedOutput(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	l, stdout, stderr := newTestLauncher(t)
	inv := &Invocation{Script: "echo", Argv: []string{"sh", "-c", "echo hello world; echo oops >&2"}}

	result := l.Launch(context.Background(), inv, StreamCaptured)
	if !result.Success() {
		t.Fatalf("expected success, got %+v", result)
	}
	if stdout.String() != "hello world\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
	if stderr.String() != "oops\n" {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestLaunch_EnvOverlay(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"nil inherits the process environment", nil, "|"},
		{"overlay keeps host variables", map[string]string{"FOO": "bar"}, "bar|host"},
		{"overlay replaces host variables", map[string]string{"INHERITED": "script"}, "|script"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, stdout, _ := newTestLauncher(t)
			inv := &Invocation{Argv: []string{"sh", "-c", `printf '%s|%s' "$FOO" "$INHERITED"`}, Env: tt.env}

			if result := l.Launch(context.Background(), inv, StreamCaptured); !result.Success() {
				t.Fatalf("expected success, got %+v", result)
			}
			if stdout.String() != tt.want {
				t.Errorf("output = %q, want %q", stdout.String(), tt.want)
			}
		})
	}
}

func TestLaunch_FileNotFound(t *testing.T) {
	t.Parallel()

	l, _, _ := newTestLauncher(t)
	inv := &Invocation{Script: "log", Argv: []string{"deno", "run", "./log.ts"}, File: "./log.ts"}

	result := l.Launch(context.Background(), inv, StreamInherit)

	var notFound *FileNotFoundError
	if !errors.As(result.Error, &notFound) {
		t.Fatalf("expected *FileNotFoundError, got %v", result.Error)
	}
	if !strings.Contains(result.Error.Error(), "./log.ts") {
		t.Errorf("message should contain the path, got %q", result.Error.Error())
	}
	if result.ExitCode != ExitConfigError {
		t.Errorf("ExitCode = %d, want %d", result.ExitCode, ExitConfigError)
	}
}

func TestLaunch_FileExistsIsResolvedAgainstDir(t *testing.T) {
	skipOnWindows(t)
	t.Parallel()

	l, stdout, _ := newTestLauncher(t)
	if err := os.WriteFile(filepath.Join(l.Dir, "main.sh"), []byte("echo from file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result := l.Launch(context.Background(), &Invocation{Argv: []string{"sh", "main.sh"}, File: "main.sh"}, StreamCaptured)
	if !result.Success() {
		t.Fatalf("expected success, got %+v", result)
	}
	if stdout.String() != "from file\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestLaunch_SpawnFailure(t *testing.T) {
	t.Parallel()

	l, _, _ := newTestLauncher(t)
	result := l.Launch(context.Background(), &Invocation{Argv: []string{"drun-test-no-such-binary"}}, StreamInherit)
	if result.Error == nil {
		t.Fatal("expected spawn error")
	}
	if result.ExitCode != ExitFailure {
		t.Errorf("ExitCode = %d, want %d", result.ExitCode, ExitFailure)
	}
}

func TestLaunch_EmptyArgv(t *testing.T) {
	t.Parallel()

	l, _, _ := newTestLauncher(t)
	result := l.Launch(context.Background(), &Invocation{Script: "empty"}, StreamInherit)
	if !errors.Is(result.Error, ErrNoExecutionTarget) {
		t.Errorf("expected ErrNoExecutionTarget, got %v", result.Error)
	}
}

func TestLaunch_Shell(t *testing.T) {
	t.Parallel()

	l, stdout, _ := newTestLauncher(t)
	inv := &Invocation{
		Script: "greet",
		Shell:  `echo "$GREETING $1"; exit 4`,
		Env:    map[string]string{"GREETING": "hi"},
	}

	result := l.Launch(context.Background(), inv, StreamCaptured)
	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if result.ExitCode != 4 {
		t.Errorf("ExitCode = %d, want 4", result.ExitCode)
	}
	if stdout.String() != "hi \n" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestLaunch_ShellSyntaxError(t *testing.T) {
	t.Parallel()

	l, _, _ := newTestLauncher(t)
	result := l.Launch(context.Background(), &Invocation{Script: "bad", Shell: "echo ("}, StreamCaptured)
	if result.Error == nil || result.ExitCode != ExitConfigError {
		t.Errorf("expected config error, got %+v", result)
	}
}

func TestStreamModeString(t *testing.T) {
	t.Parallel()

	if StreamInherit.String() != "inherit" || StreamCaptured.String() != "captured" {
		t.Error("unexpected StreamMode names")
	}
	if got := StreamMode(9).String(); got != "StreamMode(9)" {
		t.Errorf("String() = %q", got)
	}
}
