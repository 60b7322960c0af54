// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"fmt"
)

var (
	// ErrNoExecutionTarget is returned when a script has neither a file nor
	// a command to run.
	ErrNoExecutionTarget = errors.New("no execution target")

	// ErrFileNotFound is the sentinel error wrapped by FileNotFoundError.
	ErrFileNotFound = errors.New("script file not found")

	// ErrEnvFileLoad is the sentinel error wrapped by EnvFileLoadError.
	ErrEnvFileLoad = errors.New("failed to load env file")
)

type (
	// NoExecutionTargetError names the script that has nothing to run.
	NoExecutionTargetError struct {
		Script string
	}

	// FileNotFoundError is returned by the launcher when a file script's
	// target does not exist.
	FileNotFoundError struct {
		Path string
	}

	// EnvFileLoadError is returned when a dotenv file cannot be read or
	// parsed.
	EnvFileLoadError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *NoExecutionTargetError) Error() string {
	return fmt.Sprintf("script '%s' has no file or run command", e.Script)
}

// Unwrap returns ErrNoExecutionTarget for errors.Is.
func (e *NoExecutionTargetError) Unwrap() error { return ErrNoExecutionTarget }

// Error implements the error interface.
func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("script file not found: %s", e.Path)
}

// Unwrap returns ErrFileNotFound for errors.Is.
func (e *FileNotFoundError) Unwrap() error { return ErrFileNotFound }

// Error implements the error interface.
func (e *EnvFileLoadError) Error() string {
	return fmt.Sprintf("failed to load env file %s: %v", e.Path, e.Err)
}

// Unwrap returns both ErrEnvFileLoad and the underlying cause, so
// errors.Is(err, fs.ErrNotExist) keeps working.
func (e *EnvFileLoadError) Unwrap() []error { return []error{ErrEnvFileLoad, e.Err} }
