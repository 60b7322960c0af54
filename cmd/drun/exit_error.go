// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/drunsh/drun/internal/runtime"
)

// ExitError carries the exit code out of RunE so only Execute calls os.Exit.
// Err, when set, has already been reported to the user.
type ExitError struct {
	Code runtime.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeOf maps an error returned by the root command to a process exit
// code. Errors that did not come from a script run are usage errors.
func exitCodeOf(err error) int {
	if err == nil {
		return int(runtime.ExitSuccess)
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if ok, _ := exitErr.Code.IsValid(); !ok {
			return int(runtime.ExitFailure)
		}
		return int(exitErr.Code)
	}
	return int(runtime.ExitFailure)
}
