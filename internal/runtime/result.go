// SPDX-License-Identifier: MPL-2.0

package runtime

// Result is the outcome of a single launch. Error is set only when the child
// could not be started or its target was missing; a child that ran and
// failed is reported through ExitCode alone.
type Result struct {
	ExitCode ExitCode
	Error    error
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result for a child that ran to completion.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}

// Success reports whether the launch succeeded and the child exited 0.
func (r *Result) Success() bool {
	return r != nil && r.Error == nil && r.ExitCode.IsSuccess()
}
