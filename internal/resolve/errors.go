// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
)

// ErrScriptNotFound is the sentinel error wrapped by ScriptNotFoundError.
var ErrScriptNotFound = errors.New("script not found")

// ScriptNotFoundError is returned when the requested script name is empty or
// not declared.
type ScriptNotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *ScriptNotFoundError) Error() string {
	if e.Name == "" {
		return "no script name given"
	}
	return fmt.Sprintf("script '%s' not found", e.Name)
}

// Unwrap returns ErrScriptNotFound for errors.Is.
func (e *ScriptNotFoundError) Unwrap() error { return ErrScriptNotFound }
