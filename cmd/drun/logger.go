// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger returns the process logger. Status lines and debug echoes go to
// w so they never mix with the child's stdout.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          "drun",
		Level:           level,
		ReportTimestamp: false,
	})
}
