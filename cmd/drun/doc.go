// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the drun command line: flag parsing, loading the
// user configuration and the script declaration, and mapping the engine's
// result to a process exit code.
package cmd
