// SPDX-License-Identifier: MPL-2.0

// Package scriptfile defines the drun script declaration and loads it from
// disk.
//
// A declaration maps script names to either a FileScript (a file run through
// the Deno interpreter) or a CommandScript (a command run directly), plus an
// optional GlobalConfig applied to every script. The variant is decided once,
// when the declaration is loaded; callers type-switch on Script afterwards.
//
// Declarations may be written in CUE, YAML, JSON or TOML. All formats are
// validated against the same embedded CUE schema (scriptfile_schema.cue).
package scriptfile
