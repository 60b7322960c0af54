// SPDX-License-Identifier: MPL-2.0

// Package config loads drun's user configuration using Viper with CUE as the
// file format.
//
// The file is config.cue in the platform config directory
// ($XDG_CONFIG_HOME/drun on Linux, ~/Library/Application Support/drun on
// macOS, %APPDATA%\drun on Windows), or the path given with --config. It is
// validated against the embedded config_schema.cue before being merged over
// the defaults. DRUN_* environment variables override file values, e.g.
// DRUN_LOG_LEVEL=debug or DRUN_WATCH_INTERVAL_MS=100.
package config
