// SPDX-License-Identifier: MPL-2.0

// Package engine runs a named script from a loaded declaration, once or in
// watch mode. It wires the merger (resolve), the environment and command
// builders and the launcher (runtime) and, for watched scripts, the
// supervisor (watch). The engine returns an exit code; it never exits the
// process.
package engine
