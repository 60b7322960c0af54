// SPDX-License-Identifier: MPL-2.0

// Package runtime turns a resolved script into a running process.
//
// BuildEnv computes the environment overlay (dotenv file, then global env,
// then script env). Compose builds the argv for the script variant. A
// Launcher spawns the result as a child process, or runs it in the embedded
// mvdan/sh interpreter for command scripts declared with shell: true, and
// reports the child's exit code as a Result.
//
// Nothing in this package exits the process; callers map the returned
// ExitCode to os.Exit.
package runtime
