// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// isFatalWatchError reports whether err means the kernel refused further
// watches: the inotify watch limit (ENOSPC) or a per-process or system-wide
// descriptor limit (EMFILE, ENFILE). Everything else is logged and skipped.
func isFatalWatchError(err error) bool {
	for _, errno := range []syscall.Errno{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
