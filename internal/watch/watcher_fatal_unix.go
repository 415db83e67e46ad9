// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// exhausted reports whether err means the kernel ran out of watch or file
// descriptor capacity (ENOSPC from fs.inotify.max_user_watches, EMFILE,
// ENFILE). The watcher cannot recover from these.
func exhausted(err error) bool {
	for _, errno := range []syscall.Errno{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
