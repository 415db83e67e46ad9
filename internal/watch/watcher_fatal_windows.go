// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// Win32 error codes after which ReadDirectoryChangesW cannot continue.
const (
	errTooManyOpenFiles = syscall.Errno(4)
	errInvalidHandle    = syscall.Errno(6)
	errNotEnoughMemory  = syscall.Errno(8)
)

// exhausted reports whether err leaves the watcher unusable: the handle
// limit was hit, the watched directory went away, or the notification
// buffer could not be allocated.
func exhausted(err error) bool {
	for _, errno := range []syscall.Errno{errTooManyOpenFiles, errInvalidHandle, errNotEnoughMemory} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
