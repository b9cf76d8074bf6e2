//go:build linux

package osthread

import (
	"golang.org/x/sys/unix"
)

// ID returns the native id of the calling OS thread.
func ID() int {
	return unix.Gettid()
}
