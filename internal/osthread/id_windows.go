//go:build windows

package osthread

import (
	"golang.org/x/sys/windows"
)

// ID returns the native id of the calling OS thread.
func ID() int {
	return int(windows.GetCurrentThreadId())
}
