//go:build !linux && !windows

package osthread

// ID returns -1, as the native thread id is unsupported on this platform.
func ID() int {
	return -1
}
