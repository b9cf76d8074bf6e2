// Package osthread runs functions on dedicated OS threads, and exposes the
// native id of the calling thread, for diagnostics.
package osthread

import (
	"runtime"
)

// Go runs fn in a new goroutine, locked to its own OS thread for the
// duration of fn. The thread id, as reported by ID, is passed to fn.
func Go(fn func(id int)) {
	if fn == nil {
		panic(`osthread: nil func`)
	}
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		fn(ID())
	}()
}
