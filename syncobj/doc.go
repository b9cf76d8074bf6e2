// Package syncobj provides the synchronization objects used to coordinate
// producers and consumers: an auto-reset Event, an owner-tracked Mutex that
// can fail (and be abandoned), and a counting Semaphore.
//
// Unlike their counterparts in package sync, every operation reports failure
// as an error, e.g. after Close, which allows callers to treat a broken
// synchronization object as a recoverable, reportable condition.
package syncobj

import (
	"errors"
)

var (
	// ErrClosed is returned by operations on a closed object.
	ErrClosed = errors.New(`syncobj: closed`)

	// ErrAbandoned is returned by Mutex.Acquire, if the previous owner exited
	// without releasing the mutex. The caller owns the mutex, regardless.
	ErrAbandoned = errors.New(`syncobj: mutex abandoned`)

	// ErrNotOwner is returned by Mutex.Release, if the caller does not own
	// the mutex.
	ErrNotOwner = errors.New(`syncobj: mutex not owned by caller`)

	// ErrMaxCount is returned by Semaphore.Release, if releasing would
	// exceed the maximum count.
	ErrMaxCount = errors.New(`syncobj: semaphore maximum count exceeded`)
)
