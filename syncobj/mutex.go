package syncobj

import (
	"sync"
	"sync/atomic"
)

type (
	// Owner identifies the holder of a Mutex, e.g. a worker number.
	Owner uint64

	// Mutex provides mutual exclusion with owner tracking. In contrast to
	// sync.Mutex, acquisition may fail, releasing requires ownership, and an
	// owner that exits while holding the mutex may abandon it, which is
	// reported to the next owner.
	// Instances must be initialized using the NewMutex factory.
	Mutex struct {
		token     chan struct{} // buffered, len 1 while held
		closed    chan struct{}
		closeOnce sync.Once
		ever      atomic.Bool
		mu        sync.Mutex
		owner     Owner
		held      bool
		abandoned bool // pending report to the next owner
	}
)

// NewMutex initializes a new, unowned, Mutex.
func NewMutex() *Mutex {
	return &Mutex{
		token:  make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// Acquire blocks until the mutex is owned by owner, without any timeout.
// ErrClosed is returned if the mutex is or becomes closed, in which case
// the mutex is not owned by the caller. ErrAbandoned is returned if the
// previous owner abandoned the mutex, in which case the caller DOES own the
// mutex, and must release it.
func (x *Mutex) Acquire(owner Owner) error {
	select {
	case <-x.closed:
		return ErrClosed
	default:
	}

	select {
	case <-x.closed:
		return ErrClosed
	case x.token <- struct{}{}:
	}

	x.mu.Lock()
	x.owner = owner
	x.held = true
	abandoned := x.abandoned
	x.abandoned = false
	x.mu.Unlock()

	if abandoned {
		return ErrAbandoned
	}
	return nil
}

// Release releases the mutex, which must be owned by owner.
func (x *Mutex) Release(owner Owner) error {
	x.mu.Lock()
	if !x.held || x.owner != owner {
		x.mu.Unlock()
		return ErrNotOwner
	}
	x.held = false
	x.mu.Unlock()
	<-x.token
	return nil
}

// Abandon releases the mutex, if it is held by owner, flagging it as
// abandoned, and returning true. It is intended to be called on exit of an
// owner, e.g. in a deferred call, that may still hold the mutex.
func (x *Mutex) Abandon(owner Owner) bool {
	x.mu.Lock()
	if !x.held || x.owner != owner {
		x.mu.Unlock()
		return false
	}
	x.held = false
	x.abandoned = true
	x.ever.Store(true)
	x.mu.Unlock()
	<-x.token
	return true
}

// Abandoned returns true if the mutex has ever been abandoned.
func (x *Mutex) Abandoned() bool {
	return x.ever.Load()
}

// Close releases the mutex, causing waiting and future Acquire calls to fail.
func (x *Mutex) Close() error {
	x.closeOnce.Do(func() { close(x.closed) })
	return nil
}
