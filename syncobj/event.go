package syncobj

import (
	"sync"
	"time"
)

// Event is an auto-reset binary signal. A successful Wait consumes the
// signal, waking at most one waiter per Set.
// Instances must be initialized using the NewEvent factory.
type Event struct {
	signal    chan struct{} // buffered, len 1 while set
	closed    chan struct{}
	closeOnce sync.Once
}

// NewEvent initializes a new Event, in the clear state.
func NewEvent() *Event {
	return &Event{
		signal: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (x *Event) isClosed() bool {
	select {
	case <-x.closed:
		return true
	default:
		return false
	}
}

// Set signals the event. Setting an already-set event has no effect.
func (x *Event) Set() error {
	if x.isClosed() {
		return ErrClosed
	}
	select {
	case x.signal <- struct{}{}:
	default:
	}
	return nil
}

// Reset clears the event.
func (x *Event) Reset() error {
	if x.isClosed() {
		return ErrClosed
	}
	select {
	case <-x.signal:
	default:
	}
	return nil
}

// IsSet reports whether the event is currently signalled, without consuming
// the signal. It is intended for diagnostics only.
func (x *Event) IsSet() bool {
	return len(x.signal) != 0
}

// Wait blocks until the event is signalled, consuming the signal, or until
// timeout elapses, in which case false will be returned. A timeout <= 0 polls
// without blocking. ErrClosed is returned if the event is closed, including
// while waiting.
func (x *Event) Wait(timeout time.Duration) (bool, error) {
	return x.WaitUntil(timeout, nil)
}

// WaitUntil behaves like Wait, but also returns false early once stop is
// closed. A nil stop never fires.
func (x *Event) WaitUntil(timeout time.Duration, stop <-chan struct{}) (bool, error) {
	if x.isClosed() {
		return false, ErrClosed
	}

	if timeout <= 0 {
		select {
		case <-x.signal:
			return true, nil
		default:
			return false, nil
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-x.signal:
		return true, nil
	case <-x.closed:
		return false, ErrClosed
	case <-timer.C:
		return false, nil
	case <-stop:
		return false, nil
	}
}

// Close releases the event, waking any waiters with ErrClosed.
func (x *Event) Close() error {
	x.closeOnce.Do(func() { close(x.closed) })
	return nil
}
