package deadline

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Status models the tri-state of a Deadline.
type Status int

const (
	// Working indicates the countdown has not elapsed.
	Working Status = iota
	// Stopped indicates the countdown elapsed (or was expired early).
	Stopped
	// Error indicates the deadline is unusable, e.g. nil or closed.
	Error
)

// ErrTimer indicates the countdown could not be armed.
var ErrTimer = errors.New(`deadline: timer unavailable`)

type (
	// Deadline is a one-shot countdown, safe for concurrent use. The zero
	// value is ready to use, and reports Working until armed.
	Deadline struct {
		current atomic.Pointer[arming]
		closed  atomic.Bool
		mu      sync.Mutex // serializes Arm, Expire, and Close
	}

	arming struct {
		timer    stopper
		fired    chan struct{}
		duration time.Duration
		once     sync.Once
	}

	stopper interface {
		Stop() bool
	}
)

// for testing purposes
var timeAfterFunc = func(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

var (
	defaultOnce     sync.Once
	defaultDeadline *Deadline
)

// Default returns the process-wide Deadline, which is created on first use,
// and lives until the process exits.
func Default() *Deadline {
	defaultOnce.Do(func() {
		defaultDeadline = New()
	})
	return defaultDeadline
}

// New initializes a new, unarmed, Deadline.
func New() *Deadline {
	return new(Deadline)
}

func (x *arming) fire() {
	x.once.Do(func() { close(x.fired) })
}

// Arm starts a countdown of d, replacing (and restarting) any current
// countdown. An error wrapping ErrTimer is returned if d is not positive, or
// the receiver is nil or closed.
func (x *Deadline) Arm(d time.Duration) error {
	if x == nil {
		return fmt.Errorf(`%w: nil deadline`, ErrTimer)
	}
	if d <= 0 {
		return fmt.Errorf(`%w: invalid duration: %s`, ErrTimer, d)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed.Load() {
		return fmt.Errorf(`%w: deadline closed`, ErrTimer)
	}

	a := &arming{
		duration: d,
		fired:    make(chan struct{}),
	}
	a.timer = timeAfterFunc(d, a.fire)

	if old := x.current.Swap(a); old != nil {
		old.timer.Stop()
	}

	return nil
}

// Status returns the current state, without blocking. Once Stopped is
// observed, Stopped will continue to be returned, until the next Arm.
func (x *Deadline) Status() Status {
	if x == nil || x.closed.Load() {
		return Error
	}
	a := x.current.Load()
	if a == nil {
		return Working
	}
	select {
	case <-a.fired:
		return Stopped
	default:
		return Working
	}
}

// Done returns a channel that is closed when the current countdown fires.
// It returns nil (blocks forever) if the deadline is not armed.
func (x *Deadline) Done() <-chan struct{} {
	if x == nil {
		return nil
	}
	if a := x.current.Load(); a != nil {
		return a.fired
	}
	return nil
}

// Expire fires the current countdown immediately. It is a no-op if the
// deadline is not armed, or has already fired.
func (x *Deadline) Expire() {
	if x == nil {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if a := x.current.Load(); a != nil {
		a.timer.Stop()
		a.fire()
	}
}

// RemainingSecondsAtStop returns the armed duration, in whole seconds, which
// is intended for diagnostic messages, e.g. on exit due to the deadline.
func (x *Deadline) RemainingSecondsAtStop() uint {
	if x == nil {
		return 0
	}
	if a := x.current.Load(); a != nil {
		return uint(a.duration / time.Second)
	}
	return 0
}

// Close stops any countdown. Status will return Error, and Arm will fail,
// after Close is called.
func (x *Deadline) Close() error {
	if x == nil {
		return nil
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.closed.Store(true)
	if a := x.current.Load(); a != nil {
		a.timer.Stop()
	}
	return nil
}

// String implements fmt.Stringer.
func (x Status) String() string {
	switch x {
	case Working:
		return `working`
	case Stopped:
		return `stopped`
	case Error:
		return `error`
	default:
		return fmt.Sprintf(`Status(%d)`, int(x))
	}
}
