package syncobj

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Semaphore is a counting semaphore, with a maximum count, admitting at most
// Count concurrent holders.
// Instances must be initialized using the NewSemaphore factory.
type Semaphore struct {
	weighted *semaphore.Weighted
	count    atomic.Int64
	closed   atomic.Bool
	max      int64
}

// NewSemaphore initializes a new Semaphore, with the given initial and
// maximum counts. A panic will occur if max is not positive, or initial is
// not within [0, max].
func NewSemaphore(initial, max int64) *Semaphore {
	if max <= 0 || initial < 0 || initial > max {
		panic(fmt.Errorf(`syncobj: invalid semaphore counts: initial=%d max=%d`, initial, max))
	}
	x := Semaphore{
		weighted: semaphore.NewWeighted(max),
		max:      max,
	}
	if held := max - initial; held > 0 && !x.weighted.TryAcquire(held) {
		panic(`syncobj: unexpected semaphore state`)
	}
	x.count.Store(initial)
	return &x
}

// TryAcquire decrements the count, without blocking, returning true on
// success. On failure, the count was zero.
func (x *Semaphore) TryAcquire() (bool, error) {
	if x.closed.Load() {
		return false, ErrClosed
	}
	if !x.weighted.TryAcquire(1) {
		return false, nil
	}
	x.count.Add(-1)
	return true, nil
}

// Release increments the count, by exactly one. ErrMaxCount is returned,
// and the count unchanged, if the count is already at its maximum.
func (x *Semaphore) Release() error {
	if x.closed.Load() {
		return ErrClosed
	}
	for {
		count := x.count.Load()
		if count >= x.max {
			return ErrMaxCount
		}
		if x.count.CompareAndSwap(count, count+1) {
			break
		}
	}
	x.weighted.Release(1)
	return nil
}

// Count returns the (approximate) number of available permits.
func (x *Semaphore) Count() int64 {
	return x.count.Load()
}

// Max returns the maximum count.
func (x *Semaphore) Max() int64 {
	return x.max
}

// Close causes subsequent TryAcquire and Release calls to fail.
func (x *Semaphore) Close() error {
	x.closed.Store(true)
	return nil
}
