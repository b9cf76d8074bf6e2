package prodcons

import (
	"errors"

	"github.com/joeycumines/go-prodcons/syncobj"
)

// for testing purposes, called while holding exclusive access to the queue
var testHookExclusive func(w *worker)

// exclusive calls fn while holding exclusive access to the queue, per the
// access discipline of the strategy. Access is released on every exit path,
// except that a panic while holding the MutexWithEvents mutex leaves the
// mutex held, to be abandoned by the worker.
func (x *worker) exclusive(fn func()) error {
	s := x.state
	switch s.strategy {
	case LockOnly, LockWithEvents:
		s.lock.Lock()
		defer s.lock.Unlock()
		x.callExclusive(fn)
		return nil

	case MutexWithEvents:
		if err := s.mutex.Acquire(x.owner()); err != nil {
			if errors.Is(err, syncobj.ErrAbandoned) {
				x.log.Err().Err(err).Log(`acquired abandoned mutex`)
				if releaseErr := s.mutex.Release(x.owner()); releaseErr != nil {
					err = errors.Join(err, releaseErr)
				}
			}
			return err
		}
		x.callExclusive(fn)
		return s.mutex.Release(x.owner())

	default:
		return errUnsupportedStrategy
	}
}

func (x *worker) callExclusive(fn func()) {
	if testHookExclusive != nil {
		testHookExclusive(x)
	}
	fn()
}

// armSpace resets the "space available" signal, before checking for space.
func (x *worker) armSpace() error {
	if x.state.space == nil {
		return nil
	}
	return x.state.space.Reset()
}

// armItem resets the "item available" signal, before checking for items.
func (x *worker) armItem() error {
	if x.state.item == nil {
		return nil
	}
	return x.state.item.Reset()
}

// tryPush pushes v, returning false if the queue is full.
func (x *worker) tryPush(v int) (bool, error) {
	s := x.state
	var (
		pushed  bool
		depth   int
		pushErr error
	)
	if err := x.exclusive(func() {
		if s.queue.IsFull() {
			return
		}
		if pushErr = s.queue.Push(v); pushErr != nil {
			return
		}
		pushed = true
		s.produced++
		depth = s.queue.Len()
	}); err != nil {
		return false, err
	}
	if pushErr != nil {
		return false, pushErr
	}
	if !pushed {
		return false, nil
	}
	s.cfg.Metrics.Produced(s.strategy.String(), depth)
	if s.item != nil {
		if err := s.item.Set(); err != nil {
			return true, err
		}
	}
	return true, nil
}

// tryPop pops the head of the queue, returning false if the queue is empty.
func (x *worker) tryPop() (int, bool, error) {
	s := x.state
	var (
		v      int
		popped bool
		depth  int
		popErr error
	)
	if err := x.exclusive(func() {
		if s.queue.IsEmpty() {
			return
		}
		if v, popErr = s.queue.PopFront(); popErr != nil {
			return
		}
		popped = true
		s.consumed++
		s.items = append(s.items, v)
		depth = s.queue.Len()
	}); err != nil {
		return 0, false, err
	}
	if popErr != nil {
		return 0, false, popErr
	}
	if !popped {
		return 0, false, nil
	}
	s.cfg.Metrics.Consumed(s.strategy.String(), depth)
	if s.space != nil {
		if err := s.space.Set(); err != nil {
			return v, true, err
		}
	}
	return v, true, nil
}

// awaitSpace waits for the queue to (possibly) have space, returning nil on
// timeout or once the deadline fires.
func (x *worker) awaitSpace() error {
	s := x.state
	s.cfg.Metrics.Waited(s.strategy.String(), x.role.String(), `full`)
	if s.space == nil {
		x.pause(s.cfg.LockFullPoll)
		return nil
	}
	x.log.Trace().Bool(`signalled`, s.space.IsSet()).Log(`space event`)
	signalled, err := s.space.WaitUntil(s.cfg.EventFullTimeout, s.deadline.Done())
	if err != nil {
		return err
	}
	if signalled {
		x.log.Debug().Log(`waking up`)
	}
	return nil
}

// awaitItem waits for the queue to (possibly) have an item, returning nil
// on timeout or once the deadline fires.
func (x *worker) awaitItem() error {
	s := x.state
	s.cfg.Metrics.Waited(s.strategy.String(), x.role.String(), `empty`)
	if s.item == nil {
		x.pause(s.cfg.LockEmptyPoll)
		return nil
	}
	x.log.Trace().Bool(`signalled`, s.item.IsSet()).Log(`item event`)
	signalled, err := s.item.WaitUntil(s.cfg.EventEmptyTimeout, s.deadline.Done())
	if err != nil {
		return err
	}
	if signalled {
		x.log.Debug().Log(`waking up`)
	}
	return nil
}
