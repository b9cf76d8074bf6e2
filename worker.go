package prodcons

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/joeycumines/go-prodcons/boundedqueue"
	"github.com/joeycumines/go-prodcons/deadline"
	"github.com/joeycumines/go-prodcons/syncobj"
	"github.com/joeycumines/logiface"
)

type (
	// WorkerResult models the exit of a single worker.
	WorkerResult struct {
		// Err is the cause of a failed Outcome, or nil.
		Err      error
		Name     string
		Role     Role
		Number   int
		ThreadID int
		Outcome  Outcome
	}

	worker struct {
		state    *state
		log      *logiface.Logger[logiface.Event]
		name     string
		role     Role
		number   int
		threadID int
	}

	// waitCategory is the catrate category of wait diagnostics
	waitCategory struct {
		msg    string
		worker int
	}
)

var (
	errTimedOut            = errors.New(`prodcons: deadline reached`)
	errDeadlineBroken      = errors.New(`prodcons: deadline unusable`)
	errUnsupportedStrategy = errors.New(`prodcons: unsupported strategy`)
	errPanic               = errors.New(`prodcons: worker panic`)
)

func (x *state) newWorker(number int, role Role) *worker {
	w := worker{
		state:  x,
		role:   role,
		number: number,
	}
	if role == RoleWorker {
		w.name = role.String() + `-` + strconv.Itoa(number)
	} else {
		w.name = role.String()
	}
	return &w
}

func (x *worker) owner() syncobj.Owner {
	return syncobj.Owner(x.number)
}

// run is the body of the worker's thread.
func (x *worker) run(threadID int) WorkerResult {
	x.threadID = threadID
	x.log = x.state.log.Clone().
		Str(`worker`, x.name).
		Int(`thread_id`, threadID).
		Logger()

	err := x.call()

	if x.state.mutex != nil && x.state.mutex.Abandon(x.owner()) {
		x.log.Err().Log(`exited while holding mutex`)
	}

	outcome := classify(err)
	if outcome == OutcomeOK || outcome == OutcomeTimedOut {
		err = nil
	}

	res := WorkerResult{
		Err:      err,
		Name:     x.name,
		Role:     x.role,
		Number:   x.number,
		ThreadID: threadID,
		Outcome:  outcome,
	}

	x.state.cfg.Metrics.WorkerExited(x.state.strategy.String(), x.role.String(), outcome.String())

	if outcome.Failed() {
		x.log.Err().Err(err).Str(`outcome`, outcome.String()).Log(`worker failed`)
	} else {
		x.log.Debug().Str(`outcome`, outcome.String()).Log(`worker exited`)
	}

	return res
}

// call runs the worker's loop, recovering any panic.
func (x *worker) call() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf(`%w: %v`, errPanic, r)
		}
	}()
	switch x.role {
	case RoleProducer:
		return x.produce()
	case RoleConsumer:
		return x.consume()
	case RoleWorker:
		return x.work()
	default:
		return fmt.Errorf(`prodcons: unsupported role: %s`, x.role)
	}
}

func classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, errTimedOut):
		return OutcomeTimedOut
	case errors.Is(err, boundedqueue.ErrOverflow), errors.Is(err, boundedqueue.ErrUnderflow):
		return OutcomeRuntimeError
	case errors.Is(err, errDeadlineBroken),
		errors.Is(err, syncobj.ErrClosed),
		errors.Is(err, syncobj.ErrAbandoned),
		errors.Is(err, syncobj.ErrNotOwner),
		errors.Is(err, syncobj.ErrMaxCount):
		return OutcomeSyncError
	default:
		return OutcomeUnknownError
	}
}

// checkDeadline returns errTimedOut once the deadline has been reached.
func (x *worker) checkDeadline() error {
	switch status := x.state.deadline.Status(); status {
	case deadline.Working:
		return nil
	case deadline.Stopped:
		x.log.Info().
			Uint64(`timeout_sec`, uint64(x.state.deadline.RemainingSecondsAtStop())).
			Log(`timeout, exiting`)
		return errTimedOut
	default:
		return fmt.Errorf(`%w: status %s`, errDeadlineBroken, status)
	}
}

// pause sleeps for d, returning early if the deadline is reached.
func (x *worker) pause(d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-x.state.deadline.Done():
	}
}

// logWait logs one of the repetitive "waiting" diagnostics, subject to the
// configured rate limit.
func (x *worker) logWait(msg string) {
	b := x.log.Info()
	if !b.Enabled() {
		return
	}
	if x.state.limiter != nil {
		if _, ok := x.state.limiter.Allow(waitCategory{msg: msg, worker: x.number}); !ok {
			b.Release()
			return
		}
	}
	b.Log(msg)
}
