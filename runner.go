package prodcons

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joeycumines/go-prodcons/syncobj"
)

// Result models a completed run, including a failed run.
type Result struct {
	Started time.Time
	// RunID identifies the run, in log events.
	RunID string
	// Workers contains the result of each started worker, in start order.
	Workers []WorkerResult
	// Items contains the items received by the consumer, in order.
	Items    []int
	Elapsed  time.Duration
	Strategy Strategy
	Produced int
	Consumed int
	// MaxAdmitted is the maximum number of semaphore workers observed
	// holding a permit, concurrently.
	MaxAdmitted int
	// Admissions is the number of times a permit was acquired.
	Admissions int
	Code       Code
}

// Run executes a single run of strategy, blocking until all workers exit.
// The deadline is armed for the configured Duration, and is expired early if
// ctx is canceled. Runs sharing a deadline must not overlap.
//
// A non-nil error will always be a *RunError. The Result is non-nil if the
// run was started.
func Run(ctx context.Context, strategy Strategy, config *Config) (*Result, error) {
	if !strategy.Valid() {
		return nil, newRunError(CodeAPI, fmt.Errorf(`%w: %s`, errUnsupportedStrategy, strategy))
	}

	cfg, err := config.resolve()
	if err != nil {
		return nil, newRunError(CodeAPI, err)
	}

	s := newState(uuid.NewString(), strategy, cfg)

	result := Result{
		Started:  time.Now(),
		RunID:    s.id,
		Strategy: strategy,
	}

	if err := s.deadline.Arm(cfg.Duration); err != nil {
		s.log.Err().Err(err).Log(`failed to arm deadline`)
		return nil, newRunError(CodeAPI, err)
	}
	// the timer has no further use, once all workers exit
	defer s.deadline.Expire()

	if ctx.Err() != nil {
		s.deadline.Expire()
	}
	stopCtx := context.AfterFunc(ctx, s.deadline.Expire)
	defer stopCtx()

	s.open()
	defer s.close()

	s.log.Info().
		Int(`capacity`, cfg.Capacity).
		Int(`total_tasks`, cfg.TotalTasks).
		Dur(`duration`, cfg.Duration).
		Log(`run started`)

	roles := s.roles()
	results := make([]WorkerResult, len(roles))
	var (
		wg       sync.WaitGroup
		started  int
		spawnErr error
	)
	for i, role := range roles {
		w := s.newWorker(i+1, role)
		wg.Add(1)
		if err := cfg.Spawn(w.number, func(threadID int) {
			defer wg.Done()
			results[i] = w.run(threadID)
		}); err != nil {
			wg.Done()
			spawnErr = fmt.Errorf(`not all threads were created: %s: %w`, w.name, err)
			s.log.Err().Err(err).Str(`worker`, w.name).Log(`failed to start thread`)
			break
		}
		started++
	}

	wg.Wait()

	result.Workers = results[:started]
	result.Elapsed = time.Since(result.Started)
	result.Produced = s.produced
	result.Consumed = s.consumed
	result.Items = slices.Clone(s.items)
	result.MaxAdmitted = s.maxActive
	result.Admissions = s.admissions

	var cause error
	result.Code, cause = s.reduce(result.Workers, spawnErr)

	cfg.Metrics.RunFinished(strategy.String(), result.Code.String(), result.Elapsed)

	if result.Code != CodeOK {
		err := newRunError(result.Code, cause)
		s.log.Err().Err(err).Int(`code`, int(result.Code)).Dur(`elapsed`, result.Elapsed).Log(`run failed`)
		return &result, err
	}

	s.log.Info().
		Int(`produced`, result.Produced).
		Int(`consumed`, result.Consumed).
		Dur(`elapsed`, result.Elapsed).
		Log(`run finished`)

	return &result, nil
}

// reduce determines the code of a run, from the outcome of its workers.
// Failure to start all workers takes precedence, then abandonment of the
// mutex, then the most severe worker failure.
func (x *state) reduce(workers []WorkerResult, spawnErr error) (Code, error) {
	if spawnErr != nil {
		return CodeAPI, spawnErr
	}

	code, cause := CodeOK, error(nil)
	for _, w := range workers {
		if !w.Outcome.Failed() {
			continue
		}
		if c := w.Outcome.code(); c.severity() > code.severity() {
			code = c
			cause = fmt.Errorf(`%s: %w`, w.Name, w.Err)
		}
	}

	if x.mutex != nil && x.mutex.Abandoned() && code != CodeSync {
		code = CodeSync
		if cause == nil {
			cause = syncobj.ErrAbandoned
		} else {
			cause = errors.Join(syncobj.ErrAbandoned, cause)
		}
	}

	return code, cause
}
