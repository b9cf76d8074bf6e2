package prodcons

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/joeycumines/go-prodcons/deadline"
	"github.com/joeycumines/go-prodcons/internal/osthread"
	"github.com/joeycumines/go-prodcons/metrics"
	"github.com/joeycumines/logiface"
)

// Config models the optional configuration of a run. The zero value is
// valid, and each field documents its default.
type Config struct {
	// Deadline is the shared countdown all workers observe. Defaults to
	// deadline.Default. It is armed by Run, for Duration.
	Deadline *deadline.Deadline

	// Logger receives diagnostic events. Defaults to nil, which disables
	// logging.
	Logger *logiface.Logger[logiface.Event]

	// Metrics records run, worker, and queue events. Defaults to nil, which
	// disables collection.
	Metrics *metrics.Collector

	// WaitLogRates limits the rate of the repetitive "waiting" diagnostics,
	// per worker and message, see catrate.NewLimiter. Defaults to 4 per
	// second. An empty, non-nil, map disables rate limiting.
	WaitLogRates map[time.Duration]int

	// Spawn starts fn for the given worker (numbered from 1, in start
	// order), on a new thread, passing it the native thread id. An error
	// indicates the thread could not be started, and fn must not be called.
	// Defaults to a goroutine locked to its own OS thread.
	Spawn func(worker int, fn func(threadID int)) error

	// ProduceDelay simulates the work of producing an item.
	// Defaults to a random multiple of 50ms, in [0, 450ms].
	ProduceDelay func() time.Duration

	// ConsumeDelay simulates the work of consuming an item.
	// Defaults to a random multiple of 50ms, in [0, 650ms].
	ConsumeDelay func() time.Duration

	// WorkDelay simulates the work of a semaphore worker, while admitted.
	// Defaults to a random duration, in [0, 3276ms].
	WorkDelay func() time.Duration

	// Capacity is the maximum queue length. Defaults to 8.
	Capacity int

	// TotalTasks is the number of items the producer sends. Defaults to 30.
	TotalTasks int

	// Duration of the deadline. Defaults to 16s.
	Duration time.Duration

	// LockFullPoll is the LockOnly producer's sleep, while the queue is
	// full. Defaults to 300ms.
	LockFullPoll time.Duration

	// LockEmptyPoll is the LockOnly consumer's sleep, while the queue is
	// empty. Defaults to 1000ms.
	LockEmptyPoll time.Duration

	// EventFullTimeout bounds the producer's wait for space, for the event
	// based strategies. Defaults to 5000ms.
	EventFullTimeout time.Duration

	// EventEmptyTimeout bounds the consumer's wait for an item, for the
	// event based strategies. Defaults to 3000ms.
	EventEmptyTimeout time.Duration

	// SemaphoreRetry is the pause between failed (non-blocking) attempts to
	// acquire a permit. Defaults to 10ms. A negative value disables the
	// pause.
	SemaphoreRetry time.Duration

	// SemaphoreWorkers is the number of CountingSemaphore workers.
	// Defaults to 3.
	SemaphoreWorkers int

	// SemaphorePermits is the initial semaphore count. Defaults to 2.
	SemaphorePermits int

	// SemaphoreMaxCount is the maximum semaphore count, which must be at
	// least SemaphorePermits. Defaults to SemaphoreWorkers, or
	// SemaphorePermits, whichever is greater.
	SemaphoreMaxCount int
}

const (
	DefaultCapacity          = 8
	DefaultTotalTasks        = 30
	DefaultDuration          = 16 * time.Second
	DefaultLockFullPoll      = 300 * time.Millisecond
	DefaultLockEmptyPoll     = 1000 * time.Millisecond
	DefaultEventFullTimeout  = 5000 * time.Millisecond
	DefaultEventEmptyTimeout = 3000 * time.Millisecond
	DefaultSemaphoreRetry    = 10 * time.Millisecond
	DefaultSemaphoreWorkers  = 3
	DefaultSemaphorePermits  = 2
)

var errInvalidConfig = errors.New(`prodcons: invalid config`)

// DefaultWaitLogRates returns the default value of Config.WaitLogRates.
func DefaultWaitLogRates() map[time.Duration]int {
	return map[time.Duration]int{time.Second: 4}
}

func defaultProduceDelay() time.Duration {
	return time.Duration(rand.IntN(10)) * 50 * time.Millisecond
}

func defaultConsumeDelay() time.Duration {
	return time.Duration(rand.IntN(14)) * 50 * time.Millisecond
}

func defaultWorkDelay() time.Duration {
	return time.Duration(rand.IntN(32768)/10) * time.Millisecond
}

func defaultSpawn(_ int, fn func(threadID int)) error {
	osthread.Go(fn)
	return nil
}

// resolve returns a copy of the config, with defaults applied, or an error
// if the config is invalid.
func (x *Config) resolve() (cfg Config, err error) {
	if x != nil {
		cfg = *x
	}

	if cfg.Deadline == nil {
		cfg.Deadline = deadline.Default()
	}
	if cfg.WaitLogRates == nil {
		cfg.WaitLogRates = DefaultWaitLogRates()
	}
	if cfg.Spawn == nil {
		cfg.Spawn = defaultSpawn
	}
	if cfg.ProduceDelay == nil {
		cfg.ProduceDelay = defaultProduceDelay
	}
	if cfg.ConsumeDelay == nil {
		cfg.ConsumeDelay = defaultConsumeDelay
	}
	if cfg.WorkDelay == nil {
		cfg.WorkDelay = defaultWorkDelay
	}

	defaultInt(&cfg.Capacity, DefaultCapacity)
	defaultInt(&cfg.TotalTasks, DefaultTotalTasks)
	defaultInt(&cfg.SemaphoreWorkers, DefaultSemaphoreWorkers)
	defaultInt(&cfg.SemaphorePermits, DefaultSemaphorePermits)
	if cfg.SemaphoreMaxCount == 0 {
		cfg.SemaphoreMaxCount = max(cfg.SemaphoreWorkers, cfg.SemaphorePermits)
	}

	defaultDuration(&cfg.Duration, DefaultDuration)
	defaultDuration(&cfg.LockFullPoll, DefaultLockFullPoll)
	defaultDuration(&cfg.LockEmptyPoll, DefaultLockEmptyPoll)
	defaultDuration(&cfg.EventFullTimeout, DefaultEventFullTimeout)
	defaultDuration(&cfg.EventEmptyTimeout, DefaultEventEmptyTimeout)
	defaultDuration(&cfg.SemaphoreRetry, DefaultSemaphoreRetry)

	switch {
	case cfg.Capacity < 0:
		err = fmt.Errorf(`%w: negative capacity: %d`, errInvalidConfig, cfg.Capacity)
	case cfg.TotalTasks < 0:
		err = fmt.Errorf(`%w: negative total tasks: %d`, errInvalidConfig, cfg.TotalTasks)
	case cfg.Duration < 0:
		err = fmt.Errorf(`%w: negative duration: %s`, errInvalidConfig, cfg.Duration)
	case cfg.LockFullPoll < 0, cfg.LockEmptyPoll < 0, cfg.EventFullTimeout < 0, cfg.EventEmptyTimeout < 0:
		err = fmt.Errorf(`%w: negative wait interval`, errInvalidConfig)
	case cfg.SemaphoreWorkers < 0:
		err = fmt.Errorf(`%w: negative semaphore workers: %d`, errInvalidConfig, cfg.SemaphoreWorkers)
	case cfg.SemaphorePermits < 0 || cfg.SemaphoreMaxCount < cfg.SemaphorePermits:
		err = fmt.Errorf(`%w: invalid semaphore counts: permits=%d max=%d`, errInvalidConfig, cfg.SemaphorePermits, cfg.SemaphoreMaxCount)
	}

	if cfg.SemaphoreRetry < 0 {
		cfg.SemaphoreRetry = 0
	}

	return
}

func defaultInt(v *int, d int) {
	if *v == 0 {
		*v = d
	}
}

func defaultDuration(v *time.Duration, d time.Duration) {
	if *v == 0 {
		*v = d
	}
}
