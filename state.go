package prodcons

import (
	"sync"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/go-prodcons/boundedqueue"
	"github.com/joeycumines/go-prodcons/deadline"
	"github.com/joeycumines/go-prodcons/syncobj"
	"github.com/joeycumines/logiface"
)

// state is shared by the workers of a single run.
type state struct {
	cfg      Config
	id       string
	strategy Strategy
	deadline *deadline.Deadline
	log      *logiface.Logger[logiface.Event]
	limiter  *catrate.Limiter // nil disables wait log limiting

	queue *boundedqueue.Queue[int]

	// lock guards queue, for LockOnly and LockWithEvents
	lock sync.Mutex

	// mutex guards queue, for MutexWithEvents
	mutex *syncobj.Mutex

	// space and item signal "space available" and "item available", for
	// LockWithEvents and MutexWithEvents
	space *syncobj.Event
	item  *syncobj.Event

	sem *syncobj.Semaphore

	// the following are guarded by the queue's access discipline

	produced int
	consumed int
	items    []int

	counterMu  sync.Mutex
	counter    int
	active     int
	maxActive  int
	admissions int
}

func newState(id string, strategy Strategy, cfg Config) *state {
	x := state{
		cfg:      cfg,
		id:       id,
		strategy: strategy,
		deadline: cfg.Deadline,
		log: cfg.Logger.Clone().
			Str(`run_id`, id).
			Str(`strategy`, strategy.String()).
			Logger(),
	}
	if len(cfg.WaitLogRates) != 0 {
		x.limiter = catrate.NewLimiter(cfg.WaitLogRates)
	}
	return &x
}

// open creates the synchronization objects required by the strategy.
func (x *state) open() {
	switch x.strategy {
	case LockOnly:
		x.queue = boundedqueue.New[int](x.cfg.Capacity)
	case LockWithEvents:
		x.queue = boundedqueue.New[int](x.cfg.Capacity)
		x.space = syncobj.NewEvent()
		x.item = syncobj.NewEvent()
	case MutexWithEvents:
		x.queue = boundedqueue.New[int](x.cfg.Capacity)
		x.mutex = syncobj.NewMutex()
		x.space = syncobj.NewEvent()
		x.item = syncobj.NewEvent()
	case CountingSemaphore:
		x.sem = syncobj.NewSemaphore(int64(x.cfg.SemaphorePermits), int64(x.cfg.SemaphoreMaxCount))
		x.counter = x.cfg.SemaphorePermits
	}
}

// close releases the synchronization objects, after all workers exit.
func (x *state) close() {
	if x.mutex != nil {
		_ = x.mutex.Close()
	}
	if x.space != nil {
		_ = x.space.Close()
	}
	if x.item != nil {
		_ = x.item.Close()
	}
	if x.sem != nil {
		_ = x.sem.Close()
	}
}

// roles returns the workers to spawn, in start order.
func (x *state) roles() []Role {
	if x.strategy == CountingSemaphore {
		roles := make([]Role, x.cfg.SemaphoreWorkers)
		for i := range roles {
			roles[i] = RoleWorker
		}
		return roles
	}
	return []Role{RoleProducer, RoleConsumer}
}

func (x *state) usesEvents() bool {
	return x.strategy == LockWithEvents || x.strategy == MutexWithEvents
}
