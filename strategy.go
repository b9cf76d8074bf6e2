package prodcons

import (
	"fmt"
	"strconv"
	"strings"
)

type (
	// Strategy selects the coordination strategy of a run. The values match
	// the numbering of the interactive menu.
	Strategy int

	// Role models the part a worker plays in a run.
	Role int
)

const (
	// LockOnly guards the queue with a lock, held around each check and
	// mutation, and polls at a fixed interval while the queue is full or
	// empty.
	LockOnly Strategy = iota + 1

	// LockWithEvents guards the queue with a lock, and waits for dedicated
	// "space available" and "item available" events, with bounded timeouts.
	LockWithEvents

	// MutexWithEvents guards the queue with a failure-prone mutex, held
	// across both the full/empty decision and the mutation, and waits using
	// the same events as LockWithEvents.
	MutexWithEvents

	// CountingSemaphore runs N independent workers, admitted by a counting
	// semaphore, with fewer permits than workers.
	CountingSemaphore
)

const (
	RoleProducer Role = iota + 1
	RoleConsumer
	RoleWorker
)

// Strategies returns all valid strategies, in menu order.
func Strategies() []Strategy {
	return []Strategy{LockOnly, LockWithEvents, MutexWithEvents, CountingSemaphore}
}

// Valid returns true if x is one of the defined strategies.
func (x Strategy) Valid() bool {
	return x >= LockOnly && x <= CountingSemaphore
}

// String implements fmt.Stringer, returning the name accepted by
// ParseStrategy.
func (x Strategy) String() string {
	switch x {
	case LockOnly:
		return `lock`
	case LockWithEvents:
		return `lock-events`
	case MutexWithEvents:
		return `mutex-events`
	case CountingSemaphore:
		return `semaphore`
	default:
		return `Strategy(` + strconv.Itoa(int(x)) + `)`
	}
}

// Description returns a human-readable description, as shown in the menu.
func (x Strategy) Description() string {
	switch x {
	case LockOnly:
		return `Locks only (producer-consumer)`
	case LockWithEvents:
		return `Locks and events (producer-consumer)`
	case MutexWithEvents:
		return `Mutex and events (producer-consumer)`
	case CountingSemaphore:
		return `Counting semaphore (independent workers)`
	default:
		return x.String()
	}
}

// ParseStrategy parses either the name of a strategy (see Strategy.String),
// or its menu number.
func ParseStrategy(s string) (Strategy, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, v := range Strategies() {
		if s == v.String() || s == strconv.Itoa(int(v)) {
			return v, nil
		}
	}
	return 0, fmt.Errorf(`prodcons: unknown strategy: %q`, s)
}

// MarshalText implements encoding.TextMarshaler.
func (x Strategy) MarshalText() ([]byte, error) {
	if !x.Valid() {
		return nil, fmt.Errorf(`prodcons: invalid strategy: %d`, int(x))
	}
	return []byte(x.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, see ParseStrategy.
func (x *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*x = v
	return nil
}

// String implements fmt.Stringer.
func (x Role) String() string {
	switch x {
	case RoleProducer:
		return `producer`
	case RoleConsumer:
		return `consumer`
	case RoleWorker:
		return `worker`
	default:
		return `Role(` + strconv.Itoa(int(x)) + `)`
	}
}
