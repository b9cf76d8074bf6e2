package boundedqueue

import (
	"errors"
)

var (
	// ErrOverflow is returned by Queue.Push, if the queue is full.
	ErrOverflow = errors.New(`boundedqueue: overflow: queue is full`)

	// ErrUnderflow is returned by Queue.PopFront and Queue.Front, if the
	// queue is empty.
	ErrUnderflow = errors.New(`boundedqueue: underflow: queue is empty`)
)

// Queue is a FIFO with a fixed capacity, backed by a ring buffer.
// Instances must be initialized using the New factory.
type Queue[T any] struct {
	s []T
	// r is the index of the head, n the number of values
	r, n int
}

// New initializes a Queue, able to hold at most capacity values. A panic
// will occur if capacity is not positive.
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		panic(`boundedqueue: capacity must be positive`)
	}
	return &Queue[T]{s: make([]T, capacity)}
}

func (x *Queue[T]) index(i int) int {
	i += x.r
	if i >= len(x.s) {
		i -= len(x.s)
	}
	return i
}

// Len returns the number of values currently in the queue.
func (x *Queue[T]) Len() int {
	return x.n
}

// Cap returns the fixed capacity of the queue.
func (x *Queue[T]) Cap() int {
	return len(x.s)
}

// IsFull returns true if Push would fail.
func (x *Queue[T]) IsFull() bool {
	return x.n == len(x.s)
}

// IsEmpty returns true if PopFront would fail.
func (x *Queue[T]) IsEmpty() bool {
	return x.n == 0
}

// Push appends value at the tail, or returns ErrOverflow, leaving the queue
// unmodified.
func (x *Queue[T]) Push(value T) error {
	if x.IsFull() {
		return ErrOverflow
	}
	x.s[x.index(x.n)] = value
	x.n++
	return nil
}

// Front returns the value at the head, without removing it, or ErrUnderflow.
func (x *Queue[T]) Front() (value T, err error) {
	if x.IsEmpty() {
		err = ErrUnderflow
		return
	}
	return x.s[x.r], nil
}

// PopFront removes and returns the value at the head, or returns
// ErrUnderflow, leaving the queue unmodified.
func (x *Queue[T]) PopFront() (value T, err error) {
	if x.IsEmpty() {
		err = ErrUnderflow
		return
	}
	var zero T
	value, x.s[x.r] = x.s[x.r], zero // don't retain references
	x.r = x.index(1)
	x.n--
	if x.n == 0 {
		// rewind, while empty
		x.r = 0
	}
	return value, nil
}

// Slice returns a copy of the values, from head to tail.
func (x *Queue[T]) Slice() (b []T) {
	if x.n != 0 {
		b = make([]T, x.n)
		for i := range b {
			b[i] = x.s[x.index(i)]
		}
	}
	return b
}
