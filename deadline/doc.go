// Package deadline implements a cooperative stop signal, shared by any number
// of goroutines, which fires once a fixed countdown elapses.
//
// Workers poll Deadline.Status between bounded units of work. There is no
// forced interruption, a worker observes the stop with at most the
// granularity of its own polling.
package deadline
