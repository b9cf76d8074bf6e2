// Package prodcons runs the bounded-buffer producer/consumer problem, using
// one of several interchangeable coordination strategies, with all workers
// stopped cooperatively by a shared deadline.
//
// A run is started with Run, which arms the deadline, creates the
// synchronization objects required by the chosen Strategy, starts the
// workers (each locked to its own OS thread), waits for all of them to exit,
// and reduces their individual outcomes into a single result.
//
// The producer/consumer strategies (LockOnly, LockWithEvents, and
// MutexWithEvents) share a single producer and a single consumer, which
// differ only in how they gain exclusive access to the queue, and in how
// they wait for space or items. CountingSemaphore instead admits N
// independent workers, through a semaphore with fewer permits than workers.
package prodcons
