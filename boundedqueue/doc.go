// Package boundedqueue implements a fixed-capacity FIFO, which reports
// capacity violations as errors rather than growing or blocking.
//
// A Queue performs no locking. Callers that share a Queue between goroutines
// must provide exclusive access themselves, e.g. see the strategies
// implemented by [github.com/joeycumines/go-prodcons].
package boundedqueue
