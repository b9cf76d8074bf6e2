package prodcons

import (
	"errors"
	"strconv"
)

type (
	// Outcome is the exit status of a single worker.
	Outcome int

	// Code is the result code of a run. The values are stable, and are used
	// as process exit codes.
	Code int

	// RunError is returned by Run, on failure.
	RunError struct {
		// Err wraps both the sentinel error for Code, and the cause.
		Err  error
		Code Code
	}
)

const (
	// OutcomeOK indicates the worker finished its work.
	OutcomeOK Outcome = iota
	// OutcomeTimedOut indicates the worker exited cleanly, on the deadline.
	OutcomeTimedOut
	// OutcomeSyncError indicates a synchronization object failed.
	OutcomeSyncError
	// OutcomeRuntimeError indicates a queue capacity violation.
	OutcomeRuntimeError
	// OutcomeUnknownError indicates an unanticipated failure, e.g. a panic.
	OutcomeUnknownError
)

const (
	CodeOK      Code = 0
	CodeSync    Code = 1
	CodeRuntime Code = 2
	CodeAPI     Code = 3
	CodeUnknown Code = 4
)

var (
	// ErrSync indicates that not all workers finished correctly, due to a
	// synchronization failure, including an abandoned mutex.
	ErrSync = errors.New(`prodcons: not all threads finished correctly`)

	// ErrRuntime indicates a worker failed due to a queue capacity violation.
	ErrRuntime = errors.New(`prodcons: runtime error`)

	// ErrAPI indicates the run could not be set up, e.g. the deadline could
	// not be armed, or not all workers could be started.
	ErrAPI = errors.New(`prodcons: api error`)

	// ErrUnknown indicates a worker failed unexpectedly.
	ErrUnknown = errors.New(`prodcons: unknown error`)
)

// Failed returns true if the outcome should fail the run. Note that
// OutcomeTimedOut is not a failure.
func (x Outcome) Failed() bool {
	return x != OutcomeOK && x != OutcomeTimedOut
}

// String implements fmt.Stringer.
func (x Outcome) String() string {
	switch x {
	case OutcomeOK:
		return `ok`
	case OutcomeTimedOut:
		return `timed_out`
	case OutcomeSyncError:
		return `sync_error`
	case OutcomeRuntimeError:
		return `runtime_error`
	case OutcomeUnknownError:
		return `unknown_error`
	default:
		return `Outcome(` + strconv.Itoa(int(x)) + `)`
	}
}

// code maps a failed worker outcome to the run code it implies.
func (x Outcome) code() Code {
	switch x {
	case OutcomeOK, OutcomeTimedOut:
		return CodeOK
	case OutcomeSyncError:
		return CodeSync
	case OutcomeRuntimeError:
		return CodeRuntime
	default:
		return CodeUnknown
	}
}

// String implements fmt.Stringer.
func (x Code) String() string {
	switch x {
	case CodeOK:
		return `ok`
	case CodeSync:
		return `sync_error`
	case CodeRuntime:
		return `runtime_error`
	case CodeAPI:
		return `api_error`
	case CodeUnknown:
		return `unknown_error`
	default:
		return `Code(` + strconv.Itoa(int(x)) + `)`
	}
}

func (x Code) sentinel() error {
	switch x {
	case CodeSync:
		return ErrSync
	case CodeRuntime:
		return ErrRuntime
	case CodeAPI:
		return ErrAPI
	default:
		return ErrUnknown
	}
}

// severity orders failure codes, for reduction of worker outcomes
func (x Code) severity() int {
	switch x {
	case CodeOK:
		return 0
	case CodeUnknown:
		return 1
	case CodeRuntime:
		return 2
	case CodeSync:
		return 3
	default:
		return 4
	}
}

func newRunError(code Code, cause error) *RunError {
	err := code.sentinel()
	if cause != nil {
		err = errors.Join(err, cause)
	}
	return &RunError{Code: code, Err: err}
}

func (x *RunError) Error() string {
	return x.Err.Error()
}

func (x *RunError) Unwrap() error {
	return x.Err
}

// CodeOf returns the Code of err, which will be CodeOK if err is nil, and
// CodeUnknown if err is not a RunError.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var runErr *RunError
	if errors.As(err, &runErr) {
		return runErr.Code
	}
	return CodeUnknown
}
