package prodcons

import (
	"bufio"
	"bytes"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/joeycumines/go-prodcons/deadline"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// syncBuffer serializes writes, as the stumpy writer is not synchronized
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (x *syncBuffer) Write(p []byte) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.buf.Write(p)
}

// Events decodes the JSON lines written so far.
func (x *syncBuffer) Events(t *testing.T) (events []map[string]any) {
	t.Helper()
	x.mu.Lock()
	defer x.mu.Unlock()
	scanner := bufio.NewScanner(bytes.NewReader(x.buf.Bytes()))
	for scanner.Scan() {
		var event map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf(`invalid log line %q: %v`, scanner.Text(), err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
	return
}

func newTestLogger(w *syncBuffer, level logiface.Level) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w), stumpy.WithTimeField(``)),
		stumpy.L.WithLevel(level),
	).Logger()
}

func zeroDelay() time.Duration { return 0 }

// testConfig returns a fast config, with a private deadline.
func testConfig() *Config {
	return &Config{
		Deadline:          deadline.New(),
		ProduceDelay:      zeroDelay,
		ConsumeDelay:      zeroDelay,
		WorkDelay:         func() time.Duration { return 2 * time.Millisecond },
		Duration:          5 * time.Second,
		LockFullPoll:      2 * time.Millisecond,
		LockEmptyPoll:     2 * time.Millisecond,
		EventFullTimeout:  50 * time.Millisecond,
		EventEmptyTimeout: 50 * time.Millisecond,
		SemaphoreRetry:    time.Millisecond,
	}
}

// countMessages returns the number of events with the message msg.
func countMessages(events []map[string]any, msg string) (n int) {
	for _, event := range events {
		if event[`msg`] == msg {
			n++
		}
	}
	return
}
