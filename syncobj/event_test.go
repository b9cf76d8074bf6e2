package syncobj

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_autoReset(t *testing.T) {
	e := NewEvent()
	assert.False(t, e.IsSet())
	require.NoError(t, e.Set())
	require.NoError(t, e.Set()) // binary, not counting
	assert.True(t, e.IsSet())

	ok, err := e.Wait(time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, e.IsSet(), `wait should consume the signal`)

	ok, err = e.Wait(0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvent_Reset(t *testing.T) {
	e := NewEvent()
	require.NoError(t, e.Set())
	require.NoError(t, e.Reset())
	assert.False(t, e.IsSet())
	require.NoError(t, e.Reset())

	start := time.Now()
	ok, err := e.Wait(30 * time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestEvent_wakesWaiter(t *testing.T) {
	e := NewEvent()
	result := make(chan bool, 1)
	go func() {
		ok, err := e.Wait(5 * time.Second)
		if err != nil {
			t.Error(err)
		}
		result <- ok
	}()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, e.Set())
	select {
	case ok := <-result:
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal(`waiter not woken`)
	}
}

// a signal raised between reset and wait must not be lost
func TestEvent_resetBeforeWaitKeepsLateSignal(t *testing.T) {
	e := NewEvent()
	require.NoError(t, e.Reset())
	require.NoError(t, e.Set()) // e.g. the other side signalled after our check
	ok, err := e.Wait(10 * time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvent_Close(t *testing.T) {
	e := NewEvent()
	result := make(chan error, 1)
	go func() {
		_, err := e.Wait(5 * time.Second)
		result <- err
	}()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	select {
	case err := <-result:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(5 * time.Second):
		t.Fatal(`waiter not woken by close`)
	}
	assert.ErrorIs(t, e.Set(), ErrClosed)
	assert.ErrorIs(t, e.Reset(), ErrClosed)
	_, err := e.Wait(0)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestEvent_WaitUntil_stop(t *testing.T) {
	e := NewEvent()
	stop := make(chan struct{})
	result := make(chan bool, 1)
	go func() {
		ok, err := e.WaitUntil(time.Minute, stop)
		if err != nil {
			t.Error(err)
		}
		result <- ok
	}()
	time.Sleep(20 * time.Millisecond)
	close(stop)
	select {
	case ok := <-result:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal(`waiter not stopped`)
	}

	// the signal is left for the next waiter
	require.NoError(t, e.Set())
	ok, err := e.WaitUntil(time.Minute, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}
