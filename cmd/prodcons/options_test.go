package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joeycumines/go-prodcons"
	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), `prodcons.toml`)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseOptions_flags(t *testing.T) {
	opts, err := parseOptions([]string{
		`-strategy`, `mutex-events`,
		`-capacity`, `3`,
		`-tasks`, `10`,
		`-duration`, `2s`,
		`-workers`, `5`,
		`-permits`, `4`,
		`-wait-log-rate`, `-1`,
		`-log-level`, `debug`,
		`-metrics-addr`, `localhost:0`,
	}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, &options{
		Strategy:    prodcons.MutexWithEvents,
		Capacity:    3,
		TotalTasks:  10,
		Duration:    2 * time.Second,
		Workers:     5,
		Permits:     4,
		WaitLogRate: -1,
		LogLevel:    `debug`,
		MetricsAddr: `localhost:0`,
	}, opts)
}

func TestParseOptions_fileWithOverrides(t *testing.T) {
	path := writeConfig(t, `
strategy = "semaphore"
capacity = 4
total_tasks = 12
duration = "3s"
semaphore_workers = 6
semaphore_permits = 3
log_level = "trace"
wait_log_rate = 10

[waits]
lock_full_poll = "10ms"
lock_empty_poll = "20ms"
event_full_timeout = "30ms"
event_empty_timeout = "40ms"
semaphore_retry = "1ms"
`)

	opts, err := parseOptions([]string{`-config`, path, `-capacity`, `7`, `-strategy`, `2`}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, &options{
		Waits: waitOptions{
			LockFullPoll:      10 * time.Millisecond,
			LockEmptyPoll:     20 * time.Millisecond,
			EventFullTimeout:  30 * time.Millisecond,
			EventEmptyTimeout: 40 * time.Millisecond,
			SemaphoreRetry:    time.Millisecond,
		},
		LogLevel:    `trace`,
		Duration:    3 * time.Second,
		Strategy:    prodcons.LockWithEvents,
		Capacity:    7,
		TotalTasks:  12,
		Workers:     6,
		Permits:     3,
		WaitLogRate: 10,
	}, opts)

	cfg := opts.config()
	assert.Equal(t, 7, cfg.Capacity)
	assert.Equal(t, 12, cfg.TotalTasks)
	assert.Equal(t, 3*time.Second, cfg.Duration)
	assert.Equal(t, 6, cfg.SemaphoreWorkers)
	assert.Equal(t, 3, cfg.SemaphorePermits)
	assert.Equal(t, 40*time.Millisecond, cfg.EventEmptyTimeout)
	assert.Equal(t, map[time.Duration]int{time.Second: 10}, cfg.WaitLogRates)
	assert.Nil(t, cfg.Deadline)
}

func TestParseOptions_errors(t *testing.T) {
	for _, tc := range [...]struct {
		name string
		args func(t *testing.T) []string
	}{
		{`unknown flag`, func(*testing.T) []string { return []string{`-nope`} }},
		{`invalid strategy`, func(*testing.T) []string { return []string{`-strategy`, `5`} }},
		{`positional`, func(*testing.T) []string { return []string{`lock`} }},
		{`missing file`, func(t *testing.T) []string {
			return []string{`-config`, filepath.Join(t.TempDir(), `missing.toml`)}
		}},
		{`unknown key`, func(t *testing.T) []string {
			return []string{`-config`, writeConfig(t, "capacity = 1\nsome_key = true\n")}
		}},
		{`invalid file strategy`, func(t *testing.T) []string {
			return []string{`-config`, writeConfig(t, `strategy = "nope"`)}
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseOptions(tc.args(t), io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestParseOptions_help(t *testing.T) {
	_, err := parseOptions([]string{`-h`}, io.Discard)
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestOptions_logLevel(t *testing.T) {
	for in, want := range map[string]logiface.Level{
		``:         logiface.LevelInformational,
		`off`:      logiface.LevelDisabled,
		`disabled`: logiface.LevelDisabled,
		`ERR`:      logiface.LevelError,
		`warning`:  logiface.LevelWarning,
		` trace `:  logiface.LevelTrace,
	} {
		got, err := (&options{LogLevel: in}).logLevel()
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := (&options{LogLevel: `verbose`}).logLevel()
	assert.Error(t, err)
}

func TestOptions_config_waitLogRates(t *testing.T) {
	assert.Nil(t, (&options{}).config().WaitLogRates)
	assert.Equal(t, map[time.Duration]int{}, (&options{WaitLogRate: -1}).config().WaitLogRates)
}
