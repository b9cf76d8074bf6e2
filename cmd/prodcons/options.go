package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joeycumines/go-prodcons"
	"github.com/joeycumines/logiface"
)

type (
	// options models the CLI configuration, which may be loaded from a TOML
	// file, with any flags taking precedence.
	options struct {
		Waits       waitOptions       `toml:"waits"`
		LogLevel    string            `toml:"log_level"`
		MetricsAddr string            `toml:"metrics_addr"`
		Report      string            `toml:"report"`
		Duration    time.Duration     `toml:"duration"`
		Strategy    prodcons.Strategy `toml:"strategy"`
		Capacity    int               `toml:"capacity"`
		TotalTasks  int               `toml:"total_tasks"`
		Workers     int               `toml:"semaphore_workers"`
		Permits     int               `toml:"semaphore_permits"`
		// WaitLogRate limits "waiting" diagnostics, per second, per worker.
		// Zero uses the default, and a negative value disables the limit.
		WaitLogRate int `toml:"wait_log_rate"`
	}

	waitOptions struct {
		LockFullPoll      time.Duration `toml:"lock_full_poll"`
		LockEmptyPoll     time.Duration `toml:"lock_empty_poll"`
		EventFullTimeout  time.Duration `toml:"event_full_timeout"`
		EventEmptyTimeout time.Duration `toml:"event_empty_timeout"`
		SemaphoreRetry    time.Duration `toml:"semaphore_retry"`
	}
)

func (x *options) bind(fs *flag.FlagSet) {
	fs.TextVar(&x.Strategy, `strategy`, x.Strategy, `strategy to run once, without the menu: lock, lock-events, mutex-events, semaphore (or 1-4)`)
	fs.IntVar(&x.Capacity, `capacity`, x.Capacity, `queue capacity (default 8)`)
	fs.IntVar(&x.TotalTasks, `tasks`, x.TotalTasks, `items sent by the producer (default 30)`)
	fs.DurationVar(&x.Duration, `duration`, x.Duration, `deadline of each run (default 16s)`)
	fs.IntVar(&x.Workers, `workers`, x.Workers, `semaphore workers (default 3)`)
	fs.IntVar(&x.Permits, `permits`, x.Permits, `initial semaphore permits (default 2)`)
	fs.IntVar(&x.WaitLogRate, `wait-log-rate`, x.WaitLogRate, `max "waiting" log events per second, per worker, negative for unlimited (default 4)`)
	fs.StringVar(&x.LogLevel, `log-level`, x.LogLevel, `log level: disabled, emerg, alert, crit, err, warning, notice, info, debug, trace (default info)`)
	fs.StringVar(&x.MetricsAddr, `metrics-addr`, x.MetricsAddr, `serve prometheus metrics on this address, e.g. localhost:9090`)
	fs.StringVar(&x.Report, `report`, x.Report, `write a TOML report of the last run to this file`)
}

// parseOptions parses args, loading the file given by the -config flag, if
// any, before applying the remaining flags.
func parseOptions(args []string, output io.Writer) (*options, error) {
	var (
		cli  options
		path string
	)
	fs := flag.NewFlagSet(`prodcons`, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&path, `config`, ``, `TOML config file`)
	cli.bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, fmt.Errorf(`unexpected arguments: %q`, fs.Args())
	}

	if path == `` {
		return &cli, nil
	}

	var file options
	if err := loadOptions(path, &file); err != nil {
		return nil, err
	}

	// flags take precedence
	overrides := flag.NewFlagSet(`overrides`, flag.ContinueOnError)
	overrides.SetOutput(io.Discard)
	file.bind(overrides)
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil || overrides.Lookup(f.Name) == nil {
			return
		}
		err = overrides.Set(f.Name, f.Value.String())
	})
	if err != nil {
		return nil, err
	}

	return &file, nil
}

func loadOptions(path string, x *options) error {
	md, err := toml.DecodeFile(path, x)
	if err != nil {
		return fmt.Errorf(`config %s: %w`, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return fmt.Errorf(`config %s: unknown keys: %v`, path, undecoded)
	}
	return nil
}

func (x *options) logLevel() (logiface.Level, error) {
	s := strings.ToLower(strings.TrimSpace(x.LogLevel))
	switch s {
	case ``:
		return logiface.LevelInformational, nil
	case `off`, `none`:
		return logiface.LevelDisabled, nil
	}
	for level := logiface.LevelDisabled; level <= logiface.LevelTrace; level++ {
		if level.String() == s {
			return level, nil
		}
	}
	return 0, fmt.Errorf(`invalid log level: %q`, x.LogLevel)
}

// config returns the run config, which uses the process-wide deadline.
func (x *options) config() *prodcons.Config {
	cfg := prodcons.Config{
		Capacity:          x.Capacity,
		TotalTasks:        x.TotalTasks,
		Duration:          x.Duration,
		SemaphoreWorkers:  x.Workers,
		SemaphorePermits:  x.Permits,
		LockFullPoll:      x.Waits.LockFullPoll,
		LockEmptyPoll:     x.Waits.LockEmptyPoll,
		EventFullTimeout:  x.Waits.EventFullTimeout,
		EventEmptyTimeout: x.Waits.EventEmptyTimeout,
		SemaphoreRetry:    x.Waits.SemaphoreRetry,
	}
	switch {
	case x.WaitLogRate < 0:
		cfg.WaitLogRates = map[time.Duration]int{}
	case x.WaitLogRate > 0:
		cfg.WaitLogRates = map[time.Duration]int{time.Second: x.WaitLogRate}
	}
	return &cfg
}
