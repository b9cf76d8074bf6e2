// Command prodcons runs the bounded-buffer producer/consumer problem, using
// a strategy selected from an interactive menu, or by the -strategy flag.
//
// The exit code is the result code of the last run: 0 for success, 1 if not
// all threads finished correctly, 2 for a queue capacity violation, 3 for an
// API error, and 4 for an unknown error.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/joeycumines/go-prodcons"
	"github.com/joeycumines/go-prodcons/internal/menu"
	"github.com/joeycumines/go-prodcons/metrics"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/automaxprocs/maxprocs"
)

const exitUsage = 64

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// lockedWriter serializes writes from concurrent workers
type lockedWriter struct {
	w  io.Writer
	mu sync.Mutex
}

func (x *lockedWriter) Write(p []byte) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.w.Write(p)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	level, err := opts.logLevel()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(&lockedWriter{w: stderr})),
		stumpy.L.WithLevel(level),
	).Logger()

	if undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug().Logf(format, args...)
	})); err != nil {
		logger.Warning().Err(err).Log(`failed to set GOMAXPROCS`)
	} else {
		defer undo()
	}

	if limit, err := memlimit.SetGoMemLimitWithOpts(
		memlimit.WithProvider(memlimit.ApplyFallback(memlimit.FromCgroup, memlimit.FromSystem)),
	); err != nil {
		logger.Debug().Err(err).Log(`GOMEMLIMIT unchanged`)
	} else {
		logger.Debug().Int64(`limit`, limit).Log(`set GOMEMLIMIT`)
	}

	cfg := opts.config()
	cfg.Logger = logger

	if opts.MetricsAddr != `` {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		cfg.Metrics = metrics.New(reg)
		addr, shutdown, err := serveMetrics(opts.MetricsAddr, reg, logger)
		if err != nil {
			logger.Err().Err(err).Str(`addr`, opts.MetricsAddr).Log(`failed to serve metrics`)
			return int(prodcons.CodeAPI)
		}
		defer shutdown()
		logger.Info().Str(`addr`, addr).Log(`serving metrics`)
	}

	runOnce := func(ctx context.Context, strategy prodcons.Strategy) error {
		res, err := prodcons.Run(ctx, strategy, cfg)
		if opts.Report != `` {
			if err := writeReport(opts.Report, newReport(strategy, res, err)); err != nil {
				logger.Err().Err(err).Str(`path`, opts.Report).Log(`failed to write report`)
			}
		}
		return err
	}

	if opts.Strategy != 0 {
		code := prodcons.CodeOf(runOnce(ctx, opts.Strategy))
		fmt.Fprintln(stdout, menu.Message(code))
		return int(code)
	}

	code, err := menu.Loop(ctx, stdin, stdout, runOnce)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Err().Err(err).Log(`menu failed`)
		if code == prodcons.CodeOK {
			code = prodcons.CodeUnknown
		}
	}
	return int(code)
}

// serveMetrics serves the registry on addr, at /metrics, returning the
// actual listen address, and a function to stop the server.
func serveMetrics(addr string, reg *prometheus.Registry, logger *logiface.Logger[logiface.Event]) (string, func(), error) {
	ln, err := net.Listen(`tcp`, addr)
	if err != nil {
		return ``, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(`/metrics`, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Err().Err(err).Log(`metrics server failed`)
		}
	}()

	return ln.Addr().String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		<-done
	}, nil
}
