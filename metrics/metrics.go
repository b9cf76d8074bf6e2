// Package metrics exports Prometheus metrics for producer/consumer runs.
//
// All methods of Collector are safe to call on a nil receiver, which
// disables collection.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = `prodcons`

// Collector groups the metrics recorded by runs.
// Instances must be initialized using the New factory.
type Collector struct {
	itemsProduced  *prometheus.CounterVec
	itemsConsumed  *prometheus.CounterVec
	waits          *prometheus.CounterVec
	workerExits    *prometheus.CounterVec
	runs           *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	queueDepth     *prometheus.GaugeVec
	admittedActive *prometheus.GaugeVec
}

// New registers the metrics with registerer, which defaults to
// prometheus.DefaultRegisterer, if nil. A panic will occur if the metrics
// are already registered.
func New(registerer prometheus.Registerer) *Collector {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)
	return &Collector{
		itemsProduced: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      `items_produced_total`,
			Help:      `Items pushed onto the bounded queue.`,
		}, []string{`strategy`}),
		itemsConsumed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      `items_consumed_total`,
			Help:      `Items popped from the bounded queue.`,
		}, []string{`strategy`}),
		waits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      `waits_total`,
			Help:      `Bounded waits, by reason (full, empty, permit).`,
		}, []string{`strategy`, `role`, `reason`}),
		workerExits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      `worker_exits_total`,
			Help:      `Worker exits, by outcome.`,
		}, []string{`strategy`, `role`, `outcome`}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      `runs_total`,
			Help:      `Completed runs, by result code.`,
		}, []string{`strategy`, `code`}),
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      `run_duration_seconds`,
			Help:      `Wall time of runs, from arming the deadline to joining all workers.`,
			Buckets:   []float64{.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{`strategy`}),
		queueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      `queue_depth`,
			Help:      `Number of items in the bounded queue.`,
		}, []string{`strategy`}),
		admittedActive: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      `admitted_workers`,
			Help:      `Workers currently holding a semaphore permit.`,
		}, []string{`strategy`}),
	}
}

// Produced records an item pushed, and the resulting queue depth.
func (x *Collector) Produced(strategy string, depth int) {
	if x == nil {
		return
	}
	x.itemsProduced.WithLabelValues(strategy).Inc()
	x.queueDepth.WithLabelValues(strategy).Set(float64(depth))
}

// Consumed records an item popped, and the resulting queue depth.
func (x *Collector) Consumed(strategy string, depth int) {
	if x == nil {
		return
	}
	x.itemsConsumed.WithLabelValues(strategy).Inc()
	x.queueDepth.WithLabelValues(strategy).Set(float64(depth))
}

// Waited records a bounded wait.
func (x *Collector) Waited(strategy, role, reason string) {
	if x == nil {
		return
	}
	x.waits.WithLabelValues(strategy, role, reason).Inc()
}

// Admitted adjusts the number of workers holding a permit, by delta.
func (x *Collector) Admitted(strategy string, delta int) {
	if x == nil {
		return
	}
	x.admittedActive.WithLabelValues(strategy).Add(float64(delta))
}

// WorkerExited records the outcome of a single worker.
func (x *Collector) WorkerExited(strategy, role, outcome string) {
	if x == nil {
		return
	}
	x.workerExits.WithLabelValues(strategy, role, outcome).Inc()
}

// RunFinished records the result of a run.
func (x *Collector) RunFinished(strategy, code string, elapsed time.Duration) {
	if x == nil {
		return
	}
	x.runs.WithLabelValues(strategy, code).Inc()
	x.runDuration.WithLabelValues(strategy).Observe(elapsed.Seconds())
}
