// Package metrics exports check-run counters as Prometheus metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roach88/ltlcheck/internal/ltl"
)

const namespace = "ltlcheck"

// Collector records monitor activity. All metrics are registered on the
// registry passed to New, never on the global default.
type Collector struct {
	registry    *prometheus.Registry
	steps       *prometheus.CounterVec
	verdicts    *prometheus.CounterVec
	errors      *prometheus.CounterVec
	traceLength *prometheus.HistogramVec
}

// New creates a collector on a fresh registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "States consumed by the monitor, by scenario and partial verdict.",
		}, []string{"scenario", "validity"}),
		verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Completed checks by scenario and final verdict.",
		}, []string{"scenario", "verdict"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Checks aborted by an evaluation error, by error code.",
		}, []string{"scenario", "code"}),
		traceLength: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trace_length",
			Help:      "Number of states consumed per completed check.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"scenario"}),
	}
}

// Registry returns the registry the collector's metrics live on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveStep counts one consumed state.
func (c *Collector) ObserveStep(scenario string, pv ltl.PartialValidity) {
	c.steps.WithLabelValues(scenario, pv.Validity.String()).Inc()
}

// ObserveVerdict counts a completed check.
func (c *Collector) ObserveVerdict(scenario string, verdict ltl.Validity, steps int) {
	c.verdicts.WithLabelValues(scenario, verdict.String()).Inc()
	c.traceLength.WithLabelValues(scenario).Observe(float64(steps))
}

// ObserveError counts a check that stopped with err. Errors that are not
// evaluation errors are counted under code "OTHER".
func (c *Collector) ObserveError(scenario string, err error) {
	code := "OTHER"
	var evalErr *ltl.EvalError
	if errors.As(err, &evalErr) {
		code = string(evalErr.Code)
	}
	c.errors.WithLabelValues(scenario, code).Inc()
}

// WriteFile writes the current metrics in the Prometheus text format,
// for node_exporter's textfile collector.
func (c *Collector) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
