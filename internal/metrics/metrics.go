// Package metrics records per-step Prometheus metrics for a scaffolding run
// and can export them in the node-exporter textfile format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Config configures a Recorder.
type Config struct {
	// Namespace is the metrics namespace (default: "nextbase").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for step duration.
	// Default: 0.1s to ~7min, exponential.
	Buckets []float64
}

// Option configures a Recorder.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "nextbase",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 13),
	}
}

// Recorder holds the metrics of one run in a private registry.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry
	steps    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder(opts ...Option) *Recorder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "setup_steps_total",
			Help:        "Setup steps by name and outcome.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"step", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Name:        "setup_step_duration_seconds",
			Help:        "Wall-clock duration of setup steps that ran.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"step"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "runs_total",
			Help:        "Scaffolding runs by outcome.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"outcome"}),
	}
	r.registry.MustRegister(r.steps, r.duration, r.runs)
	return r
}

// ObserveStep records one step outcome. Skipped steps get no duration sample.
func (r *Recorder) ObserveStep(step, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.steps.WithLabelValues(step, outcome).Inc()
	if outcome != OutcomeSkipped {
		r.duration.WithLabelValues(step).Observe(d.Seconds())
	}
}

// ObserveRun records the outcome of a whole run.
func (r *Recorder) ObserveRun(outcome string) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(outcome).Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
