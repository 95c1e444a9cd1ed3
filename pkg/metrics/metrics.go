// Package metrics exports engine and renderer activity as Prometheus
// metrics.
//
// A Collector implements reactive.Observer and renderer.Recorder, so it can
// be attached to both:
//
//	m := metrics.New(metrics.WithRegistry(reg))
//	store := reactive.NewStore(reactive.WithObserver(m))
//	r := renderer.New(m.Host(doc), renderer.WithStore(store), renderer.WithRecorder(m))
//	http.Handle("/metrics", metrics.Handler(reg))
//
// The collectors are registered once per Collector; use a private
// prometheus.Registry per Collector when several coexist (tests, multiple
// preview sessions).
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/reactor/pkg/reactive"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "reactor").
	Namespace string

	Subsystem string

	ConstLabels prometheus.Labels

	// Buckets are the render duration histogram buckets.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry defaults to prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
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

// WithRegistry sets the Prometheus registerer.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "reactor",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector holds the engine collectors.
type Collector struct {
	tracks         *prometheus.CounterVec
	triggers       *prometheus.CounterVec
	effectsQueued  prometheus.Counter
	effectRuns     prometheus.Counter
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	hostOps        *prometheus.CounterVec
}

// New creates and registers a Collector.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}

	return &Collector{
		tracks:   counter("tracks_total", "Dependency reads recorded by the active effect", "op"),
		triggers: counter("triggers_total", "Mutations that notified dependents", "op"),
		effectsQueued: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggered_effects_total",
			Help:        "Effects collected by triggers",
			ConstLabels: config.ConstLabels,
		}),
		effectRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Effect executions",
			ConstLabels: config.ConstLabels,
		}),
		renders: counter("renders_total", "Render passes by operation", "op"),
		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"op"}),
		hostOps: counter("host_ops_total", "Host tree mutations", "op"),
	}
}

// ObserveTrack implements reactive.Observer.
func (c *Collector) ObserveTrack(op reactive.TrackOp) {
	c.tracks.WithLabelValues(op.String()).Inc()
}

// ObserveTrigger implements reactive.Observer.
func (c *Collector) ObserveTrigger(op reactive.TriggerOp, effects int) {
	c.triggers.WithLabelValues(op.String()).Inc()
	c.effectsQueued.Add(float64(effects))
}

// ObserveEffectRun implements reactive.Observer.
func (c *Collector) ObserveEffectRun() {
	c.effectRuns.Inc()
}

// ObserveRender implements renderer.Recorder.
func (c *Collector) ObserveRender(op string, d time.Duration) {
	c.renders.WithLabelValues(op).Inc()
	c.renderDuration.WithLabelValues(op).Observe(d.Seconds())
}

// Handler serves the metrics gathered by g. A nil g serves the default
// gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
