// Package promobs exports the metrics of an observability.Provider to
// Prometheus. Spans and log calls are forwarded to a wrapped provider.
//
//	reg := prometheus.NewRegistry()
//	observer := promobs.New(reg, slogobs.New())
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package promobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leofalp/agentils/providers/observability"
)

// DefaultLabels are the attribute keys turned into metric labels.
var DefaultLabels = []string{
	observability.AttrLLMModel,
	observability.AttrLLMOutputMode,
	observability.AttrStatus,
	observability.AttrToolName,
}

// Option configures [New].
type Option func(*Observer)

// WithNamespace prefixes every metric name.
func WithNamespace(namespace string) Option {
	return func(o *Observer) {
		o.namespace = namespace
	}
}

// WithLabels replaces [DefaultLabels]. Attributes with other keys are not
// exported.
func WithLabels(keys ...string) Option {
	return func(o *Observer) {
		o.labelKeys = keys
	}
}

// WithBuckets sets the histogram buckets. The default is
// prometheus.DefBuckets.
func WithBuckets(buckets ...float64) Option {
	return func(o *Observer) {
		o.buckets = buckets
	}
}

// Observer implements observability.Provider. Metric instruments are
// created on first use and registered with the registerer.
type Observer struct {
	observability.Tracer
	observability.Logger

	registerer prometheus.Registerer
	namespace  string
	labelKeys  []string
	buckets    []float64

	mu         sync.Mutex
	counters   map[string]*counter
	histograms map[string]*histogram
}

var _ observability.Provider = (*Observer)(nil)

// New returns an observer registering metrics with reg. A nil next
// provider discards spans and logs.
func New(reg prometheus.Registerer, next observability.Provider, opts ...Option) *Observer {
	if next == nil {
		next = observability.Nop()
	}
	o := &Observer{
		Tracer:     next,
		Logger:     next,
		registerer: reg,
		labelKeys:  DefaultLabels,
		buckets:    prometheus.DefBuckets,
		counters:   make(map[string]*counter),
		histograms: make(map[string]*histogram),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Counter returns a Prometheus counter vector named after name with dots
// replaced by underscores and a "_total" suffix.
func (o *Observer) Counter(name string) observability.Counter {
	o.mu.Lock()
	defer o.mu.Unlock()
	if c, ok := o.counters[name]; ok {
		return c
	}

	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: o.namespace,
		Name:      metricName(name) + "_total",
		Help:      fmt.Sprintf("Counter %s.", name),
	}, labelNames(o.labelKeys))
	vec, err := register(o.registerer, vec)
	if err != nil {
		o.warnUnregistered(name, err)
	}

	c := &counter{vec: vec, keys: o.labelKeys}
	o.counters[name] = c
	return c
}

// Histogram returns a Prometheus histogram vector named after name.
func (o *Observer) Histogram(name string) observability.Histogram {
	o.mu.Lock()
	defer o.mu.Unlock()
	if h, ok := o.histograms[name]; ok {
		return h
	}

	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: o.namespace,
		Name:      metricName(name),
		Help:      fmt.Sprintf("Histogram %s.", name),
		Buckets:   o.buckets,
	}, labelNames(o.labelKeys))
	vec, err := register(o.registerer, vec)
	if err != nil {
		o.warnUnregistered(name, err)
	}

	h := &histogram{vec: vec, keys: o.labelKeys}
	o.histograms[name] = h
	return h
}

type counter struct {
	vec  *prometheus.CounterVec
	keys []string
}

func (c *counter) Add(_ context.Context, value int64, attrs ...observability.Attribute) {
	if value < 0 {
		return
	}
	c.vec.WithLabelValues(labelValues(c.keys, attrs)...).Add(float64(value))
}

type histogram struct {
	vec  *prometheus.HistogramVec
	keys []string
}

func (h *histogram) Record(_ context.Context, value float64, attrs ...observability.Attribute) {
	h.vec.WithLabelValues(labelValues(h.keys, attrs)...).Observe(value)
}

// register registers c, reusing an identical collector that is already
// registered. On any other registration error c is returned unregistered
// together with the error.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if reg == nil {
		return c, nil
	}
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return c, err
}

func (o *Observer) warnUnregistered(name string, err error) {
	o.Logger.Warn(context.Background(), "metric not exported to Prometheus",
		observability.String("metric", name),
		observability.Error(err),
	)
}

func metricName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_", " ", "_").Replace(name)
}

func labelNames(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = metricName(k)
	}
	return out
}

func labelValues(keys []string, attrs []observability.Attribute) []string {
	values := make([]string, len(keys))
	for i, k := range keys {
		for _, a := range attrs {
			if a.Key == k {
				values[i] = fmt.Sprint(a.Value)
			}
		}
	}
	return values
}
