// Package metrics exposes step outcome counters and durations for
// Prometheus. A nil *Collector is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "memogrid"

// Collector records the outcome of every step invocation.
type Collector struct {
	steps    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a Collector and registers its metrics with reg.
func New(reg prometheus.Registerer) *Collector {
	return &Collector{
		steps: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Step invocations by execution status.",
		}, []string{"status"}),
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Wall-clock time of executed steps.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"kind"}),
	}
}

// StepFinished counts one step outcome. Durations are observed for
// executed and failed steps only; cached steps do no work.
func (c *Collector) StepFinished(kind, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.steps.WithLabelValues(status).Inc()
	if status != "cached" {
		c.duration.WithLabelValues(kind).Observe(d.Seconds())
	}
}
