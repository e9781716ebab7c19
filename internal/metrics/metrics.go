// Package metrics records scan timings and outcomes with Prometheus.
//
// Collectors live on a private registry so that tests and embedding
// programs never collide with the global default registry. A one-shot CLI
// has nothing to scrape it, so the registry is written out in the node
// exporter textfile format instead.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implements omr.Observer.
type Recorder struct {
	registry *prometheus.Registry
	stages   *prometheus.HistogramVec
	scans    *prometheus.CounterVec
}

// NewRecorder registers the scanner collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "omr",
			Name:      "stage_duration_seconds",
			Help:      "Time spent in each scan pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"stage"}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "omr",
			Name:      "scans_total",
			Help:      "Completed scans by outcome (ok or the error kind).",
		}, []string{"outcome"}),
	}
	r.registry.MustRegister(r.stages, r.scans)
	return r
}

// ObserveStage records how long a stage took.
func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stages.WithLabelValues(stage).Observe(d.Seconds())
}

// ObserveOutcome counts a finished scan.
func (r *Recorder) ObserveOutcome(outcome string) {
	r.scans.WithLabelValues(outcome).Inc()
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile atomically writes all metrics to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
