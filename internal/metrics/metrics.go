// Package metrics records per-run statistics in the Prometheus textfile
// format so a node exporter can pick them up after each run.
package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "assemble_logs"

// Summary is what one run reports.
type Summary struct {
	Segments       int
	Compressed     int
	Bytes          int64
	LinesEvaluated int
	LinesIncluded  int
	FormatErrors   int
	Elapsed        time.Duration
}

// RunMetrics holds the collectors for a single run on a private registry.
type RunMetrics struct {
	registry *prometheus.Registry

	SegmentsTotal  *prometheus.CounterVec
	BytesTotal     prometheus.Counter
	LinesEvaluated prometheus.Counter
	LinesIncluded  prometheus.Counter
	FormatErrors   prometheus.Counter
	RunDuration    prometheus.Gauge
}

// NewRunMetrics initializes and registers the run collectors.
func NewRunMetrics() *RunMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &RunMetrics{
		registry: reg,
		SegmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_total",
			Help:      "Segments read during the run, by compression.",
		}, []string{"compressed"}),
		BytesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_assembled_total",
			Help:      "Decompressed bytes assembled from all segments.",
		}),
		LinesEvaluated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_evaluated_total",
			Help:      "Lines examined by the filter.",
		}),
		LinesIncluded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_included_total",
			Help:      "Lines that passed every predicate.",
		}),
		FormatErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "format_errors_total",
			Help:      "Included lines that could not be decoded as records.",
		}),
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
	}
}

// Observe adds a run summary to the collectors.
func (m *RunMetrics) Observe(s Summary) {
	plain := s.Segments - s.Compressed
	m.SegmentsTotal.WithLabelValues(strconv.FormatBool(true)).Add(float64(s.Compressed))
	m.SegmentsTotal.WithLabelValues(strconv.FormatBool(false)).Add(float64(plain))
	m.BytesTotal.Add(float64(s.Bytes))
	m.LinesEvaluated.Add(float64(s.LinesEvaluated))
	m.LinesIncluded.Add(float64(s.LinesIncluded))
	m.FormatErrors.Add(float64(s.FormatErrors))
	m.RunDuration.Set(s.Elapsed.Seconds())
}

// WriteFile atomically writes every collector to path.
func (m *RunMetrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
