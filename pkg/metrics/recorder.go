// Package metrics provides Prometheus metrics for classification runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mimir-aip/kraljic-go/pkg/models"
)

const namespace = "kraljic"

// Recorder holds all run metrics on a private registry. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	StageRowsIn    *prometheus.GaugeVec
	StageRowsOut   *prometheus.GaugeVec
	StageDropped   *prometheus.GaugeVec
	StageFlagged   *prometheus.GaugeVec
	StageDuration  *prometheus.HistogramVec
	EntityCategory *prometheus.GaugeVec
	RunsTotal      *prometheus.CounterVec
	LastRunSuccess prometheus.Gauge
	LastRunSeconds prometheus.Gauge

	registry *prometheus.Registry
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.StageRowsIn = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_rows_in",
			Help:      "Rows entering a stage in the last run",
		},
		[]string{"stage"},
	)
	r.StageRowsOut = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_rows_out",
			Help:      "Rows leaving a stage in the last run",
		},
		[]string{"stage"},
	)
	r.StageDropped = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_rows_dropped",
			Help:      "Rows excluded by a stage in the last run, by reason",
		},
		[]string{"stage", "reason"},
	)
	r.StageFlagged = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_rows_flagged",
			Help:      "Rows kept with an anomaly in the last run, by reason",
		},
		[]string{"stage", "reason"},
	)
	r.StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Stage processing time",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"stage"},
	)
	r.EntityCategory = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Classified entities in the last run, by category",
		},
		[]string{"entity", "category"},
	)
	r.RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed runs by status",
		},
		[]string{"status"},
	)
	r.LastRunSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run completed, 0 if it failed",
		},
	)
	r.LastRunSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last run",
		},
	)

	r.registry.MustRegister(
		r.StageRowsIn,
		r.StageRowsOut,
		r.StageDropped,
		r.StageFlagged,
		r.StageDuration,
		r.EntityCategory,
		r.RunsTotal,
		r.LastRunSuccess,
		r.LastRunSeconds,
	)
	return r
}

// Registry returns the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveStage records a stage report and its duration
func (r *Recorder) ObserveStage(report models.StageReport, duration time.Duration) {
	if r == nil {
		return
	}
	r.StageRowsIn.WithLabelValues(report.Stage).Set(float64(report.RowsIn))
	r.StageRowsOut.WithLabelValues(report.Stage).Set(float64(report.RowsOut))
	for reason, n := range report.Dropped {
		r.StageDropped.WithLabelValues(report.Stage, string(reason)).Set(float64(n))
	}
	for reason, n := range report.Flagged {
		r.StageFlagged.WithLabelValues(report.Stage, string(reason)).Set(float64(n))
	}
	r.StageDuration.WithLabelValues(report.Stage).Observe(duration.Seconds())
}

// SetCategoryCounts records the number of entities per quadrant. Every
// category of the entity type is set, so empty quadrants report zero.
func (r *Recorder) SetCategoryCounts(entity models.EntityType, counts map[models.Quadrant]int) {
	if r == nil {
		return
	}
	for _, q := range models.Quadrants {
		r.EntityCategory.WithLabelValues(string(entity), q.Label(entity)).Set(float64(counts[q]))
	}
}

// RunFinished records the outcome of a run
func (r *Recorder) RunFinished(run *models.Run) {
	if r == nil || run == nil {
		return
	}
	r.RunsTotal.WithLabelValues(string(run.Status)).Inc()
	if run.Status == models.RunStatusCompleted {
		r.LastRunSuccess.Set(1)
	} else {
		r.LastRunSuccess.Set(0)
	}
	r.LastRunSeconds.Set(run.Duration().Seconds())
}

// WriteTextfile writes the registry in the node_exporter textfile format
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
