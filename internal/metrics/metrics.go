package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// Metrics holds the Prometheus collectors for the meeting pipeline.
type Metrics struct {
	StageSeconds   *prometheus.HistogramVec
	RunsTotal      *prometheus.CounterVec
	TasksPublished *prometheus.CounterVec
	RecordsValid   *prometheus.CounterVec
}

func Default() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		StageSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meetsec_stage_seconds",
				Help:    "Duration of each pipeline stage",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600, 1800},
			},
			[]string{"stage"},
		),
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetsec_runs_total",
				Help: "Pipeline runs by outcome",
			},
			[]string{"outcome"},
		),
		TasksPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetsec_tracker_tasks_total",
				Help: "Tracker tasks by status",
			},
			[]string{"tracker", "status"},
		),
		RecordsValid: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meetsec_records_total",
				Help: "Extracted meeting records by validity",
			},
			[]string{"valid"},
		),
	}
}

// ObserveStage records a stage duration. Nil receivers are no-ops so callers
// can run without metrics.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageSeconds.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) Run(outcome string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Record(valid bool) {
	if m == nil {
		return
	}
	label := "false"
	if valid {
		label = "true"
	}
	m.RecordsValid.WithLabelValues(label).Inc()
}

func (m *Metrics) Tasks(tracker string, created, failed int) {
	if m == nil {
		return
	}
	m.TasksPublished.WithLabelValues(tracker, "created").Add(float64(created))
	m.TasksPublished.WithLabelValues(tracker, "failed").Add(float64(failed))
}
