package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveStage("transcribe", 2*time.Second)
	m.Run(OutcomeSuccess)
	m.Run(OutcomeSuccess)
	m.Record(true)
	m.Tasks("weeek", 3, 1)

	families := gather(t, reg)

	runs := families["meetsec_runs_total"]
	require.NotNil(t, runs)
	assert.Equal(t, 2.0, runs.GetMetric()[0].GetCounter().GetValue())

	stage := families["meetsec_stage_seconds"]
	require.NotNil(t, stage)
	assert.Equal(t, uint64(1), stage.GetMetric()[0].GetHistogram().GetSampleCount())
	assert.Equal(t, 2.0, stage.GetMetric()[0].GetHistogram().GetSampleSum())

	tasks := families["meetsec_tracker_tasks_total"]
	require.NotNil(t, tasks)
	assert.Len(t, tasks.GetMetric(), 2)
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStage("x", time.Second)
		m.Run(OutcomeFailed)
		m.Record(false)
		m.Tasks("jira", 1, 0)
	})
}
