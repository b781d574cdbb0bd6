package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.RecordTeamsFormed(9, 1)
	p.RecordOperationDuration("form_teams", 0.001)
	p.RecordCalculation(true)
	p.RecordCalculation(false)
	p.RecordCalculation(true)
	p.RecordSegmentBuilt("template", 9, true)
	p.RecordSegmentBuilt("template", 9, true)
	p.RecordSegmentBuilt("constraint-search", 25, false)
	p.RecordIncompleteTeams(4)
	p.RecordStoreOperation("save", 0.002, true)

	require.InDelta(t, 9, testutil.ToFloat64(p.teamsFormed), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.unplaced), 0)
	require.InDelta(t, 2, testutil.ToFloat64(p.calculations.WithLabelValues("success")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.calculations.WithLabelValues("failure")), 0)
	require.InDelta(t, 2, testutil.ToFloat64(p.segments.WithLabelValues("template", "9", "true")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.segments.WithLabelValues("constraint-search", "25", "false")), 0)
	require.InDelta(t, 4, testutil.ToFloat64(p.incompleteTeams), 0)
	require.InDelta(t, 1, testutil.ToFloat64(p.storeOperations.WithLabelValues("save", "success")), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 8)
}

func TestNewPrometheus_Defaults(t *testing.T) {
	p := NewPrometheus(nil, "")
	require.Equal(t, "rundinner", p.namespace)
	require.Equal(t, prometheus.DefaultRegisterer, p.reg)
}
