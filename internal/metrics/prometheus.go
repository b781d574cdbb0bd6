package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/rundinner/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so constructing a
// collector that is never used leaves the registry untouched.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	teamsFormed        prometheus.Gauge
	unplaced           prometheus.Gauge
	operationDuration  *prometheus.HistogramVec
	calculations       *prometheus.CounterVec
	segments           *prometheus.CounterVec
	incompleteTeams    prometheus.Gauge
	storeOperations    *prometheus.CounterVec
	storeOperationTime *prometheus.HistogramVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "rundinner" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "rundinner"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.teamsFormed = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "calculator",
			Name:      "teams_formed",
			Help:      "Number of teams formed by the last team formation.",
		})

		p.unplaced = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "calculator",
			Name:      "unplaced_participants",
			Help:      "Number of participants left without a team by the last team formation.",
		})

		p.operationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "calculator",
			Name:      "operation_duration_seconds",
			Help:      "Duration of calculation operations in seconds by operation.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), // 100us .. ~1.6s
		}, []string{"operation"})

		p.calculations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "calculator",
			Name:      "calculations_total",
			Help:      "Total finished calculations by result (success, failure).",
		}, []string{"result"})

		p.segments = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "routing",
			Name:      "segments_total",
			Help:      "Total built segments by strategy, size and completeness.",
		}, []string{"strategy", "size", "complete"})

		p.incompleteTeams = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "routing",
			Name:      "incomplete_teams",
			Help:      "Number of teams with an incomplete route in the last built schedule.",
		})

		p.storeOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total schedule store operations by operation and result.",
		}, []string{"operation", "result"})

		p.storeOperationTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Latency of schedule store operations in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"})

		p.reg.MustRegister(p.teamsFormed)
		p.reg.MustRegister(p.unplaced)
		p.reg.MustRegister(p.operationDuration)
		p.reg.MustRegister(p.calculations)
		p.reg.MustRegister(p.segments)
		p.reg.MustRegister(p.incompleteTeams)
		p.reg.MustRegister(p.storeOperations)
		p.reg.MustRegister(p.storeOperationTime)
	})
}

// CalculatorMetrics implementation

// RecordTeamsFormed sets the formed teams and unplaced participants gauges.
func (p *PrometheusCollector) RecordTeamsFormed(teams, unplaced int) {
	p.ensureRegistered()
	p.teamsFormed.Set(float64(teams))
	p.unplaced.Set(float64(unplaced))
}

// RecordOperationDuration observes the duration of one operation.
func (p *PrometheusCollector) RecordOperationDuration(operation string, duration float64) {
	p.ensureRegistered()
	p.operationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordCalculation increments the calculation counter by result.
func (p *PrometheusCollector) RecordCalculation(success bool) {
	p.ensureRegistered()
	p.calculations.WithLabelValues(result(success)).Inc()
}

// RoutingMetrics implementation

// RecordSegmentBuilt increments the segment counter.
func (p *PrometheusCollector) RecordSegmentBuilt(strategy string, size int, complete bool) {
	p.ensureRegistered()
	p.segments.WithLabelValues(strategy, strconv.Itoa(size), strconv.FormatBool(complete)).Inc()
}

// RecordIncompleteTeams sets the incomplete teams gauge.
func (p *PrometheusCollector) RecordIncompleteTeams(count int) {
	p.ensureRegistered()
	p.incompleteTeams.Set(float64(count))
}

// StoreMetrics implementation

// RecordStoreOperation counts the operation and observes its latency.
func (p *PrometheusCollector) RecordStoreOperation(operation string, duration float64, success bool) {
	p.ensureRegistered()
	p.storeOperations.WithLabelValues(operation, result(success)).Inc()
	p.storeOperationTime.WithLabelValues(operation).Observe(duration)
}

func result(success bool) string {
	if success {
		return "success"
	}

	return "failure"
}
