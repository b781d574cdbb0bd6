package rundinner

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/rundinner/internal/metrics"
)

// NewPrometheusMetrics creates a MetricsCollector that exports Prometheus metrics.
//
// Parameters:
//   - reg: Registerer the collectors are registered with (nil uses prometheus.DefaultRegisterer)
//   - namespace: Metric namespace (empty uses "rundinner")
//
// Returns:
//   - MetricsCollector: Prometheus-backed collector
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	calc, err := rundinner.NewCalculator(&cfg, rundinner.WithMetrics(rundinner.NewPrometheusMetrics(reg, "")))
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}
