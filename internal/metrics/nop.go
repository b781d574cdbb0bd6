// Package metrics provides MetricsCollector implementations.
package metrics

import "github.com/arloliu/rundinner/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
//
// Example:
//
//	calc := rundinner.NewCalculator(&cfg, rundinner.WithMetrics(metrics.NewNop()))
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// CalculatorMetrics implementation

// RecordTeamsFormed discards the team formation metric.
func (n *NopMetrics) RecordTeamsFormed(_ /* teams */, _ /* unplaced */ int) {
	// No-op
}

// RecordOperationDuration discards the operation duration metric.
func (n *NopMetrics) RecordOperationDuration(_ /* operation */ string, _ /* duration */ float64) {
	// No-op
}

// RecordCalculation discards the calculation outcome metric.
func (n *NopMetrics) RecordCalculation(_ /* success */ bool) {
	// No-op
}

// RoutingMetrics implementation

// RecordSegmentBuilt discards the segment metric.
func (n *NopMetrics) RecordSegmentBuilt(_ /* strategy */ string, _ /* size */ int, _ /* complete */ bool) {
	// No-op
}

// RecordIncompleteTeams discards the incomplete teams metric.
func (n *NopMetrics) RecordIncompleteTeams(_ /* count */ int) {
	// No-op
}

// StoreMetrics implementation

// RecordStoreOperation discards the store operation metric.
func (n *NopMetrics) RecordStoreOperation(_ /* operation */ string, _ /* duration */ float64, _ /* success */ bool) {
	// No-op
}
