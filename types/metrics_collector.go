package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and must be thread-safe, since a Calculator
// and a ScheduleStore may be shared between goroutines.
//
// This interface composes smaller, domain-focused interfaces.
type MetricsCollector interface {
	CalculatorMetrics
	RoutingMetrics
	StoreMetrics
}

// CalculatorMetrics defines metrics for the calculation pipeline.
type CalculatorMetrics interface {
	// RecordTeamsFormed records the outcome of team formation.
	//
	// Parameters:
	//   - teams: Number of teams formed
	//   - unplaced: Number of participants left without a team
	RecordTeamsFormed(teams, unplaced int)

	// RecordOperationDuration records the time taken by one pipeline operation.
	//
	// Parameters:
	//   - operation: Operation name ("form_teams", "assign_courses", "build_schedule", "calculate")
	//   - duration: Time taken in seconds
	RecordOperationDuration(operation string, duration float64)

	// RecordCalculation records a finished Calculate call.
	RecordCalculation(success bool)
}

// RoutingMetrics defines metrics for schedule construction.
type RoutingMetrics interface {
	// RecordSegmentBuilt records one built segment.
	//
	// Parameters:
	//   - strategy: Name of the strategy that built the segment
	//   - size: Number of teams in the segment
	//   - complete: true if every team of the segment got its full route
	RecordSegmentBuilt(strategy string, size int, complete bool)

	// RecordIncompleteTeams records the number of teams left with an incomplete route.
	RecordIncompleteTeams(count int)
}

// StoreMetrics defines metrics for schedule persistence.
type StoreMetrics interface {
	// RecordStoreOperation records a schedule store operation.
	//
	// Parameters:
	//   - operation: Operation type ("save", "load", "delete")
	//   - duration: Time taken in seconds
	//   - success: true if the operation succeeded
	RecordStoreOperation(operation string, duration float64, success bool)
}
