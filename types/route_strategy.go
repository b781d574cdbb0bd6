package types

// Segment is one rotation segment handed to a RouteStrategy.
//
// Rows holds the teams of each course in Courses order; within a row teams are ordered
// by number so that positions are deterministic.
type Segment struct {
	// Index of the segment in build order (0-based).
	Index int

	// Courses in configuration order.
	Courses []CourseClass

	// Rows of teams, one per course.
	Rows [][]*Team
}

// Size returns the number of teams in the segment.
func (s Segment) Size() int {
	n := 0
	for _, row := range s.Rows {
		n += len(row)
	}

	return n
}

// Teams returns all teams of the segment row by row.
func (s Segment) Teams() []*Team {
	result := make([]*Team, 0, s.Size())
	for _, row := range s.Rows {
		result = append(result, row...)
	}

	return result
}

// RouteStrategy builds the host/guest references of one rotation segment.
//
// Strategies implement different construction algorithms:
//   - Template: precomputed combinatorial designs for a few segment sizes
//   - ConstraintSearch: best-effort greedy search for any segment size
//   - TemplateFirst: template when one exists, constraint search otherwise
//
// Strategy implementations should:
//   - Be deterministic (same segment -> same references)
//   - Only add references between teams of the given segment
//   - Add references through schedule.AddHostReference
type RouteStrategy interface {
	// Name returns a short identifier used in logs and metrics.
	Name() string

	// BuildSegment adds the references of one segment to the schedule.
	//
	// Parameters:
	//   - schedule: Schedule owning the teams of the segment
	//   - segment: Teams of the segment grouped by course
	//
	// Returns:
	//   - error: ErrUnsupportedSegment if the strategy cannot handle the segment,
	//     ErrInvariantViolation if a reference could not be added
	BuildSegment(schedule *Schedule, segment Segment) error
}
