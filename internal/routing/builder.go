// Package routing splits course-tagged teams into rotation segments and builds the
// schedule of every segment with a route strategy.
package routing

import (
	"errors"
	"fmt"

	"github.com/arloliu/rundinner/internal/logger"
	"github.com/arloliu/rundinner/internal/metrics"
	"github.com/arloliu/rundinner/types"
)

// selector is implemented by strategies delegating to other strategies per segment shape.
type selector interface {
	Select(numCourses, size int) types.RouteStrategy
}

// Builder builds complete schedules segment by segment.
type Builder struct {
	strategy        types.RouteStrategy
	logger          types.Logger
	metrics         types.MetricsCollector
	allowIncomplete bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder logger.
func WithLogger(l types.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMetrics sets the builder metrics collector.
func WithMetrics(m types.MetricsCollector) Option {
	return func(b *Builder) {
		if m != nil {
			b.metrics = m
		}
	}
}

// WithAllowIncomplete makes incomplete routes a warning instead of an error.
func WithAllowIncomplete(allow bool) Option {
	return func(b *Builder) {
		b.allowIncomplete = allow
	}
}

// NewBuilder creates a schedule builder using the given strategy.
//
// Parameters:
//   - strategy: Route strategy used for every segment
//   - opts: Optional configuration
//
// Returns:
//   - *Builder: Initialized builder
func NewBuilder(strategy types.RouteStrategy, opts ...Option) *Builder {
	b := &Builder{
		strategy: strategy,
		logger:   logger.NewNop(),
		metrics:  metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build creates the schedule of all teams.
//
// Teams are split into segments as described by info; each segment is built by the
// strategy. Afterwards the whole schedule is validated: broken structural invariants are
// always fatal, missing references fail with an *types.IncompleteScheduleError unless
// incomplete routes are allowed.
//
// Parameters:
//   - teams: Teams with assigned courses
//   - courses: Course classes in configuration order
//   - info: Segmentation computed during team formation
//
// Returns:
//   - *types.Schedule: Built schedule (also returned together with an incomplete schedule error)
//   - error: ErrInsufficientCourseDiversity, ErrInvariantViolation or ErrIncompleteSchedule
func (b *Builder) Build(teams []*types.Team, courses []types.CourseClass, info *types.CombinationInfo) (*types.Schedule, error) {
	k := len(courses)
	if k < 2 {
		return nil, fmt.Errorf("%w: %d course(s) configured", types.ErrInsufficientCourseDiversity, k)
	}
	if info == nil || info.NumCourses != k {
		return nil, fmt.Errorf("%w: combination does not match %d courses", types.ErrInvariantViolation, k)
	}

	segments, err := Split(teams, courses, info.Segments())
	if err != nil {
		return nil, err
	}

	schedule := types.NewSchedule(teams, courses)
	for _, seg := range segments {
		strategy := b.strategy
		if sel, ok := strategy.(selector); ok {
			strategy = sel.Select(k, seg.Size())
		}

		if err := strategy.BuildSegment(schedule, seg); err != nil {
			b.metrics.RecordSegmentBuilt(strategy.Name(), seg.Size(), false)
			return nil, fmt.Errorf("build segment %d with %s: %w", seg.Index, strategy.Name(), err)
		}

		complete := segmentComplete(seg, k-1)
		b.metrics.RecordSegmentBuilt(strategy.Name(), seg.Size(), complete)
		b.logger.Debug("segment built",
			"segment", seg.Index,
			"size", seg.Size(),
			"strategy", strategy.Name(),
			"complete", complete,
		)
	}

	// Templates meet every team once; the constraint search does not guarantee it.
	if !schedule.MeetsEveryTeamOnce() {
		b.logger.Warn("some teams meet more than once during the dinner",
			"teams", len(teams),
			"courses", k,
			"strategy", b.strategy.Name(),
		)
	}

	if err := b.validate(schedule, k); err != nil {
		return schedule, err
	}

	return schedule, nil
}

func (b *Builder) validate(schedule *types.Schedule, k int) error {
	var incomplete []types.Violation
	var broken []error
	for _, v := range schedule.Validate(k) {
		if v.IsIncomplete() {
			incomplete = append(incomplete, v)
			continue
		}
		broken = append(broken, errors.New(v.String()))
	}

	if len(broken) > 0 {
		return fmt.Errorf("%w: %w", types.ErrInvariantViolation, errors.Join(broken...))
	}
	if len(incomplete) == 0 {
		b.metrics.RecordIncompleteTeams(0)
		return nil
	}

	incErr := &types.IncompleteScheduleError{Violations: incomplete}
	b.metrics.RecordIncompleteTeams(len(incErr.Teams()))
	if !b.allowIncomplete {
		return incErr
	}

	b.logger.Warn("schedule has incomplete routes",
		"teams", incErr.Teams(),
		"violations", len(incomplete),
	)

	return nil
}

func segmentComplete(seg types.Segment, need int) bool {
	for _, row := range seg.Rows {
		for _, t := range row {
			if !t.Plan().IsComplete(need) {
				return false
			}
		}
	}

	return true
}
