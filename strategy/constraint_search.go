package strategy

import (
	"fmt"

	"github.com/arloliu/rundinner/internal/logger"
	"github.com/arloliu/rundinner/types"
)

// ConstraintSearch builds segments with a greedy, non-backtracking search.
//
// The search is a heuristic: it can leave teams with fewer references than required.
// It never reports that itself; callers validate the resulting schedule.
type ConstraintSearch struct {
	logger types.Logger
}

var _ types.RouteStrategy = (*ConstraintSearch)(nil)

// ConstraintSearchOption configures a ConstraintSearch strategy.
type ConstraintSearchOption func(*ConstraintSearch)

// NewConstraintSearch creates a constraint search strategy.
//
// Parameters:
//   - opts: Optional configuration (WithSearchLogger)
//
// Returns:
//   - *ConstraintSearch: Initialized strategy
func NewConstraintSearch(opts ...ConstraintSearchOption) *ConstraintSearch {
	cs := &ConstraintSearch{logger: logger.NewNop()}
	for _, opt := range opts {
		opt(cs)
	}

	return cs
}

// WithSearchLogger sets the logger receiving candidate decisions at debug level.
//
// Parameters:
//   - l: Logger instance
//
// Returns:
//   - ConstraintSearchOption: Configuration option
func WithSearchLogger(l types.Logger) ConstraintSearchOption {
	return func(cs *ConstraintSearch) {
		if l != nil {
			cs.logger = l
		}
	}
}

// Name returns "constraint-search".
func (cs *ConstraintSearch) Name() string {
	return "constraint-search"
}

// BuildSegment links the teams of the segment greedily.
//
// The algorithm:
//  1. Visit teams row by row, in number order within a row
//  2. Skip teams whose route is already complete
//  3. For every other course row, scan its teams in order and take the first candidate
//     the team may visit and the first candidate that may visit the team
//
// A team may visit a candidate only if the two are not linked yet, the team has no host
// of the candidate's course, the team still needs a host, the candidate still needs a
// guest and the candidate has no guest of the team's course. The guest direction
// mirrors these rules.
//
// Parameters:
//   - schedule: Schedule owning the teams
//   - seg: Segment to build
//
// Returns:
//   - error: Only structural errors; missing references are left for validation
func (cs *ConstraintSearch) BuildSegment(schedule *types.Schedule, seg types.Segment) error {
	if err := checkSegment(seg); err != nil {
		return err
	}

	need := len(seg.Rows) - 1
	for c, row := range seg.Rows {
		for _, team := range row {
			if team.Plan().IsComplete(need) {
				continue
			}
			for oc, other := range seg.Rows {
				if oc == c {
					continue
				}
				if err := cs.linkRow(schedule, team, other, need); err != nil {
					return fmt.Errorf("segment %d: %w", seg.Index, err)
				}
			}
		}
	}

	return nil
}

// linkRow picks at most one host and one guest for team among candidates.
func (cs *ConstraintSearch) linkRow(schedule *types.Schedule, team *types.Team, candidates []*types.Team, need int) error {
	tp := team.Plan()
	foundHost, foundGuest := false, false

	for _, cand := range candidates {
		if foundHost && foundGuest {
			break
		}
		if schedule.Linked(team, cand) {
			continue
		}

		cp := cand.Plan()
		if !foundHost && !tp.HostsCourse(cand.Course) && tp.NumHosts() < need &&
			cp.NumGuests() < need && !cp.GuestsCourse(team.Course) {
			if err := schedule.AddHostReference(team, cand); err != nil {
				return err
			}
			cs.logger.Debug("team visits candidate", "team", team.Number, "host", cand.Number)
			foundHost = true

			continue
		}

		if !foundGuest && !tp.GuestsCourse(cand.Course) && tp.NumGuests() < need &&
			cp.NumHosts() < need && !cp.HostsCourse(team.Course) {
			if err := schedule.AddHostReference(cand, team); err != nil {
				return err
			}
			cs.logger.Debug("candidate visits team", "team", team.Number, "guest", cand.Number)
			foundGuest = true
		}
	}

	return nil
}
