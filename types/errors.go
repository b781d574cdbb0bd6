package types

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the rundinner library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components return these sentinels for known error conditions and wrap them
// with context using fmt.Errorf("%w: detail", err).
//
// Error taxonomy:
//   - Configuration impossibility: the input makes a valid rotation impossible
//   - Internal invariant violation: a defect upstream, never swallowed
//   - Incomplete schedule: the heuristic route search ran out of candidates
//   - Store errors: persistence of computed schedules

// Configuration errors - surfaced to the caller, never retried.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInsufficientParticipants is returned when too few participants are given to form
	// at least one complete rotation segment.
	ErrInsufficientParticipants = errors.New("insufficient participants")

	// ErrSizeMismatch is returned when the team count is not a multiple of the course count
	// or no course is configured.
	ErrSizeMismatch = errors.New("team count does not match course count")

	// ErrInsufficientCourseDiversity is returned when fewer than two courses are configured.
	ErrInsufficientCourseDiversity = errors.New("insufficient course diversity")

	// ErrParticipantSourceRequired is returned when Calculate is called without a source.
	ErrParticipantSourceRequired = errors.New("participant source is required")
)

// Calculation errors - internal defects and heuristic failures.
var (
	// ErrInvariantViolation indicates that a structural guarantee of the planner was broken.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrIncompleteSchedule is returned when at least one team misses host or guest references.
	ErrIncompleteSchedule = errors.New("incomplete schedule")

	// ErrUnsupportedSegment is returned by strategies that cannot build a segment of the given shape.
	ErrUnsupportedSegment = errors.New("unsupported segment")
)

// Store errors - schedule persistence.
var (
	// ErrStoreFailed is returned when a schedule cannot be written to or read from the store.
	ErrStoreFailed = errors.New("schedule store operation failed")

	// ErrScheduleNotFound is returned when no schedule is stored for an event.
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrConnectivity indicates a NATS/KV connectivity issue.
	ErrConnectivity = errors.New("connectivity issue")

	// ErrStaleVersion is returned when a snapshot older than the stored one is written.
	ErrStaleVersion = errors.New("stale schedule version")
)

// IncompleteScheduleError reports the teams that did not receive their full route.
//
// It unwraps to ErrIncompleteSchedule.
type IncompleteScheduleError struct {
	Violations []Violation
}

// Error summarizes the violations.
func (e *IncompleteScheduleError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d violation(s)", ErrIncompleteSchedule, len(e.Violations))
	for i, v := range e.Violations {
		if i == 3 {
			fmt.Fprintf(&sb, "; ...")
			break
		}
		sb.WriteString("; ")
		sb.WriteString(v.String())
	}

	return sb.String()
}

// Unwrap returns ErrIncompleteSchedule.
func (e *IncompleteScheduleError) Unwrap() error {
	return ErrIncompleteSchedule
}

// Teams returns the numbers of the affected teams without duplicates, in violation order.
func (e *IncompleteScheduleError) Teams() []int {
	seen := make(map[int]struct{}, len(e.Violations))
	var teams []int
	for _, v := range e.Violations {
		if _, ok := seen[v.Team]; ok {
			continue
		}
		seen[v.Team] = struct{}{}
		teams = append(teams, v.Team)
	}

	return teams
}
