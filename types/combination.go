package types

import (
	"fmt"
	"maps"
	"slices"
)

// CombinationInfo describes how a number of teams splits into rotation segments.
//
// A rotation segment is the smallest self-contained group of teams over which a complete
// schedule can be built: for K courses it holds K*K teams. When a factorization is
// present, the teams are split into segments of several valid sizes instead.
type CombinationInfo struct {
	// NumTeams is the number of teams formed.
	NumTeams int `json:"numTeams" yaml:"numTeams"`

	// NumCourses is the number of course classes.
	NumCourses int `json:"numCourses" yaml:"numCourses"`

	// SegmentSize is the base segment size (NumCourses squared).
	SegmentSize int `json:"segmentSize" yaml:"segmentSize"`

	// RemainderTeams is the number of teams that fit into no segment.
	RemainderTeams int `json:"remainderTeams" yaml:"remainderTeams"`

	// Factorization maps each candidate segment size to its number of segments.
	// Nil when the plain segment size is used.
	Factorization map[int]int `json:"factorization,omitempty" yaml:"factorization,omitempty"`

	// Candidates are the segment sizes the factorization search considered, ascending.
	Candidates []int `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

// PlaceableTeams returns the number of teams that take part in a segment.
func (c *CombinationInfo) PlaceableTeams() int {
	return c.NumTeams - c.RemainderTeams
}

// Factorized reports whether segments of several sizes are used.
func (c *CombinationInfo) Factorized() bool {
	return c.Factorization != nil
}

// Segments lists the size of every segment in build order.
//
// Sizes are ascending. Without a factorization every segment has SegmentSize teams.
//
// Returns:
//   - []int: Segment sizes whose sum equals PlaceableTeams()
func (c *CombinationInfo) Segments() []int {
	var result []int
	if !c.Factorized() {
		if c.SegmentSize <= 0 {
			return nil
		}
		for range c.PlaceableTeams() / c.SegmentSize {
			result = append(result, c.SegmentSize)
		}

		return result
	}

	for _, size := range slices.Sorted(maps.Keys(c.Factorization)) {
		for range c.Factorization[size] {
			result = append(result, size)
		}
	}

	return result
}

// String returns a compact description like "9 teams, 3 courses: [9 12], remainder 0".
func (c *CombinationInfo) String() string {
	return fmt.Sprintf("%d teams, %d courses: %v, remainder %d",
		c.NumTeams, c.NumCourses, c.Segments(), c.RemainderTeams)
}

// TeamsResult is the outcome of team formation.
type TeamsResult struct {
	// Teams formed, ordered by number.
	Teams []*Team

	// Unplaced participants that fit into no complete segment.
	Unplaced []*Participant

	// Combination used to decide how many teams are formed.
	Combination *CombinationInfo
}
