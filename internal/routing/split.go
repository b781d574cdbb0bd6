package routing

import (
	"fmt"
	"slices"

	"github.com/arloliu/rundinner/types"
)

// Split distributes teams over segments of the given sizes.
//
// Teams are bucketed by course and ordered by number within each bucket. Every segment
// of size s takes the next s/K teams of each bucket, so segments are filled in the
// order of sizes. Every team must end up in exactly one segment.
//
// Parameters:
//   - teams: Teams with assigned courses
//   - courses: Course classes in configuration order
//   - sizes: Segment sizes in build order
//
// Returns:
//   - []types.Segment: Segments in build order
//   - error: ErrInvariantViolation if the teams do not fill the segments exactly
func Split(teams []*types.Team, courses []types.CourseClass, sizes []int) ([]types.Segment, error) {
	k := len(courses)
	buckets := make(map[types.CourseClass][]*types.Team, k)
	for _, c := range courses {
		buckets[c] = nil
	}
	for _, t := range teams {
		if _, ok := buckets[t.Course]; !ok {
			return nil, fmt.Errorf("%w: team %d has unknown course %q",
				types.ErrInvariantViolation, t.Number, t.Course.Label)
		}
		buckets[t.Course] = append(buckets[t.Course], t)
	}
	for _, c := range courses {
		types.SortTeams(buckets[c])
	}

	segments := make([]types.Segment, 0, len(sizes))
	offset := 0
	for i, size := range sizes {
		if size%k != 0 {
			return nil, fmt.Errorf("%w: segment size %d is not a multiple of %d courses",
				types.ErrInvariantViolation, size, k)
		}
		per := size / k

		seg := types.Segment{Index: i, Courses: courses, Rows: make([][]*types.Team, k)}
		for r, c := range courses {
			if offset+per > len(buckets[c]) {
				return nil, fmt.Errorf("%w: segment %d needs %d teams cooking %s, %d left",
					types.ErrInvariantViolation, i, per, c, len(buckets[c])-offset)
			}
			seg.Rows[r] = slices.Clone(buckets[c][offset : offset+per])
		}
		offset += per
		segments = append(segments, seg)
	}

	for _, c := range courses {
		if left := len(buckets[c]) - offset; left > 0 {
			return nil, fmt.Errorf("%w: %d teams cooking %s belong to no segment",
				types.ErrInvariantViolation, left, c)
		}
	}

	return segments, nil
}
