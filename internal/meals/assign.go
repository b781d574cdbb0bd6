// Package meals assigns a course to every team.
package meals

import (
	"fmt"
	"math/rand/v2"

	"github.com/arloliu/rundinner/internal/rng"
	"github.com/arloliu/rundinner/types"
)

// Assign gives every team one course so that each course is cooked by the same number of teams.
//
// The teams are shuffled, split into contiguous blocks in course order and each block
// gets its course. Afterwards the slice is sorted by team number again.
//
// Parameters:
//   - r: Random source for the shuffle
//   - teams: Teams to assign; modified in place
//   - courses: Course classes in configuration order
//
// Returns:
//   - error: ErrSizeMismatch if there are no courses or the team count is not a multiple
//     of the course count
func Assign(r *rand.Rand, teams []*types.Team, courses []types.CourseClass) error {
	k := len(courses)
	if k == 0 {
		return fmt.Errorf("%w: no courses to assign", types.ErrSizeMismatch)
	}
	if len(teams)%k != 0 {
		return fmt.Errorf("%w: %d teams for %d courses", types.ErrSizeMismatch, len(teams), k)
	}

	block := len(teams) / k
	rng.Shuffle(r, teams)
	for i, course := range courses {
		for _, team := range teams[i*block : (i+1)*block] {
			team.Course = course
		}
	}
	types.SortTeams(teams)

	return nil
}

// ByCourse groups teams by course, keeping each group ordered by team number.
func ByCourse(teams []*types.Team) map[types.CourseClass][]*types.Team {
	result := make(map[types.CourseClass][]*types.Team)
	for _, t := range teams {
		result[t.Course] = append(result[t.Course], t)
	}
	for _, group := range result {
		types.SortTeams(group)
	}

	return result
}
