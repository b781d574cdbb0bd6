// Package combination decides how many teams can take part in complete rotation segments.
package combination

import (
	"fmt"

	"github.com/arloliu/rundinner/types"
)

// Candidates returns the valid segment sizes for the given number of courses, ascending.
//
// The base size is numCourses squared. Two and three course dinners also support a few
// larger segment sizes, which lets more team counts split without remainder.
func Candidates(numCourses int) []int {
	switch numCourses {
	case 2:
		return []int{4, 6}
	case 3:
		return []int{9, 12, 15}
	default:
		return []int{numCourses * numCourses}
	}
}

// Plan computes the segmentation of numTeams teams.
//
// With factorize set, the team count is decomposed into multiples of the candidate
// segment sizes, keeping the decomposition with the smallest remainder. It replaces the
// plain segmentation only when it leaves fewer teams over. The factorization map then
// lists every candidate, including those used zero times.
//
// Parameters:
//   - numTeams: Number of teams that could be formed
//   - numCourses: Number of course classes
//   - factorize: Whether to search multiple segment sizes
//
// Returns:
//   - *types.CombinationInfo: Segmentation of the teams
//   - error: ErrInvalidConfig for numCourses < 1, ErrInsufficientParticipants if not
//     even one segment can be formed
func Plan(numTeams, numCourses int, factorize bool) (*types.CombinationInfo, error) {
	if numCourses < 1 {
		return nil, fmt.Errorf("%w: %d courses", types.ErrInvalidConfig, numCourses)
	}

	segmentSize := numCourses * numCourses
	if segmentSize > numTeams {
		return nil, fmt.Errorf("%w: %d teams cannot fill a segment of %d teams",
			types.ErrInsufficientParticipants, numTeams, segmentSize)
	}

	info := &types.CombinationInfo{
		NumTeams:       numTeams,
		NumCourses:     numCourses,
		SegmentSize:    segmentSize,
		RemainderTeams: numTeams % segmentSize,
	}
	if !factorize {
		return info, nil
	}

	candidates := Candidates(numCourses)
	counts, remainder := decompose(numTeams, candidates)
	if remainder >= info.RemainderTeams {
		return info, nil
	}

	info.Candidates = candidates
	info.Factorization = make(map[int]int, len(candidates))
	for i, size := range candidates {
		info.Factorization[size] = counts[i]
	}
	info.RemainderTeams = remainder

	return info, nil
}

// decompose expresses n as a sum of multiples of sizes.
//
// The count of the first size is tried from its maximum downwards and the rest is
// decomposed recursively. The first exact decomposition is returned, otherwise the first
// one with the smallest remainder.
func decompose(n int, sizes []int) ([]int, int) {
	counts := make([]int, len(sizes))
	if len(sizes) == 0 || n == 0 {
		return counts, n
	}

	bestRemainder := n + 1
	var best []int
	for c := n / sizes[0]; c >= 0; c-- {
		rest, remainder := decompose(n-c*sizes[0], sizes[1:])
		if remainder < bestRemainder {
			bestRemainder = remainder
			best = append([]int{c}, rest...)
			if remainder == 0 {
				break
			}
		}
	}

	return best, bestRemainder
}

// ForParticipants computes the segmentation for a number of participants.
//
// Parameters:
//   - numParticipants: Number of registered participants
//   - teamSize: Number of participants per team
//   - numCourses: Number of course classes
//   - factorize: Whether to search multiple segment sizes
//
// Returns:
//   - *types.CombinationInfo: Segmentation of the teams that can be formed
//   - error: ErrInsufficientParticipants if the participants cannot fill one segment
func ForParticipants(numParticipants, teamSize, numCourses int, factorize bool) (*types.CombinationInfo, error) {
	if teamSize < 1 {
		return nil, fmt.Errorf("%w: team size %d", types.ErrInvalidConfig, teamSize)
	}
	if teamSize >= numParticipants {
		return nil, fmt.Errorf("%w: %d participants for team size %d",
			types.ErrInsufficientParticipants, numParticipants, teamSize)
	}

	return Plan(numParticipants/teamSize, numCourses, factorize)
}

// NotAssignable returns how many trailing participants take part in no segment.
//
// These are the members of the remainder teams plus the participants that do not fill
// a whole team.
func NotAssignable(numParticipants, teamSize int, info *types.CombinationInfo) int {
	return info.RemainderTeams*teamSize + numParticipants%teamSize
}
