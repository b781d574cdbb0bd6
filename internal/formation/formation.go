// Package formation builds fixed-size teams from the two distribution queues.
package formation

import (
	"fmt"

	"github.com/arloliu/rundinner/internal/distribution"
	"github.com/arloliu/rundinner/types"
)

// Form builds teams by polling members alternately from both queues.
//
// Every team starts polling at the first queue. When the queue due next is empty the
// other queue is polled instead. Each team gets exactly one host: the first member with
// sufficient capacity, else the first member with unknown capacity, else the first member.
// Teams are numbered from 1 in formation order.
//
// Parameters:
//   - queues: Distribution result; its size must be a multiple of teamSize
//   - teamSize: Number of members per team
//   - numCourses: Number of course classes, used to evaluate hosting capacity
//
// Returns:
//   - []*types.Team: Formed teams
//   - error: ErrInvariantViolation if the queues cannot fill every team
func Form(queues *distribution.Queues, teamSize, numCourses int) ([]*types.Team, error) {
	if teamSize <= 0 {
		return nil, fmt.Errorf("%w: team size %d", types.ErrInvalidConfig, teamSize)
	}

	total := queues.Len()
	if total%teamSize != 0 {
		return nil, fmt.Errorf("%w: %d participants do not divide into teams of %d",
			types.ErrInvariantViolation, total, teamSize)
	}

	numTeams := total / teamSize
	first := newQueue(queues.First)
	second := newQueue(queues.Second)
	teams := make([]*types.Team, 0, numTeams)

	for i := range numTeams {
		members := make([]*types.Participant, 0, teamSize)
		current, other := first, second
		for range teamSize {
			m, ok := current.poll()
			current, other = other, current
			if !ok {
				m, ok = current.poll()
				if !ok {
					return nil, fmt.Errorf("%w: both queues empty while forming team %d",
						types.ErrInvariantViolation, i+1)
				}
			}
			members = append(members, m)
		}

		team := types.NewTeam(i+1, members)
		SelectHost(team, teamSize, numCourses)
		teams = append(teams, team)
	}

	if len(teams) != numTeams {
		return nil, fmt.Errorf("%w: expected %d teams, built %d", types.ErrInvariantViolation, numTeams, len(teams))
	}

	return teams, nil
}

// SelectHost marks exactly one member of the team as host.
func SelectHost(team *types.Team, teamSize, numCourses int) {
	if len(team.Members) == 0 {
		return
	}

	var unknown *types.Participant
	for _, m := range team.Members {
		switch m.HostingCapacity(teamSize, numCourses) {
		case types.CapacitySufficient:
			m.MarkHost()
			return
		case types.CapacityUnknown:
			if unknown == nil {
				unknown = m
			}
		case types.CapacityInsufficient:
		}
	}

	if unknown != nil {
		unknown.MarkHost()
		return
	}

	team.Members[0].MarkHost()
}

type queue struct {
	items []*types.Participant
}

func newQueue(items []*types.Participant) *queue {
	return &queue{items: items}
}

func (q *queue) poll() (*types.Participant, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	p := q.items[0]
	q.items = q.items[1:]

	return p, true
}
