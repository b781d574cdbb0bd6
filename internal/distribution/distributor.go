// Package distribution splits participants into two queues so that pairing the heads
// of both queues tends to produce balanced teams.
package distribution

import (
	"github.com/arloliu/rundinner/types"
)

// Policy controls which participant attributes are balanced.
type Policy struct {
	// TeamSize is the number of participants per team.
	TeamSize int

	// NumCourses is the number of course classes, used to evaluate hosting capacity.
	NumCourses int

	// CapacityBalancing pairs participants that can host with participants that cannot.
	CapacityBalancing bool

	// Gender selects how genders are combined.
	Gender types.GenderPolicy
}

// Active reports whether any balancing rule is enabled.
func (p Policy) Active() bool {
	return p.CapacityBalancing || p.Gender != types.GenderIgnore
}

// Queues holds the result of a distribution.
type Queues struct {
	First  []*types.Participant
	Second []*types.Participant
}

// Len returns the total number of distributed participants.
func (q *Queues) Len() int {
	return len(q.First) + len(q.Second)
}

// Distribute splits participants into two queues according to the policy.
//
// Participants are processed in input order. For each unplaced participant (the anchor)
// a partner matching the toggled profile is searched; the anchor goes to the first queue
// and its partner to the second one. Anchors without any partner land on the shorter
// queue. Without an active policy participants are simply balanced over both queues.
//
// Distribute never fails and does not modify the participants.
//
// Parameters:
//   - participants: Participants in processing order (usually shuffled)
//   - policy: Balancing rules
//
// Returns:
//   - *Queues: Both queues; together they hold every participant exactly once
func Distribute(participants []*types.Participant, policy Policy) *Queues {
	q := &Queues{
		First:  make([]*types.Participant, 0, len(participants)/2+1),
		Second: make([]*types.Participant, 0, len(participants)/2+1),
	}

	if !policy.Active() {
		for _, p := range participants {
			q.pushShorter(p)
		}

		return q
	}

	placed := make([]bool, len(participants))
	for i, anchor := range participants {
		if placed[i] {
			continue
		}
		placed[i] = true

		wantCapacity := ToggleCapacity(anchor.HostingCapacity(policy.TeamSize, policy.NumCourses), policy.CapacityBalancing)
		wantGender := ToggleGender(anchor.Gender, policy.Gender)

		match := findMatch(participants, placed, policy, wantCapacity, wantGender)
		if match < 0 {
			match = nextUnplaced(placed, i+1)
		}

		if match < 0 {
			q.pushShorter(anchor)
			continue
		}

		placed[match] = true
		q.First = append(q.First, anchor)
		q.Second = append(q.Second, participants[match])
	}

	return q
}

func (q *Queues) pushShorter(p *types.Participant) {
	if len(q.Second) < len(q.First) {
		q.Second = append(q.Second, p)
	} else {
		q.First = append(q.First, p)
	}
}

// findMatch returns the index of the best partner for the wanted profile, or -1.
//
// An exact match wins immediately. Otherwise the last participant matching only the
// capacity is preferred over the last one matching only the gender.
func findMatch(participants []*types.Participant, placed []bool, policy Policy,
	wantCapacity types.Capacity, wantGender types.Gender,
) int {
	capacityOnly, genderOnly := -1, -1
	for i, p := range participants {
		if placed[i] {
			continue
		}

		capacity := p.HostingCapacity(policy.TeamSize, policy.NumCourses)
		capacityOK := wantCapacity == types.CapacityUnknown || capacity == wantCapacity
		genderOK := wantGender == types.GenderUndefined || p.Gender == wantGender

		switch {
		case capacityOK && genderOK:
			return i
		case capacity == wantCapacity:
			capacityOnly = i
		case p.Gender == wantGender:
			genderOnly = i
		}
	}

	if capacityOnly >= 0 {
		return capacityOnly
	}

	return genderOnly
}

func nextUnplaced(placed []bool, from int) int {
	for i := from; i < len(placed); i++ {
		if !placed[i] {
			return i
		}
	}

	return -1
}

// ToggleCapacity returns the hosting capacity a partner should have.
//
// Unknown stays unknown. A known capacity flips only when capacity balancing is
// enabled; otherwise any capacity is acceptable (unknown).
func ToggleCapacity(c types.Capacity, balancing bool) types.Capacity {
	if c == types.CapacityUnknown || !balancing {
		return types.CapacityUnknown
	}
	if c == types.CapacitySufficient {
		return types.CapacityInsufficient
	}

	return types.CapacitySufficient
}

// ToggleGender returns the gender a partner should have.
//
// Undefined genders and the ignore policy yield undefined (any gender). Force-mixed
// flips male and female, force-same keeps the gender.
func ToggleGender(g types.Gender, policy types.GenderPolicy) types.Gender {
	if g == types.GenderUndefined || policy == types.GenderIgnore {
		return types.GenderUndefined
	}
	if policy == types.GenderForceMixed {
		if g == types.GenderMale {
			return types.GenderFemale
		}

		return types.GenderMale
	}

	return g
}
