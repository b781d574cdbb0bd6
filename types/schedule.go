package types

import (
	"fmt"
	"slices"
)

// Schedule owns the host/guest graph between a set of teams.
//
// A host reference from guest G to host H means "G visits H, H hosts G". It is stored
// on both plans at once by AddHostReference, which is the only way references are
// created. A Schedule is not safe for concurrent mutation.
type Schedule struct {
	teams  []*Team
	byNum  map[int]*Team
	edges  int
	course []CourseClass
}

// NewSchedule creates a schedule over the given teams.
//
// Existing references of the teams are discarded so that a schedule can be recomputed
// for the same teams.
//
// Parameters:
//   - teams: Teams taking part in the schedule
//   - courses: Course classes in configuration order
//
// Returns:
//   - *Schedule: Empty schedule
func NewSchedule(teams []*Team, courses []CourseClass) *Schedule {
	s := &Schedule{
		teams:  slices.Clone(teams),
		byNum:  make(map[int]*Team, len(teams)),
		course: slices.Clone(courses),
	}
	SortTeams(s.teams)
	for _, t := range s.teams {
		s.byNum[t.Number] = t
		p := t.Plan()
		p.hosts = nil
		p.guests = nil
	}

	return s
}

// Teams returns the teams of the schedule ordered by number.
func (s *Schedule) Teams() []*Team {
	return slices.Clone(s.teams)
}

// Courses returns the course classes of the schedule in configuration order.
func (s *Schedule) Courses() []CourseClass {
	return slices.Clone(s.course)
}

// Team returns the team with the given number, or nil.
func (s *Schedule) Team(number int) *Team {
	return s.byNum[number]
}

// NumReferences returns the total number of host references in the schedule.
func (s *Schedule) NumReferences() int {
	return s.edges
}

// Linked reports whether a reference exists between a and b in either direction.
func (s *Schedule) Linked(a, b *Team) bool {
	return a.Plan().Contains(b)
}

// AddHostReference records that guest visits host.
//
// The host is added to the guest's host teams and the guest to the host's guest teams
// in one step, so no caller can observe a half-inserted reference.
//
// Parameters:
//   - guest: Team visiting
//   - host: Team hosting
//
// Returns:
//   - error: ErrInvariantViolation for self references, unknown teams or teams that are
//     already linked in either direction
func (s *Schedule) AddHostReference(guest, host *Team) error {
	if guest.Number == host.Number {
		return fmt.Errorf("%w: team %d cannot host itself", ErrInvariantViolation, guest.Number)
	}
	if s.byNum[guest.Number] != guest || s.byNum[host.Number] != host {
		return fmt.Errorf("%w: teams %d and %d must both belong to the schedule",
			ErrInvariantViolation, guest.Number, host.Number)
	}
	if s.Linked(guest, host) {
		return fmt.Errorf("%w: teams %d and %d are already linked", ErrInvariantViolation, guest.Number, host.Number)
	}

	gp := guest.Plan()
	hp := host.Plan()
	gp.hosts = append(gp.hosts, host)
	hp.guests = append(hp.guests, guest)
	s.edges++

	return nil
}

// Encounters returns every team the given team meets during the dinner, ordered by number.
//
// These are the guests at its own table, its hosts, and the other guests sitting at
// each host's table.
func (s *Schedule) Encounters(team *Team) []*Team {
	seen := make(map[int]*Team)
	for _, t := range encounters(team) {
		seen[t.Number] = t
	}

	result := make([]*Team, 0, len(seen))
	for _, t := range seen {
		result = append(result, t)
	}
	SortTeams(result)

	return result
}

// encounters lists met teams including repetitions.
func encounters(team *Team) []*Team {
	p := team.Plan()
	result := slices.Clone(p.guests)
	for _, host := range p.hosts {
		result = append(result, host)
		for _, other := range host.Plan().guests {
			if other.Number != team.Number {
				result = append(result, other)
			}
		}
	}

	return result
}

// MeetsEveryTeamOnce reports whether no team meets any other team more than once.
func (s *Schedule) MeetsEveryTeamOnce() bool {
	for _, t := range s.teams {
		met := encounters(t)
		if len(met) != len(s.Encounters(t)) {
			return false
		}
	}

	return true
}

// Validate checks every team against the schedule invariants.
//
// Each team must hold exactly numCourses-1 host and guest references, must not reference
// itself, must not hold a team as host and guest at the same time, must not reference a
// team of its own course and must not reference two teams of the same course in either set.
//
// Parameters:
//   - numCourses: Number of course classes
//
// Returns:
//   - []Violation: All violations found, empty when the schedule is complete and valid
func (s *Schedule) Validate(numCourses int) []Violation {
	need := numCourses - 1
	var violations []Violation

	for _, t := range s.teams {
		p := t.Plan()
		if len(p.hosts) != need {
			violations = append(violations, Violation{
				Team: t.Number, Kind: ViolationHostCount,
				Detail: fmt.Sprintf("has %d host references, want %d", len(p.hosts), need),
			})
		}
		if len(p.guests) != need {
			violations = append(violations, Violation{
				Team: t.Number, Kind: ViolationGuestCount,
				Detail: fmt.Sprintf("has %d guest references, want %d", len(p.guests), need),
			})
		}
		violations = append(violations, checkReferences(t, p.hosts, "host")...)
		violations = append(violations, checkReferences(t, p.guests, "guest")...)
		for _, h := range p.hosts {
			if containsTeam(p.guests, h) {
				violations = append(violations, Violation{
					Team: t.Number, Kind: ViolationBidirectional,
					Detail: fmt.Sprintf("team %d is host and guest at the same time", h.Number),
				})
			}
		}
	}

	return violations
}

func checkReferences(t *Team, refs []*Team, direction string) []Violation {
	var violations []Violation
	courses := make(map[CourseClass]int, len(refs))
	for _, r := range refs {
		if r.Number == t.Number {
			violations = append(violations, Violation{
				Team: t.Number, Kind: ViolationSelfReference,
				Detail: "references itself as " + direction,
			})
		}
		if r.Course == t.Course {
			violations = append(violations, Violation{
				Team: t.Number, Kind: ViolationSameCourse,
				Detail: fmt.Sprintf("%s team %d cooks the same course %s", direction, r.Number, r.Course),
			})
		}
		courses[r.Course]++
	}
	for course, n := range courses {
		if n > 1 {
			violations = append(violations, Violation{
				Team: t.Number, Kind: ViolationDuplicateCourse,
				Detail: fmt.Sprintf("%d %s teams cook %s", n, direction, course),
			})
		}
	}

	return violations
}

// ViolationKind classifies a schedule invariant violation.
type ViolationKind int

const (
	// ViolationHostCount means a team has the wrong number of host references.
	ViolationHostCount ViolationKind = iota + 1

	// ViolationGuestCount means a team has the wrong number of guest references.
	ViolationGuestCount

	// ViolationSelfReference means a team references itself.
	ViolationSelfReference

	// ViolationBidirectional means two teams host each other.
	ViolationBidirectional

	// ViolationSameCourse means a team references a team cooking its own course.
	ViolationSameCourse

	// ViolationDuplicateCourse means a team references two teams cooking the same course.
	ViolationDuplicateCourse
)

// String returns a short name of the violation kind.
func (k ViolationKind) String() string {
	switch k {
	case ViolationHostCount:
		return "host_count"
	case ViolationGuestCount:
		return "guest_count"
	case ViolationSelfReference:
		return "self_reference"
	case ViolationBidirectional:
		return "bidirectional"
	case ViolationSameCourse:
		return "same_course"
	case ViolationDuplicateCourse:
		return "duplicate_course"
	default:
		return "unknown"
	}
}

// Violation describes one broken schedule invariant for one team.
type Violation struct {
	Team   int
	Kind   ViolationKind
	Detail string
}

// String renders the violation.
func (v Violation) String() string {
	return fmt.Sprintf("team %d: %s: %s", v.Team, v.Kind, v.Detail)
}

// IsIncomplete reports whether the violation only concerns a missing reference count.
func (v Violation) IsIncomplete() bool {
	return v.Kind == ViolationHostCount || v.Kind == ViolationGuestCount
}
