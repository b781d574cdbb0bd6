package types

import (
	"fmt"
	"slices"
	"strings"
)

// Team is a fixed-size group of participants cooking one course at the host's location.
//
// Identity is the team number, assigned 1-based in formation order. Members never change
// after formation and the course is assigned exactly once.
type Team struct {
	// Number identifies the team (1-based, formation order).
	Number int `json:"number" yaml:"number"`

	// Members of the team; exactly one of them is marked as host.
	Members []*Participant `json:"members" yaml:"members"`

	// Course assigned to the team; zero until courses are assigned.
	Course CourseClass `json:"course" yaml:"course"`

	plan *VisitationPlan
}

// NewTeam creates a team with the given number and members.
func NewTeam(number int, members []*Participant) *Team {
	return &Team{Number: number, Members: members}
}

// Host returns the member designated as host, or nil if none was designated yet.
func (t *Team) Host() *Participant {
	for _, m := range t.Members {
		if m.IsHost() {
			return m
		}
	}

	return nil
}

// HasCourse reports whether a course was assigned to the team.
func (t *Team) HasCourse() bool {
	return !t.Course.IsZero()
}

// Plan returns the visitation plan of the team, creating it on first access.
//
// Each team owns exactly one plan and the plan links back to the team. The plan is
// read-only: references are added through Schedule.AddHostReference.
func (t *Team) Plan() *VisitationPlan {
	if t.plan == nil {
		t.plan = &VisitationPlan{team: t}
	}

	return t.plan
}

// String returns the team number followed by the course, if assigned.
func (t *Team) String() string {
	if !t.HasCourse() {
		return fmt.Sprintf("%d", t.Number)
	}

	return fmt.Sprintf("%d - %s", t.Number, t.Course)
}

// CompareTeams orders teams by number.
func CompareTeams(a, b *Team) int {
	return a.Number - b.Number
}

// SortTeams sorts teams by number in place.
func SortTeams(teams []*Team) {
	slices.SortFunc(teams, CompareTeams)
}

// VisitationPlan is the personal route of one team.
//
// HostTeams are the teams this team visits as a guest; GuestTeams are the teams visiting
// this team. Both sets are kept in insertion order.
type VisitationPlan struct {
	team   *Team
	hosts  []*Team
	guests []*Team
}

// Team returns the team owning the plan.
func (p *VisitationPlan) Team() *Team {
	return p.team
}

// HostTeams returns a copy of the teams this team visits.
func (p *VisitationPlan) HostTeams() []*Team {
	return slices.Clone(p.hosts)
}

// GuestTeams returns a copy of the teams visiting this team.
func (p *VisitationPlan) GuestTeams() []*Team {
	return slices.Clone(p.guests)
}

// NumHosts returns the number of host references.
func (p *VisitationPlan) NumHosts() int {
	return len(p.hosts)
}

// NumGuests returns the number of guest references.
func (p *VisitationPlan) NumGuests() int {
	return len(p.guests)
}

// IsComplete reports whether the plan holds the required number of references in both directions.
func (p *VisitationPlan) IsComplete(numReferences int) bool {
	return len(p.hosts) == numReferences && len(p.guests) == numReferences
}

// Contains reports whether the team appears as host or guest in this plan.
func (p *VisitationPlan) Contains(team *Team) bool {
	return containsTeam(p.hosts, team) || containsTeam(p.guests, team)
}

// HostsCourse reports whether one of the host teams cooks the given course.
func (p *VisitationPlan) HostsCourse(course CourseClass) bool {
	return containsCourse(p.hosts, course)
}

// GuestsCourse reports whether one of the guest teams cooks the given course.
func (p *VisitationPlan) GuestsCourse(course CourseClass) bool {
	return containsCourse(p.guests, course)
}

// String renders the plan as "-> hosts" and "<- guests" lines.
func (p *VisitationPlan) String() string {
	var b strings.Builder
	b.WriteString("-> ")
	writeTeams(&b, p.hosts)
	b.WriteString("\n<- ")
	writeTeams(&b, p.guests)

	return b.String()
}

func writeTeams(b *strings.Builder, teams []*Team) {
	for i, t := range teams {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
}

func containsTeam(teams []*Team, team *Team) bool {
	for _, t := range teams {
		if t.Number == team.Number {
			return true
		}
	}

	return false
}

func containsCourse(teams []*Team, course CourseClass) bool {
	for _, t := range teams {
		if t.Course == course {
			return true
		}
	}

	return false
}
