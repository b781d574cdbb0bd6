package rundinner

import "github.com/arloliu/rundinner/types"

// Re-export types from the types package.
//
// This file provides the public API for the library's core types and interfaces.
// It uses type aliases to re-export definitions from the `types` subpackage, which
// contains the actual implementations.
//
// Internal packages depend on `types` only, so they never import the root package,
// while users still get `rundinner.Team`, `rundinner.Schedule` and friends.
type (
	Participant      = types.Participant
	Gender           = types.Gender
	GenderPolicy     = types.GenderPolicy
	Capacity         = types.Capacity
	CourseClass      = types.CourseClass
	Team             = types.Team
	VisitationPlan   = types.VisitationPlan
	Schedule         = types.Schedule
	Violation        = types.Violation
	ViolationKind    = types.ViolationKind
	CombinationInfo  = types.CombinationInfo
	TeamsResult      = types.TeamsResult
	Segment          = types.Segment
	ScheduleSnapshot = types.ScheduleSnapshot
	TeamSnapshot     = types.TeamSnapshot
	StoreConfig      = types.StoreConfig

	IncompleteScheduleError = types.IncompleteScheduleError
)

// Re-export interfaces from the types package for convenience.
type (
	RouteStrategy     = types.RouteStrategy
	ParticipantSource = types.ParticipantSource
	ScheduleStore     = types.ScheduleStore
	MetricsCollector  = types.MetricsCollector
	Logger            = types.Logger
	Hooks             = types.Hooks
)

// Re-export constants from the types package.
const (
	UndefinedSeats = types.UndefinedSeats

	GenderUndefined = types.GenderUndefined
	GenderMale      = types.GenderMale
	GenderFemale    = types.GenderFemale

	GenderIgnore     = types.GenderIgnore
	GenderForceMixed = types.GenderForceMixed
	GenderForceSame  = types.GenderForceSame

	CapacityUnknown      = types.CapacityUnknown
	CapacitySufficient   = types.CapacitySufficient
	CapacityInsufficient = types.CapacityInsufficient
)

// Standard course classes.
var (
	Starter    = types.Starter
	MainCourse = types.MainCourse
	Dessert    = types.Dessert
)

// NewParticipant creates a participant with unknown seat count and undefined gender.
func NewParticipant(number int) *Participant {
	return types.NewParticipant(number)
}

// StandardCourses returns the default three-course menu.
func StandardCourses() []CourseClass {
	return types.StandardCourses()
}

// NewScheduleSnapshot captures the current state of a schedule for storage.
func NewScheduleSnapshot(eventID string, version int64, schedule *Schedule, teams *TeamsResult) *ScheduleSnapshot {
	return types.NewScheduleSnapshot(eventID, version, schedule, teams)
}

// NewTeam creates a team with the given number and members.
func NewTeam(number int, members []*Participant) *Team {
	return types.NewTeam(number, members)
}
