package rundinner

import "github.com/arloliu/rundinner/types"

// Sentinel errors returned by the Calculator.
//
// They are the errors of the types package, re-exported so that callers can check
// them with errors.Is without importing types.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrInsufficientParticipants is returned when the participants cannot fill one segment.
	ErrInsufficientParticipants = types.ErrInsufficientParticipants

	// ErrSizeMismatch is returned when the team count is not a multiple of the course count.
	ErrSizeMismatch = types.ErrSizeMismatch

	// ErrInsufficientCourseDiversity is returned when fewer than two courses are configured.
	ErrInsufficientCourseDiversity = types.ErrInsufficientCourseDiversity

	// ErrParticipantSourceRequired is returned when Calculate is called without a source.
	ErrParticipantSourceRequired = types.ErrParticipantSourceRequired

	// ErrInvariantViolation is returned when a structural guarantee was broken.
	ErrInvariantViolation = types.ErrInvariantViolation

	// ErrIncompleteSchedule is returned when a team misses host or guest references.
	ErrIncompleteSchedule = types.ErrIncompleteSchedule

	// ErrUnsupportedSegment is returned when a strategy cannot build a segment shape.
	ErrUnsupportedSegment = types.ErrUnsupportedSegment

	// ErrStoreFailed is returned when the schedule store fails.
	ErrStoreFailed = types.ErrStoreFailed

	// ErrScheduleNotFound is returned when no schedule is stored for an event.
	ErrScheduleNotFound = types.ErrScheduleNotFound

	// ErrConnectivity indicates a NATS/KV connectivity issue.
	ErrConnectivity = types.ErrConnectivity

	// ErrStaleVersion is returned when an older snapshot is written over a newer one.
	ErrStaleVersion = types.ErrStaleVersion
)
