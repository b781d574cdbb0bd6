package types

import (
	"fmt"
	"strings"
)

// UndefinedSeats marks a participant whose seating capacity is unknown.
const UndefinedSeats = -1

// Gender of a participant.
type Gender int

const (
	// GenderUndefined is used when the gender is not known or not relevant.
	GenderUndefined Gender = iota

	// GenderMale marks a male participant.
	GenderMale

	// GenderFemale marks a female participant.
	GenderFemale
)

// String returns the lower-case name of the gender.
func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return "undefined"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (g Gender) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
//
// Unknown values decode to GenderUndefined rather than failing, since gender is an
// optional attribute of ingested participant data.
func (g *Gender) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "male", "m":
		*g = GenderMale
	case "female", "f":
		*g = GenderFemale
	default:
		*g = GenderUndefined
	}

	return nil
}

// GenderPolicy controls how the gender of participants influences team formation.
type GenderPolicy int

const (
	// GenderIgnore disables gender-based distribution.
	GenderIgnore GenderPolicy = iota

	// GenderForceMixed tries to pair participants of different gender.
	GenderForceMixed

	// GenderForceSame tries to pair participants of the same gender.
	GenderForceSame
)

// String returns the configuration name of the policy.
func (p GenderPolicy) String() string {
	switch p {
	case GenderForceMixed:
		return "force-mixed"
	case GenderForceSame:
		return "force-same"
	default:
		return "ignore"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p GenderPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *GenderPolicy) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "ignore":
		*p = GenderIgnore
	case "force-mixed", "mixed":
		*p = GenderForceMixed
	case "force-same", "same":
		*p = GenderForceSame
	default:
		return fmt.Errorf("%w: unknown gender policy %q", ErrInvalidConfig, string(text))
	}

	return nil
}

// Capacity is a fuzzy boolean describing whether a participant can host a full course.
type Capacity int

const (
	// CapacityUnknown means the seat count of the participant is not known.
	CapacityUnknown Capacity = iota

	// CapacitySufficient means the participant has enough seats to host.
	CapacitySufficient

	// CapacityInsufficient means the participant does not have enough seats to host.
	CapacityInsufficient
)

// String returns a readable name of the capacity value.
func (c Capacity) String() string {
	switch c {
	case CapacitySufficient:
		return "sufficient"
	case CapacityInsufficient:
		return "insufficient"
	default:
		return "unknown"
	}
}

// Participant is a single person taking part in the dinner.
//
// Participants are created by an ingestion collaborator (see ParticipantSource) before
// any calculation runs. The only field mutated by the library is the host flag, which
// is set exactly once during team formation.
type Participant struct {
	// Number identifies the participant. It must be unique within one event and is
	// used as deterministic tie-break.
	Number int `json:"number" yaml:"number"`

	// Name is a display name, not used by any algorithm.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Email is a contact address, not used by any algorithm.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// Gender of the participant.
	Gender Gender `json:"gender" yaml:"gender"`

	// Seats is the seating capacity at the participant's location.
	// Negative values (UndefinedSeats) mean unknown.
	Seats int `json:"seats" yaml:"seats"`

	host bool
}

// NewParticipant creates a participant with unknown seat count and undefined gender.
func NewParticipant(number int) *Participant {
	return &Participant{Number: number, Seats: UndefinedSeats}
}

// IsHost reports whether the participant was designated as host of its team.
func (p *Participant) IsHost() bool {
	return p.host
}

// MarkHost designates the participant as host of its team.
func (p *Participant) MarkHost() {
	p.host = true
}

// ClearHost removes the host designation, so the participant can join a new formation.
func (p *Participant) ClearHost() {
	p.host = false
}

// HasKnownSeats reports whether the seating capacity is known.
func (p *Participant) HasKnownSeats() bool {
	return p.Seats >= 0
}

// HostingCapacity evaluates whether the participant can host one course.
//
// Hosting requires a seat for every member of every team present at the table, which
// is teamSize * numCourses seats (the host team plus one guest team per other course).
//
// Parameters:
//   - teamSize: Number of participants per team
//   - numCourses: Number of course classes of the dinner
//
// Returns:
//   - Capacity: CapacityUnknown if the seat count is unknown, otherwise sufficient or insufficient
func (p *Participant) HostingCapacity(teamSize, numCourses int) Capacity {
	if !p.HasKnownSeats() {
		return CapacityUnknown
	}
	if p.Seats >= teamSize*numCourses {
		return CapacitySufficient
	}

	return CapacityInsufficient
}

// Clone returns a copy of the participant without the host designation.
//
// Sources return clones so that every calculation starts from unmarked participants.
func (p *Participant) Clone() *Participant {
	c := *p
	c.host = false

	return &c
}

// String returns the participant number and name.
func (p *Participant) String() string {
	if p.Name == "" {
		return fmt.Sprintf("%d", p.Number)
	}

	return fmt.Sprintf("%d (%s)", p.Number, p.Name)
}
