package types

import (
	"context"
	"time"
)

// ScheduleStore persists computed schedules per dinner event.
//
// Implementations must be safe for concurrent use.
type ScheduleStore interface {
	// Save stores the snapshot under its event ID.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - snapshot: Schedule snapshot; Version must be greater than the stored one
	//
	// Returns:
	//   - error: ErrStaleVersion, ErrStoreFailed or ErrConnectivity on failure
	Save(ctx context.Context, snapshot *ScheduleSnapshot) error

	// Load returns the latest snapshot of the event.
	//
	// Returns:
	//   - *ScheduleSnapshot: Stored snapshot
	//   - error: ErrScheduleNotFound if nothing is stored for the event
	Load(ctx context.Context, eventID string) (*ScheduleSnapshot, error)

	// Delete removes the snapshot of the event. Deleting a missing event is not an error.
	Delete(ctx context.Context, eventID string) error
}

// ScheduleSnapshot is the durable form of a computed schedule.
//
// Teams are referenced by number so that the snapshot can be stored and exchanged
// without the in-memory team graph.
type ScheduleSnapshot struct {
	EventID     string          `json:"eventId" yaml:"eventId"`
	Version     int64           `json:"version" yaml:"version"`
	CreatedAt   time.Time       `json:"createdAt" yaml:"createdAt"`
	Courses     []CourseClass   `json:"courses" yaml:"courses"`
	Combination CombinationInfo `json:"combination" yaml:"combination"`
	Teams       []TeamSnapshot  `json:"teams" yaml:"teams"`
	Unplaced    []*Participant  `json:"unplaced,omitempty" yaml:"unplaced,omitempty"`
}

// TeamSnapshot is the durable form of one team and its route.
type TeamSnapshot struct {
	Number     int            `json:"number" yaml:"number"`
	Course     CourseClass    `json:"course" yaml:"course"`
	Host       int            `json:"host" yaml:"host"`
	Members    []*Participant `json:"members" yaml:"members"`
	HostTeams  []int          `json:"hostTeams" yaml:"hostTeams"`
	GuestTeams []int          `json:"guestTeams" yaml:"guestTeams"`
}

// NewScheduleSnapshot captures the current state of a schedule.
//
// Participants are copied without their host flag; the host of each team is recorded
// by number instead.
//
// Parameters:
//   - eventID: Identifier of the dinner event
//   - version: Monotonic snapshot version
//   - schedule: Schedule to capture
//   - teams: Result of team formation, used for the combination and unplaced participants
//
// Returns:
//   - *ScheduleSnapshot: Snapshot with teams ordered by number
func NewScheduleSnapshot(eventID string, version int64, schedule *Schedule, teams *TeamsResult) *ScheduleSnapshot {
	snap := &ScheduleSnapshot{
		EventID:   eventID,
		Version:   version,
		CreatedAt: time.Now().UTC(),
		Courses:   schedule.Courses(),
	}
	if teams != nil {
		snap.Unplaced = cloneParticipants(teams.Unplaced)
		if teams.Combination != nil {
			snap.Combination = *teams.Combination
		}
	}

	for _, t := range schedule.Teams() {
		ts := TeamSnapshot{
			Number:     t.Number,
			Course:     t.Course,
			Members:    cloneParticipants(t.Members),
			HostTeams:  teamNumbers(t.Plan().HostTeams()),
			GuestTeams: teamNumbers(t.Plan().GuestTeams()),
		}
		if h := t.Host(); h != nil {
			ts.Host = h.Number
		}
		snap.Teams = append(snap.Teams, ts)
	}

	return snap
}

// Team returns the snapshot of the team with the given number.
func (s *ScheduleSnapshot) Team(number int) (TeamSnapshot, bool) {
	for _, t := range s.Teams {
		if t.Number == number {
			return t, true
		}
	}

	return TeamSnapshot{}, false
}

func cloneParticipants(participants []*Participant) []*Participant {
	if participants == nil {
		return nil
	}
	result := make([]*Participant, len(participants))
	for i, p := range participants {
		result[i] = p.Clone()
	}

	return result
}

func teamNumbers(teams []*Team) []int {
	result := make([]int, len(teams))
	for i, t := range teams {
		result[i] = t.Number
	}

	return result
}
