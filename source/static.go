package source

import (
	"context"
	"sync"

	"github.com/arloliu/rundinner/types"
)

// Static implements a participant source with a fixed list of participants.
type Static struct {
	mu           sync.RWMutex
	participants []*types.Participant
}

var _ types.ParticipantSource = (*Static)(nil)

// NewStatic creates a new static participant source.
//
// The source returns a fixed list of participants that only changes through Update.
// Useful for testing and for callers that load participants themselves.
//
// Parameters:
//   - participants: Registered participants in registration order
//
// Returns:
//   - *Static: Initialized static source
//
// Example:
//
//	participants := []*types.Participant{
//	    {Number: 1, Name: "Ada", Seats: 6},
//	    {Number: 2, Name: "Linus", Seats: types.UndefinedSeats},
//	}
//	src := source.NewStatic(participants)
//	result, err := calc.Calculate(ctx, src)
func NewStatic(participants []*types.Participant) *Static {
	return &Static{
		participants: cloneAll(participants),
	}
}

// ListParticipants returns copies of the static participants.
//
// Returns:
//   - []*types.Participant: The participants in registration order
//   - error: Always nil (never fails)
func (s *Static) ListParticipants(_ context.Context) ([]*types.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.participants), nil
}

// Update replaces the participant list.
//
// This allows the static source to simulate late registrations and cancellations.
//
// Parameters:
//   - participants: New list of participants
//
// Example:
//
//	src := source.NewStatic(registered)
//	// Later: a late registration arrives
//	src.Update(append(registered, late))
func (s *Static) Update(participants []*types.Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.participants = cloneAll(participants)
}

func cloneAll(participants []*types.Participant) []*types.Participant {
	result := make([]*types.Participant, len(participants))
	for i, p := range participants {
		result[i] = p.Clone()
	}

	return result
}
