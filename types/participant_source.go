package types

import "context"

// ParticipantSource provides the participants of one dinner event.
//
// Implementations can read various backends:
//   - Static: fixed list for tests and embedding applications
//   - YAMLFile: participant list maintained next to the event configuration
//   - Custom: registration database or spreadsheet import
//
// The Calculator calls ListParticipants once per Calculate call.
type ParticipantSource interface {
	// ListParticipants returns all registered participants.
	//
	// Implementations should:
	//   - Return participants with unique numbers
	//   - Handle context cancellation gracefully
	//   - Return fresh participant values on every call, since formation marks hosts
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//
	// Returns:
	//   - []*Participant: Registered participants
	//   - error: Loading error (nil on success)
	ListParticipants(ctx context.Context) ([]*Participant, error)
}
