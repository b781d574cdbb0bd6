package testing

import (
	"strconv"

	"github.com/arloliu/rundinner/types"
)

// GenerateParticipants creates n participants numbered 1..n with unknown seats.
//
// Parameters:
//   - n: Number of participants
//
// Returns:
//   - []*types.Participant: Participants in number order, named "participant-<n>"
func GenerateParticipants(n int) []*types.Participant {
	result := make([]*types.Participant, n)
	for i := range n {
		p := types.NewParticipant(i + 1)
		p.Name = "participant-" + strconv.Itoa(i+1)
		p.Email = p.Name + "@example.com"
		result[i] = p
	}

	return result
}

// DistributeSeats assigns seat counts alternately: even positions get hostSeats, odd
// positions get guestSeats.
//
// Parameters:
//   - participants: Participants to modify in place
//   - hostSeats: Seats of participants at even positions
//   - guestSeats: Seats of participants at odd positions
//
// Example:
//
//	ps := dinnertest.GenerateParticipants(18)
//	dinnertest.DistributeSeats(ps, 6, 2) // nine hosts for 2 x 3 guests, nine without room
func DistributeSeats(participants []*types.Participant, hostSeats, guestSeats int) {
	for i, p := range participants {
		if i%2 == 0 {
			p.Seats = hostSeats
		} else {
			p.Seats = guestSeats
		}
	}
}

// DistributeGender assigns genders so that the first `female` participants are female
// and the rest are male.
//
// Parameters:
//   - participants: Participants to modify in place
//   - female: Number of female participants; clamped to len(participants)
func DistributeGender(participants []*types.Participant, female int) {
	for i, p := range participants {
		if i < female {
			p.Gender = types.GenderFemale
		} else {
			p.Gender = types.GenderMale
		}
	}
}
