package combination

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rundinner/types"
)

func TestCandidates(t *testing.T) {
	require.Equal(t, []int{4, 6}, Candidates(2))
	require.Equal(t, []int{9, 12, 15}, Candidates(3))
	require.Equal(t, []int{16}, Candidates(4))
	require.Equal(t, []int{1}, Candidates(1))
}

func TestPlan(t *testing.T) {
	t.Run("plain segments", func(t *testing.T) {
		info, err := Plan(20, 3, false)
		require.NoError(t, err)
		require.Equal(t, 9, info.SegmentSize)
		require.Equal(t, 2, info.RemainderTeams)
		require.Nil(t, info.Factorization)
		require.Equal(t, []int{9, 9}, info.Segments())
	})

	t.Run("too few teams", func(t *testing.T) {
		_, err := Plan(8, 3, true)
		require.ErrorIs(t, err, types.ErrInsufficientParticipants)

		_, err = Plan(3, 2, true)
		require.ErrorIs(t, err, types.ErrInsufficientParticipants)
	})

	t.Run("no courses", func(t *testing.T) {
		_, err := Plan(10, 0, true)
		require.ErrorIs(t, err, types.ErrInvalidConfig)
	})

	t.Run("exact segment keeps single size", func(t *testing.T) {
		info, err := Plan(9, 3, true)
		require.NoError(t, err)
		require.Equal(t, 0, info.RemainderTeams)
		require.Nil(t, info.Factorization)
		require.Nil(t, info.Candidates)
		require.Equal(t, []int{9}, info.Segments())
	})

	t.Run("equal remainder keeps plain segments", func(t *testing.T) {
		for _, tc := range []struct{ numTeams, courses int }{{18, 3}, {10, 3}, {9, 2}, {17, 4}} {
			plain, err := Plan(tc.numTeams, tc.courses, false)
			require.NoError(t, err)
			info, err := Plan(tc.numTeams, tc.courses, true)
			require.NoError(t, err)
			require.Equal(t, plain, info, "%d teams %d courses", tc.numTeams, tc.courses)
		}
	})
}

func TestPlan_Factorization(t *testing.T) {
	tests := []struct {
		numTeams  int
		courses   int
		want      map[int]int
		remainder int
	}{
		{15, 3, map[int]int{9: 0, 12: 0, 15: 1}, 0},
		{21, 3, map[int]int{9: 1, 12: 1, 15: 0}, 0},
		{33, 3, map[int]int{9: 2, 12: 0, 15: 1}, 0},
		{75, 3, map[int]int{9: 7, 12: 1, 15: 0}, 0},
		{10, 2, map[int]int{4: 1, 6: 1}, 0},
		{14, 2, map[int]int{4: 2, 6: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d teams %d courses", tt.numTeams, tt.courses), func(t *testing.T) {
			info, err := Plan(tt.numTeams, tt.courses, true)
			require.NoError(t, err)
			require.Equal(t, tt.want, info.Factorization)
			require.Equal(t, tt.remainder, info.RemainderTeams)

			sum := 0
			for _, s := range info.Segments() {
				sum += s
			}
			require.Equal(t, info.PlaceableTeams(), sum)
		})
	}
}

func TestPlan_FactorizationNeverWorse(t *testing.T) {
	for courses := 2; courses <= 4; courses++ {
		for n := courses * courses; n <= 120; n++ {
			plain, err := Plan(n, courses, false)
			require.NoError(t, err)
			factorized, err := Plan(n, courses, true)
			require.NoError(t, err)
			require.LessOrEqual(t, factorized.RemainderTeams, plain.RemainderTeams, "n=%d k=%d", n, courses)
		}
	}
}

func TestForParticipants(t *testing.T) {
	t.Run("team size not below participant count", func(t *testing.T) {
		_, err := ForParticipants(2, 2, 2, true)
		require.ErrorIs(t, err, types.ErrInsufficientParticipants)
	})

	t.Run("too few teams for one segment", func(t *testing.T) {
		_, err := ForParticipants(5, 2, 2, true)
		require.ErrorIs(t, err, types.ErrInsufficientParticipants)
	})

	t.Run("eighteen participants in pairs with three courses", func(t *testing.T) {
		info, err := ForParticipants(18, 2, 3, true)
		require.NoError(t, err)
		require.Equal(t, 9, info.NumTeams)
		require.Equal(t, 0, NotAssignable(18, 2, info))
	})
}

func TestNotAssignable(t *testing.T) {
	tests := []struct {
		participants int
		teamSize     int
		courses      int
		factorize    bool
		want         int
	}{
		{18, 2, 3, true, 0},
		{19, 2, 3, true, 1},
		{9, 2, 2, true, 1},
		{13, 2, 2, false, 5},
		{13, 2, 2, true, 1},
		{22, 2, 3, false, 4},
		{23, 2, 3, true, 5},
		{30, 3, 3, true, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d/%d", tt.participants, tt.teamSize, tt.courses), func(t *testing.T) {
			info, err := ForParticipants(tt.participants, tt.teamSize, tt.courses, tt.factorize)
			require.NoError(t, err)
			require.Equal(t, tt.want, NotAssignable(tt.participants, tt.teamSize, info))
		})
	}
}
