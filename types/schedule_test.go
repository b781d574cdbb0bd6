package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newCourseTeams(courses []CourseClass, perCourse int) []*Team {
	var teams []*Team
	n := 1
	for _, c := range courses {
		for range perCourse {
			t := NewTeam(n, []*Participant{NewParticipant(2*n - 1), NewParticipant(2 * n)})
			t.Course = c
			teams = append(teams, t)
			n++
		}
	}

	return teams
}

// twoCourseSchedule builds the four-team rotation 3->1, 4->2, 2->3, 1->4.
func twoCourseSchedule(t *testing.T) (*Schedule, []*Team) {
	t.Helper()

	courses := []CourseClass{Starter, Dessert}
	teams := newCourseTeams(courses, 2)
	s := NewSchedule(teams, courses)
	require.NoError(t, s.AddHostReference(teams[2], teams[0]))
	require.NoError(t, s.AddHostReference(teams[3], teams[1]))
	require.NoError(t, s.AddHostReference(teams[1], teams[2]))
	require.NoError(t, s.AddHostReference(teams[0], teams[3]))

	return s, teams
}

func TestSchedule_AddHostReference(t *testing.T) {
	t.Run("inserts both directions", func(t *testing.T) {
		courses := []CourseClass{Starter, Dessert}
		teams := newCourseTeams(courses, 2)
		s := NewSchedule(teams, courses)

		require.NoError(t, s.AddHostReference(teams[0], teams[2]))
		require.Equal(t, []*Team{teams[2]}, teams[0].Plan().HostTeams())
		require.Equal(t, []*Team{teams[0]}, teams[2].Plan().GuestTeams())
		require.Equal(t, 0, teams[0].Plan().NumGuests())
		require.Equal(t, 1, s.NumReferences())
		require.True(t, s.Linked(teams[0], teams[2]))
		require.True(t, s.Linked(teams[2], teams[0]))
	})

	t.Run("rejects self reference", func(t *testing.T) {
		teams := newCourseTeams([]CourseClass{Starter, Dessert}, 2)
		s := NewSchedule(teams, nil)

		err := s.AddHostReference(teams[1], teams[1])
		require.ErrorIs(t, err, ErrInvariantViolation)
		require.Equal(t, 0, teams[1].Plan().NumHosts())
	})

	t.Run("rejects duplicate and reverse reference", func(t *testing.T) {
		teams := newCourseTeams([]CourseClass{Starter, Dessert}, 2)
		s := NewSchedule(teams, nil)

		require.NoError(t, s.AddHostReference(teams[0], teams[2]))
		require.ErrorIs(t, s.AddHostReference(teams[0], teams[2]), ErrInvariantViolation)
		require.ErrorIs(t, s.AddHostReference(teams[2], teams[0]), ErrInvariantViolation)
		require.Equal(t, 1, s.NumReferences())
	})

	t.Run("rejects foreign team", func(t *testing.T) {
		teams := newCourseTeams([]CourseClass{Starter, Dessert}, 2)
		s := NewSchedule(teams[:3], nil)

		require.ErrorIs(t, s.AddHostReference(teams[0], teams[3]), ErrInvariantViolation)
	})

	t.Run("new schedule clears previous references", func(t *testing.T) {
		_, teams := twoCourseSchedule(t)
		require.Equal(t, 1, teams[0].Plan().NumHosts())

		NewSchedule(teams, nil)
		for _, team := range teams {
			require.Equal(t, 0, team.Plan().NumHosts())
			require.Equal(t, 0, team.Plan().NumGuests())
		}
	})
}

func TestSchedule_Validate(t *testing.T) {
	t.Run("complete rotation has no violations", func(t *testing.T) {
		s, teams := twoCourseSchedule(t)

		require.Empty(t, s.Validate(2))
		for _, team := range teams {
			require.True(t, team.Plan().IsComplete(1))
		}
		require.True(t, s.MeetsEveryTeamOnce())
	})

	t.Run("missing references are reported per direction", func(t *testing.T) {
		courses := []CourseClass{Starter, Dessert}
		teams := newCourseTeams(courses, 2)
		s := NewSchedule(teams, courses)
		require.NoError(t, s.AddHostReference(teams[2], teams[0]))

		violations := s.Validate(2)
		require.NotEmpty(t, violations)
		for _, v := range violations {
			require.True(t, v.IsIncomplete(), v.String())
		}
	})

	t.Run("same course reference is reported", func(t *testing.T) {
		courses := []CourseClass{Starter, Dessert}
		teams := newCourseTeams(courses, 2)
		s := NewSchedule(teams, courses)
		require.NoError(t, s.AddHostReference(teams[0], teams[1]))

		kinds := make(map[ViolationKind]bool)
		for _, v := range s.Validate(2) {
			kinds[v.Kind] = true
		}
		require.True(t, kinds[ViolationSameCourse])
	})

	t.Run("two hosts of one course are reported", func(t *testing.T) {
		courses := []CourseClass{Starter, MainCourse, Dessert}
		teams := newCourseTeams(courses, 3)
		s := NewSchedule(teams, courses)
		require.NoError(t, s.AddHostReference(teams[0], teams[3]))
		require.NoError(t, s.AddHostReference(teams[0], teams[4]))

		var found bool
		for _, v := range s.Validate(3) {
			if v.Kind == ViolationDuplicateCourse && v.Team == 1 {
				found = true
			}
		}
		require.True(t, found)
	})
}

func TestSchedule_Encounters(t *testing.T) {
	s, teams := twoCourseSchedule(t)

	met := s.Encounters(teams[0])
	require.Equal(t, []int{3, 4}, teamNumbers(met))
	require.Equal(t, []int{1, 2}, teamNumbers(s.Encounters(teams[2])))
}

func TestVisitationPlan(t *testing.T) {
	s, teams := twoCourseSchedule(t)
	require.NotNil(t, s)

	plan := teams[0].Plan()
	require.Same(t, teams[0], plan.Team())
	require.Same(t, plan, teams[0].Plan())
	require.True(t, plan.Contains(teams[2]))
	require.True(t, plan.Contains(teams[3]))
	require.False(t, plan.Contains(teams[1]))
	require.True(t, plan.HostsCourse(Dessert))
	require.False(t, plan.HostsCourse(Starter))
	require.True(t, plan.GuestsCourse(Dessert))
	require.Equal(t, "-> 4 - Dessert\n<- 3 - Dessert", plan.String())

	hosts := plan.HostTeams()
	hosts[0] = teams[1]
	require.Equal(t, 4, plan.HostTeams()[0].Number)
}

func TestNewScheduleSnapshot(t *testing.T) {
	s, teams := twoCourseSchedule(t)
	teams[0].Members[1].MarkHost()
	late := NewParticipant(9)

	snap := NewScheduleSnapshot("spring", 3, s, &TeamsResult{
		Teams:       teams,
		Unplaced:    []*Participant{late},
		Combination: &CombinationInfo{NumTeams: 4, NumCourses: 2, SegmentSize: 4},
	})

	require.Equal(t, "spring", snap.EventID)
	require.Equal(t, int64(3), snap.Version)
	require.Equal(t, []CourseClass{Starter, Dessert}, snap.Courses)
	require.Equal(t, 4, snap.Combination.SegmentSize)
	require.Len(t, snap.Teams, 4)

	first, ok := snap.Team(1)
	require.True(t, ok)
	require.Equal(t, 2, first.Host)
	require.Equal(t, []int{4}, first.HostTeams)
	require.Equal(t, []int{3}, first.GuestTeams)

	// Members are detached copies without the host flag
	require.NotSame(t, teams[0].Members[1], first.Members[1])
	require.False(t, first.Members[1].IsHost())
	require.True(t, teams[0].Members[1].IsHost())
	require.NotSame(t, late, snap.Unplaced[0])

	second, ok := snap.Team(2)
	require.True(t, ok)
	require.Zero(t, second.Host, "no host designated")

	_, ok = snap.Team(7)
	require.False(t, ok)
}
