package routing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rundinner/internal/combination"
	"github.com/arloliu/rundinner/internal/logger"
	"github.com/arloliu/rundinner/strategy"
	"github.com/arloliu/rundinner/types"
)

func testCourses(k int) []types.CourseClass {
	if k == 3 {
		return types.StandardCourses()
	}
	result := make([]types.CourseClass, k)
	for i := range k {
		result[i] = types.CourseClass{Label: fmt.Sprintf("course-%d", i+1)}
	}

	return result
}

// courseTeams creates n teams and assigns courses round robin.
func courseTeams(n int, courses []types.CourseClass) []*types.Team {
	teams := make([]*types.Team, n)
	for i := range n {
		teams[i] = types.NewTeam(i+1, []*types.Participant{types.NewParticipant(i + 1)})
		teams[i].Course = courses[i%len(courses)]
	}

	return teams
}

type segmentRecord struct {
	strategy string
	size     int
	complete bool
}

type recordingMetrics struct {
	types.MetricsCollector
	segments   []segmentRecord
	incomplete int
}

func (m *recordingMetrics) RecordSegmentBuilt(strategy string, size int, complete bool) {
	m.segments = append(m.segments, segmentRecord{strategy, size, complete})
}

func (m *recordingMetrics) RecordIncompleteTeams(count int) {
	m.incomplete = count
}

func TestSplit(t *testing.T) {
	courses := testCourses(3)

	t.Run("takes teams per course in number order", func(t *testing.T) {
		teams := courseTeams(21, courses)
		segments, err := Split(teams, courses, []int{9, 12})
		require.NoError(t, err)
		require.Len(t, segments, 2)

		require.Equal(t, 9, segments[0].Size())
		require.Equal(t, []int{1, 4, 7}, numbers(segments[0].Rows[0]))
		require.Equal(t, []int{2, 5, 8}, numbers(segments[0].Rows[1]))
		require.Equal(t, 12, segments[1].Size())
		require.Equal(t, []int{10, 13, 16, 19}, numbers(segments[1].Rows[0]))
		require.Equal(t, 1, segments[1].Index)
	})

	t.Run("leftover teams are an invariant violation", func(t *testing.T) {
		teams := courseTeams(12, courses)
		_, err := Split(teams, courses, []int{9})
		require.ErrorIs(t, err, types.ErrInvariantViolation)
	})

	t.Run("missing teams are an invariant violation", func(t *testing.T) {
		teams := courseTeams(9, courses)
		_, err := Split(teams, courses, []int{12})
		require.ErrorIs(t, err, types.ErrInvariantViolation)
	})

	t.Run("unknown course", func(t *testing.T) {
		teams := courseTeams(9, courses)
		teams[4].Course = types.CourseClass{Label: "Snack"}
		_, err := Split(teams, courses, []int{9})
		require.ErrorIs(t, err, types.ErrInvariantViolation)
	})
}

func numbers(teams []*types.Team) []int {
	result := make([]int, len(teams))
	for i, t := range teams {
		result[i] = t.Number
	}

	return result
}

func TestBuilder_Build(t *testing.T) {
	cases := []struct {
		numTeams int
		courses  int
	}{
		{9, 3}, {12, 3}, {18, 3}, {21, 3}, {33, 3}, {75, 3},
		{4, 2}, {6, 2}, {10, 2}, {14, 2},
		{16, 4}, {32, 4},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d teams %d courses", tc.numTeams, tc.courses), func(t *testing.T) {
			courses := testCourses(tc.courses)
			info, err := combination.Plan(tc.numTeams, tc.courses, true)
			require.NoError(t, err)
			require.Zero(t, info.RemainderTeams)

			teams := courseTeams(tc.numTeams, courses)
			m := &recordingMetrics{}
			b := NewBuilder(strategy.NewTemplateFirst(), WithMetrics(m))

			schedule, err := b.Build(teams, courses, info)
			require.NoError(t, err)
			require.Empty(t, schedule.Validate(tc.courses))
			for _, team := range teams {
				require.Equal(t, tc.courses-1, team.Plan().NumHosts())
				require.Equal(t, tc.courses-1, team.Plan().NumGuests())
			}
			require.Len(t, m.segments, len(info.Segments()))
			for _, s := range m.segments {
				require.True(t, s.complete)
			}
			require.Zero(t, m.incomplete)
		})
	}
}

func TestBuilder_BuildRecordsSelectedStrategy(t *testing.T) {
	courses := testCourses(4)
	info, err := combination.Plan(16, 4, true)
	require.NoError(t, err)

	m := &recordingMetrics{}
	_, err = NewBuilder(strategy.NewTemplateFirst(), WithMetrics(m)).Build(courseTeams(16, courses), courses, info)
	require.NoError(t, err)
	require.Equal(t, []segmentRecord{{"constraint-search", 16, true}}, m.segments)
}

func TestBuilder_WarnsWhenTeamsMeetTwice(t *testing.T) {
	t.Run("constraint search", func(t *testing.T) {
		courses := testCourses(4)
		info, err := combination.Plan(16, 4, true)
		require.NoError(t, err)

		rec := logger.NewRecorder()
		schedule, err := NewBuilder(strategy.NewTemplateFirst(), WithLogger(rec)).
			Build(courseTeams(16, courses), courses, info)
		require.NoError(t, err)
		require.Empty(t, schedule.Validate(4))
		require.False(t, schedule.MeetsEveryTeamOnce())
		require.True(t, rec.Has("warn", "meet more than once"))
	})

	t.Run("templates", func(t *testing.T) {
		courses := testCourses(3)
		info, err := combination.Plan(21, 3, true)
		require.NoError(t, err)

		rec := logger.NewRecorder()
		schedule, err := NewBuilder(strategy.NewTemplateFirst(), WithLogger(rec)).
			Build(courseTeams(21, courses), courses, info)
		require.NoError(t, err)
		require.True(t, schedule.MeetsEveryTeamOnce())
		require.False(t, rec.Has("warn", "meet more than once"))
	})
}

func TestBuilder_Incomplete(t *testing.T) {
	courses := testCourses(5)
	info, err := combination.Plan(25, 5, true)
	require.NoError(t, err)

	t.Run("fails by default", func(t *testing.T) {
		m := &recordingMetrics{}
		schedule, err := NewBuilder(strategy.NewTemplateFirst(), WithMetrics(m)).
			Build(courseTeams(25, courses), courses, info)
		require.ErrorIs(t, err, types.ErrIncompleteSchedule)
		require.NotNil(t, schedule)

		var incErr *types.IncompleteScheduleError
		require.ErrorAs(t, err, &incErr)
		require.NotEmpty(t, incErr.Teams())
		require.Equal(t, len(incErr.Teams()), m.incomplete)
		require.False(t, m.segments[0].complete)
	})

	t.Run("warns when allowed", func(t *testing.T) {
		rec := logger.NewRecorder()
		schedule, err := NewBuilder(strategy.NewTemplateFirst(),
			WithAllowIncomplete(true), WithLogger(rec)).
			Build(courseTeams(25, courses), courses, info)
		require.NoError(t, err)
		require.NotEmpty(t, schedule.Validate(5))
		require.True(t, rec.Has("warn", "incomplete routes"))
	})
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("single course", func(t *testing.T) {
		courses := testCourses(1)
		info := &types.CombinationInfo{NumTeams: 4, NumCourses: 1, SegmentSize: 1}
		_, err := NewBuilder(strategy.NewTemplateFirst()).Build(courseTeams(4, courses), courses, info)
		require.ErrorIs(t, err, types.ErrInsufficientCourseDiversity)
	})

	t.Run("combination for other course count", func(t *testing.T) {
		courses := testCourses(3)
		info, err := combination.Plan(9, 2, false)
		require.NoError(t, err)
		_, err = NewBuilder(strategy.NewTemplateFirst()).Build(courseTeams(9, courses), courses, info)
		require.ErrorIs(t, err, types.ErrInvariantViolation)
	})

	t.Run("unsupported template", func(t *testing.T) {
		courses := testCourses(4)
		info, err := combination.Plan(16, 4, true)
		require.NoError(t, err)
		_, err = NewBuilder(strategy.NewTemplate()).Build(courseTeams(16, courses), courses, info)
		require.ErrorIs(t, err, types.ErrUnsupportedSegment)
	})
}
