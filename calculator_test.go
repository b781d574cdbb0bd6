package rundinner

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rundinner/internal/logger"
	"github.com/arloliu/rundinner/internal/metrics"
	"github.com/arloliu/rundinner/internal/rng"
)

// Mock implementations for testing
type mockSource struct {
	participants []*Participant
	err          error
}

func (m *mockSource) ListParticipants(_ /* ctx */ context.Context) ([]*Participant, error) {
	return m.participants, m.err
}

type memoryStore struct {
	mu        sync.Mutex
	snapshots map[string]*ScheduleSnapshot
	saveErr   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{snapshots: make(map[string]*ScheduleSnapshot)}
}

func (s *memoryStore) Save(_ context.Context, snapshot *ScheduleSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.saveErr != nil {
		return s.saveErr
	}
	if prev, ok := s.snapshots[snapshot.EventID]; ok && snapshot.Version <= prev.Version {
		return ErrStaleVersion
	}
	s.snapshots[snapshot.EventID] = snapshot

	return nil
}

func (s *memoryStore) Load(_ context.Context, eventID string) (*ScheduleSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.snapshots[eventID]
	if !ok {
		return nil, ErrScheduleNotFound
	}

	return snap, nil
}

func (s *memoryStore) Delete(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snapshots, eventID)

	return nil
}

type countingMetrics struct {
	*metrics.NopMetrics

	mu           sync.Mutex
	teams        int
	unplaced     int
	calculations map[bool]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{NopMetrics: metrics.NewNop(), calculations: make(map[bool]int)}
}

func (m *countingMetrics) RecordTeamsFormed(teams, unplaced int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams, m.unplaced = teams, unplaced
}

func (m *countingMetrics) RecordCalculation(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calculations[success]++
}

func newParticipants(n int) []*Participant {
	result := make([]*Participant, n)
	for i := range n {
		result[i] = NewParticipant(i + 1)
	}

	return result
}

// hostOf returns the only member flagged as host, nil when none or several are.
func hostOf(team *Team) *Participant {
	var host *Participant
	for _, m := range team.Members {
		if !m.IsHost() {
			continue
		}
		if host != nil {
			return nil
		}
		host = m
	}

	return host
}

func newTestCalculator(t *testing.T, modify func(*Config), opts ...Option) *Calculator {
	t.Helper()

	cfg := TestConfig()
	if modify != nil {
		modify(&cfg)
	}
	calc, err := NewCalculator(&cfg, opts...)
	require.NoError(t, err)

	return calc
}

func TestNewCalculator(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		calc, err := NewCalculator(nil)
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.Nil(t, calc)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Courses = []CourseClass{Starter, Starter}
		_, err := NewCalculator(&cfg)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("without optional dependencies", func(t *testing.T) {
		calc, err := NewCalculator(&Config{})
		require.NoError(t, err)

		require.NotNil(t, calc.hooks.OnError)
		require.NotNil(t, calc.metrics)
		require.NotNil(t, calc.logger)
		require.Equal(t, "template-first", calc.strategy.Name())
		require.Nil(t, calc.store)
		require.Equal(t, 2, calc.Config().TeamSize)
	})

	t.Run("config is copied", func(t *testing.T) {
		cfg := DefaultConfig()
		calc, err := NewCalculator(&cfg)
		require.NoError(t, err)

		cfg.Courses[0] = CourseClass{Label: "Changed"}
		require.Equal(t, Starter, calc.Config().Courses[0])
	})
}

func TestCalculator_FormTeams(t *testing.T) {
	t.Run("exact segment places everyone", func(t *testing.T) {
		calc := newTestCalculator(t, nil)

		result, err := calc.FormTeams(newParticipants(18))
		require.NoError(t, err)

		require.Len(t, result.Teams, 9)
		require.Empty(t, result.Unplaced)
		require.Equal(t, 9, result.Combination.SegmentSize)
		require.Zero(t, result.Combination.RemainderTeams)

		seen := make(map[int]bool)
		for i, team := range result.Teams {
			require.Equal(t, i+1, team.Number)
			require.Len(t, team.Members, 2)
			require.NotNil(t, team.Host())

			hosts := 0
			for _, m := range team.Members {
				require.False(t, seen[m.Number], "participant %d in two teams", m.Number)
				seen[m.Number] = true
				if m.IsHost() {
					hosts++
				}
			}
			require.Equal(t, 1, hosts)
		}
		require.Len(t, seen, 18)
	})

	t.Run("trailing participants are unplaced", func(t *testing.T) {
		calc := newTestCalculator(t, func(c *Config) {
			c.Courses = []CourseClass{Starter, MainCourse}
		})
		participants := newParticipants(9)

		result, err := calc.FormTeams(participants)
		require.NoError(t, err)

		require.Len(t, result.Teams, 4)
		require.Len(t, result.Unplaced, 1)
		require.Equal(t, 9, result.Unplaced[0].Number)
		require.False(t, result.Unplaced[0].IsHost())

		for i, p := range participants {
			require.Equal(t, i+1, p.Number, "input must not be reordered")
		}
	})

	t.Run("forming again with another seed keeps one host per team", func(t *testing.T) {
		participants := newParticipants(18)

		for seed := uint64(1); seed <= 3; seed++ {
			calc := newTestCalculator(t, func(c *Config) { c.Seed = seed })
			result, err := calc.FormTeams(participants)
			require.NoError(t, err)

			for _, team := range result.Teams {
				hosts := 0
				for _, m := range team.Members {
					if m.IsHost() {
						hosts++
					}
				}
				require.Equal(t, 1, hosts, "seed %d team %d", seed, team.Number)
			}

			marked := 0
			for _, p := range participants {
				if p.IsHost() {
					marked++
				}
			}
			require.Equal(t, len(result.Teams), marked, "seed %d", seed)
		}
	})

	t.Run("former host left unplaced is no longer a host", func(t *testing.T) {
		calc := newTestCalculator(t, func(c *Config) {
			c.Courses = []CourseClass{Starter, MainCourse}
		})
		participants := newParticipants(9)
		for _, p := range participants {
			p.MarkHost()
		}

		result, err := calc.FormTeams(participants)
		require.NoError(t, err)
		require.Len(t, result.Unplaced, 1)
		require.False(t, result.Unplaced[0].IsHost())
		for _, team := range result.Teams {
			require.NotNil(t, hostOf(team), "team %d", team.Number)
			require.Same(t, team.Host(), hostOf(team))
		}
	})

	t.Run("partial team is unplaced", func(t *testing.T) {
		calc := newTestCalculator(t, nil)

		result, err := calc.FormTeams(newParticipants(19))
		require.NoError(t, err)
		require.Len(t, result.Teams, 9)
		require.Len(t, result.Unplaced, 1)
	})

	t.Run("remainder teams are unplaced", func(t *testing.T) {
		calc := newTestCalculator(t, func(c *Config) {
			c.SegmentFactorization = false
		})

		// 13 teams of 2 for 3 courses: one segment of 9, 4 teams left over
		result, err := calc.FormTeams(newParticipants(26))
		require.NoError(t, err)
		require.Len(t, result.Teams, 9)
		require.Len(t, result.Unplaced, 8)
		require.Equal(t, 4, result.Combination.RemainderTeams)
	})

	t.Run("capacity balancing pairs hosts with guests", func(t *testing.T) {
		calc := newTestCalculator(t, nil)
		participants := newParticipants(18)
		for i, p := range participants {
			if i%2 == 0 {
				p.Seats = 6
			} else {
				p.Seats = 2
			}
		}

		result, err := calc.FormTeams(participants)
		require.NoError(t, err)

		for _, team := range result.Teams {
			require.Equal(t, 6, team.Host().Seats, "team %d", team.Number)
			require.ElementsMatch(t, []int{2, 6}, []int{team.Members[0].Seats, team.Members[1].Seats})
		}
	})

	t.Run("mixed gender pairs", func(t *testing.T) {
		calc := newTestCalculator(t, func(c *Config) {
			c.CapacityBalancing = false
			c.GenderPolicy = GenderForceMixed
		})
		participants := newParticipants(18)
		for i, p := range participants {
			if i < 9 {
				p.Gender = GenderFemale
			} else {
				p.Gender = GenderMale
			}
		}

		result, err := calc.FormTeams(participants)
		require.NoError(t, err)

		for _, team := range result.Teams {
			require.NotEqual(t, team.Members[0].Gender, team.Members[1].Gender, "team %d", team.Number)
		}
	})

	t.Run("insufficient participants", func(t *testing.T) {
		tests := []struct {
			name         string
			participants int
			teamSize     int
			courses      []CourseClass
		}{
			{"team size equals participants", 3, 3, StandardCourses()},
			{"team size exceeds participants", 2, 3, StandardCourses()},
			{"fewer teams than one segment", 5, 2, []CourseClass{Starter, Dessert}},
			{"eight teams for three courses", 16, 2, StandardCourses()},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				calc := newTestCalculator(t, func(c *Config) {
					c.TeamSize = tt.teamSize
					c.Courses = tt.courses
				})

				result, err := calc.FormTeams(newParticipants(tt.participants))
				require.ErrorIs(t, err, ErrInsufficientParticipants)
				require.Nil(t, result)
			})
		}
	})

	t.Run("records metrics", func(t *testing.T) {
		m := newCountingMetrics()
		calc := newTestCalculator(t, nil, WithMetrics(m))

		_, err := calc.FormTeams(newParticipants(19))
		require.NoError(t, err)
		require.Equal(t, 9, m.teams)
		require.Equal(t, 1, m.unplaced)
	})
}

func TestCalculator_NotAssignableParticipants(t *testing.T) {
	calc := newTestCalculator(t, func(c *Config) {
		c.Courses = []CourseClass{Starter, MainCourse}
	})

	participants := newParticipants(9)
	na := calc.NotAssignableParticipants(participants)
	require.Len(t, na, 1)
	require.Same(t, participants[8], na[0])

	require.Empty(t, calc.NotAssignableParticipants(newParticipants(8)))
	require.Empty(t, calc.NotAssignableParticipants(newParticipants(5)))
}

func TestCalculator_AssignCourses(t *testing.T) {
	t.Run("even distribution", func(t *testing.T) {
		calc := newTestCalculator(t, nil)
		result, err := calc.FormTeams(newParticipants(18))
		require.NoError(t, err)

		require.NoError(t, calc.AssignCourses(result.Teams, nil))

		counts := make(map[CourseClass]int)
		for i, team := range result.Teams {
			require.Equal(t, i+1, team.Number)
			counts[team.Course]++
		}
		require.Equal(t, map[CourseClass]int{Starter: 3, MainCourse: 3, Dessert: 3}, counts)
	})

	t.Run("size mismatch", func(t *testing.T) {
		calc := newTestCalculator(t, nil)
		teams := []*Team{NewTeam(1, nil), NewTeam(2, nil)}

		require.ErrorIs(t, calc.AssignCourses(teams, nil), ErrSizeMismatch)
		require.ErrorIs(t, calc.AssignCourses(teams, []CourseClass{}), ErrSizeMismatch)
	})

	t.Run("fixed seed is reproducible", func(t *testing.T) {
		assign := func() []CourseClass {
			calc := newTestCalculator(t, func(c *Config) { c.Seed = 1234 })
			teams := make([]*Team, 12)
			for i := range teams {
				teams[i] = NewTeam(i+1, nil)
			}
			require.NoError(t, calc.AssignCourses(teams, nil))

			courses := make([]CourseClass, len(teams))
			for i, team := range teams {
				courses[i] = team.Course
			}

			return courses
		}

		require.Equal(t, assign(), assign())
	})

	t.Run("seed key is reproducible", func(t *testing.T) {
		form := func() []int {
			calc := newTestCalculator(t, func(c *Config) {
				c.Seed = 0
				c.SeedKey = "autumn-dinner"
			})
			result, err := calc.FormTeams(newParticipants(18))
			require.NoError(t, err)

			numbers := make([]int, 0, 18)
			for _, team := range result.Teams {
				for _, m := range team.Members {
					numbers = append(numbers, m.Number)
				}
			}

			return numbers
		}

		require.Equal(t, form(), form())
	})

	t.Run("explicit random source", func(t *testing.T) {
		teams := make([]*Team, 6)
		for i := range teams {
			teams[i] = NewTeam(i+1, nil)
		}
		calc := newTestCalculator(t, nil, WithRand(rng.New(5)))

		require.NoError(t, calc.AssignCourses(teams, []CourseClass{Starter, Dessert}))
		for _, team := range teams {
			require.True(t, team.Course == Starter || team.Course == Dessert)
		}
	})
}

func TestCalculator_BuildSchedule(t *testing.T) {
	t.Run("complete routes", func(t *testing.T) {
		calc := newTestCalculator(t, nil)
		result, err := calc.FormTeams(newParticipants(18))
		require.NoError(t, err)
		require.NoError(t, calc.AssignCourses(result.Teams, nil))

		schedule, err := calc.BuildSchedule(result.Teams, result.Combination)
		require.NoError(t, err)

		require.Empty(t, schedule.Validate(3))
		require.True(t, schedule.MeetsEveryTeamOnce())
		for _, team := range schedule.Teams() {
			plan := team.Plan()
			require.Equal(t, 2, plan.NumHosts(), "team %d", team.Number)
			require.Equal(t, 2, plan.NumGuests(), "team %d", team.Number)
			require.Len(t, schedule.Encounters(team), 6)
		}
	})

	t.Run("every team count gets full routes", func(t *testing.T) {
		courseSets := [][]CourseClass{
			{Starter, Dessert},
			StandardCourses(),
		}

		for _, courses := range courseSets {
			k := len(courses)
			for _, factorize := range []bool{true, false} {
				for numTeams := k * k; numTeams <= 40; numTeams++ {
					calc := newTestCalculator(t, func(c *Config) {
						c.Courses = courses
						c.SegmentFactorization = factorize
					})

					result, err := calc.FormTeams(newParticipants(2 * numTeams))
					require.NoError(t, err)
					require.NoError(t, calc.AssignCourses(result.Teams, nil))

					schedule, err := calc.BuildSchedule(result.Teams, result.Combination)
					require.NoError(t, err, "k=%d teams=%d factorize=%v", k, numTeams, factorize)
					require.Empty(t, schedule.Validate(k), "k=%d teams=%d factorize=%v", k, numTeams, factorize)
					require.True(t, schedule.MeetsEveryTeamOnce(), "k=%d teams=%d factorize=%v", k, numTeams, factorize)
					for _, team := range schedule.Teams() {
						require.Equal(t, k-1, team.Plan().NumHosts())
						require.Equal(t, k-1, team.Plan().NumGuests())
					}
				}
			}
		}
	})

	t.Run("single course", func(t *testing.T) {
		calc := newTestCalculator(t, func(c *Config) {
			c.Courses = []CourseClass{MainCourse}
		})
		result, err := calc.FormTeams(newParticipants(6))
		require.NoError(t, err)
		require.NoError(t, calc.AssignCourses(result.Teams, nil))

		_, err = calc.BuildSchedule(result.Teams, result.Combination)
		require.ErrorIs(t, err, ErrInsufficientCourseDiversity)
	})

	t.Run("incomplete routes fail by default", func(t *testing.T) {
		courses := []CourseClass{Starter, {Label: "Soup"}, MainCourse, {Label: "Cheese"}, Dessert}
		calc := newTestCalculator(t, func(c *Config) { c.Courses = courses })

		result, err := calc.FormTeams(newParticipants(50))
		require.NoError(t, err)
		require.NoError(t, calc.AssignCourses(result.Teams, nil))

		schedule, err := calc.BuildSchedule(result.Teams, result.Combination)
		require.ErrorIs(t, err, ErrIncompleteSchedule)
		require.NotNil(t, schedule)

		var incomplete *IncompleteScheduleError
		require.True(t, errors.As(err, &incomplete))
		require.NotEmpty(t, incomplete.Teams())
	})

	t.Run("incomplete routes allowed", func(t *testing.T) {
		rec := logger.NewRecorder()
		courses := []CourseClass{Starter, {Label: "Soup"}, MainCourse, {Label: "Cheese"}, Dessert}
		calc := newTestCalculator(t, func(c *Config) {
			c.Courses = courses
			c.AllowIncompleteRoutes = true
		}, WithLogger(rec))

		result, err := calc.FormTeams(newParticipants(50))
		require.NoError(t, err)
		require.NoError(t, calc.AssignCourses(result.Teams, nil))

		schedule, err := calc.BuildSchedule(result.Teams, result.Combination)
		require.NoError(t, err)
		require.NotNil(t, schedule)
		require.True(t, rec.Has("warn", "incomplete routes"))
	})
}

func TestCalculator_Calculate(t *testing.T) {
	t.Run("full pipeline with hooks and store", func(t *testing.T) {
		var stages []string
		hooks := &Hooks{
			OnTeamsFormed: func(_ context.Context, r *TeamsResult) error {
				stages = append(stages, "teams")
				require.Len(t, r.Teams, 9)
				return nil
			},
			OnCoursesAssigned: func(_ context.Context, teams []*Team) error {
				stages = append(stages, "courses")
				for _, team := range teams {
					require.True(t, team.HasCourse())
				}
				return nil
			},
			OnScheduleBuilt: func(_ context.Context, _ *Schedule) error {
				stages = append(stages, "schedule")
				return errors.New("notification failed")
			},
			OnError: func(_ context.Context, _ error) error {
				stages = append(stages, "error")
				return nil
			},
		}
		store := newMemoryStore()
		m := newCountingMetrics()
		rec := logger.NewRecorder()
		calc := newTestCalculator(t, func(c *Config) { c.SeedKey = "spring-2026" },
			WithHooks(hooks), WithStore(store), WithMetrics(m), WithLogger(rec))

		src := &mockSource{participants: newParticipants(18)}
		result, err := calc.Calculate(context.Background(), src)
		require.NoError(t, err)

		require.Equal(t, []string{"teams", "courses", "schedule"}, stages)
		require.True(t, rec.Has("warn", "hook failed"))
		require.Equal(t, 1, m.calculations[true])

		require.NotNil(t, result.Snapshot)
		require.Equal(t, "spring-2026", result.Snapshot.EventID)
		require.Equal(t, int64(1), result.Snapshot.Version)
		require.Len(t, result.Snapshot.Teams, 9)

		team, ok := result.Snapshot.Team(1)
		require.True(t, ok)
		require.Len(t, team.HostTeams, 2)
		require.Len(t, team.GuestTeams, 2)
		require.Equal(t, result.Schedule.Team(1).Host().Number, team.Host)

		// A second run stores the next version
		result, err = calc.Calculate(context.Background(), &mockSource{participants: newParticipants(18)})
		require.NoError(t, err)
		require.Equal(t, int64(2), result.Snapshot.Version)

		stored, err := store.Load(context.Background(), "spring-2026")
		require.NoError(t, err)
		require.Equal(t, int64(2), stored.Version)
	})

	t.Run("nil source", func(t *testing.T) {
		var got error
		m := newCountingMetrics()
		calc := newTestCalculator(t, nil, WithMetrics(m), WithHooks(&Hooks{
			OnError: func(_ context.Context, err error) error {
				got = err
				return nil
			},
		}))

		_, err := calc.Calculate(context.Background(), nil)
		require.ErrorIs(t, err, ErrParticipantSourceRequired)
		require.ErrorIs(t, got, ErrParticipantSourceRequired)
		require.Equal(t, 1, m.calculations[false])
	})

	t.Run("source error", func(t *testing.T) {
		calc := newTestCalculator(t, nil)
		sourceErr := errors.New("registration database down")

		_, err := calc.Calculate(context.Background(), &mockSource{err: sourceErr})
		require.ErrorIs(t, err, sourceErr)
	})

	t.Run("insufficient participants", func(t *testing.T) {
		calc := newTestCalculator(t, nil)

		result, err := calc.Calculate(context.Background(), &mockSource{participants: newParticipants(4)})
		require.ErrorIs(t, err, ErrInsufficientParticipants)
		require.Nil(t, result)
	})

	t.Run("store requires event id", func(t *testing.T) {
		calc := newTestCalculator(t, nil, WithStore(newMemoryStore()))

		result, err := calc.Calculate(context.Background(), &mockSource{participants: newParticipants(18)})
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.NotNil(t, result.Schedule)
		require.Nil(t, result.Snapshot)
	})

	t.Run("store failure", func(t *testing.T) {
		store := newMemoryStore()
		store.saveErr = ErrConnectivity
		calc := newTestCalculator(t, func(c *Config) { c.SeedKey = "event" }, WithStore(store))

		_, err := calc.Calculate(context.Background(), &mockSource{participants: newParticipants(18)})
		require.ErrorIs(t, err, ErrConnectivity)
	})

	t.Run("concurrent calculations", func(t *testing.T) {
		calc := newTestCalculator(t, nil)

		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = calc.Calculate(context.Background(), &mockSource{participants: newParticipants(24)})
			}()
		}
		wg.Wait()

		require.False(t, slices.ContainsFunc(errs, func(err error) bool { return err != nil }))
	})
}

func TestCalculator_Combination(t *testing.T) {
	calc := newTestCalculator(t, nil)

	info, err := calc.Combination(42)
	require.NoError(t, err)
	require.Equal(t, 21, info.NumTeams)
	require.Equal(t, 3, info.NumCourses)
	require.Zero(t, info.RemainderTeams)
	require.Equal(t, []int{9, 12}, info.Segments())

	_, err = calc.Combination(10)
	require.ErrorIs(t, err, ErrInsufficientParticipants)
}
