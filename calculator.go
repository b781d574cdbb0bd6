package rundinner

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/arloliu/rundinner/internal/combination"
	"github.com/arloliu/rundinner/internal/distribution"
	"github.com/arloliu/rundinner/internal/formation"
	"github.com/arloliu/rundinner/internal/hooks"
	"github.com/arloliu/rundinner/internal/logger"
	"github.com/arloliu/rundinner/internal/meals"
	"github.com/arloliu/rundinner/internal/metrics"
	"github.com/arloliu/rundinner/internal/rng"
	"github.com/arloliu/rundinner/internal/routing"
	"github.com/arloliu/rundinner/strategy"
)

// Operation names used for duration metrics.
const (
	opFormTeams     = "form_teams"
	opAssignCourses = "assign_courses"
	opBuildSchedule = "build_schedule"
	opCalculate     = "calculate"
)

// Result is the outcome of a full calculation.
type Result struct {
	// Teams is the team formation result, including unplaced participants.
	Teams *TeamsResult

	// Schedule holds the route of every placed team.
	Schedule *Schedule

	// Snapshot is the stored form of the schedule; nil without a store.
	Snapshot *ScheduleSnapshot
}

// Calculator computes running dinner schedules.
//
// Calculator is the main entry point of the library. It runs the pipeline:
//   - Team formation with capacity and gender balancing
//   - Course assignment with an even number of teams per course
//   - Route building per rotation segment
//   - Optional persistence of the schedule
//
// Thread Safety:
//   - All public methods are safe for concurrent use
//   - Only the random source is shared between calls and it is guarded by a mutex
//   - Teams and schedules passed between steps must be owned by one caller
//
// Testing:
// Consumers can define minimal interfaces for mocking:
//
//	type Planner interface {
//	    Calculate(ctx context.Context, source rundinner.ParticipantSource) (*rundinner.Result, error)
//	}
type Calculator struct {
	cfg Config

	strategy RouteStrategy
	store    ScheduleStore
	hooks    Hooks
	metrics  MetricsCollector
	logger   Logger
	builder  *routing.Builder

	mu   sync.Mutex
	rand *rand.Rand
}

// NewCalculator creates a new Calculator with the provided configuration.
//
// Returns a concrete *Calculator struct following the "accept interfaces, return structs" principle.
//
// Parameters:
//   - cfg: Dinner configuration; missing values are filled with defaults
//   - opts: Optional configuration (strategy, store, hooks, metrics, logger, random source)
//
// Returns:
//   - *Calculator: Initialized calculator
//   - error: Validation error if configuration is invalid
//
// Example:
//
//	cfg := rundinner.DefaultConfig()
//	cfg.SeedKey = "spring-2026"
//	calc, err := rundinner.NewCalculator(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := calc.Calculate(ctx, source.NewStatic(participants))
func NewCalculator(cfg *Config, opts ...Option) (*Calculator, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}

	SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	options := &calculatorOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Provide safe defaults for optional dependencies to avoid nil checks everywhere
	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logger.NewNop()
	}

	cfg.ValidateWithWarnings(loggerInstance)

	routeStrategy := options.strategy
	if routeStrategy == nil {
		routeStrategy = strategy.NewTemplateFirst(strategy.WithSearchLogger(loggerInstance))
	}

	random := options.rand
	if random == nil {
		random = rng.New(rng.Resolve(cfg.Seed, cfg.SeedKey))
	}

	c := &Calculator{
		cfg:      *cfg,
		strategy: routeStrategy,
		store:    options.store,
		hooks:    hooks.Fill(options.hooks),
		metrics:  metricsCollector,
		logger:   loggerInstance,
		rand:     random,
	}
	c.cfg.Courses = slices.Clone(cfg.Courses)
	c.builder = routing.NewBuilder(routeStrategy,
		routing.WithLogger(loggerInstance),
		routing.WithMetrics(metricsCollector),
		routing.WithAllowIncomplete(cfg.AllowIncompleteRoutes),
	)

	return c, nil
}

// Config returns a copy of the effective configuration.
func (c *Calculator) Config() Config {
	cfg := c.cfg
	cfg.Courses = slices.Clone(c.cfg.Courses)

	return cfg
}

// FormTeams builds the teams of an event.
//
// The participants that cannot take part in a complete rotation are the trailing ones
// of the input: they are returned as unplaced. The others are shuffled, distributed by
// capacity and gender and combined into teams numbered from 1.
//
// Host flags left by an earlier formation are cleared on every input participant and
// then set on the chosen team hosts; the participants are otherwise not modified. The
// input slice is not reordered.
//
// Parameters:
//   - participants: Registered participants in registration order
//
// Returns:
//   - *TeamsResult: Teams, unplaced participants and the segmentation
//   - error: ErrInsufficientParticipants if not even one segment can be filled
func (c *Calculator) FormTeams(participants []*Participant) (*TeamsResult, error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordOperationDuration(opFormTeams, time.Since(start).Seconds())
	}()

	k := len(c.cfg.Courses)
	info, err := c.Combination(len(participants))
	if err != nil {
		return nil, err
	}

	for _, p := range participants {
		p.ClearHost()
	}

	cut := len(participants) - combination.NotAssignable(len(participants), c.cfg.TeamSize, info)
	placeable := slices.Clone(participants[:cut])
	unplaced := slices.Clone(participants[cut:])

	c.shuffle(placeable)

	queues := distribution.Distribute(placeable, distribution.Policy{
		TeamSize:          c.cfg.TeamSize,
		NumCourses:        k,
		CapacityBalancing: c.cfg.CapacityBalancing,
		Gender:            c.cfg.GenderPolicy,
	})

	teams, err := formation.Form(queues, c.cfg.TeamSize, k)
	if err != nil {
		return nil, fmt.Errorf("form teams: %w", err)
	}
	if len(teams) != info.PlaceableTeams() {
		return nil, fmt.Errorf("%w: formed %d teams, expected %d",
			ErrInvariantViolation, len(teams), info.PlaceableTeams())
	}

	c.metrics.RecordTeamsFormed(len(teams), len(unplaced))
	c.logger.Info("teams formed",
		"participants", len(participants),
		"teams", len(teams),
		"unplaced", len(unplaced),
		"combination", info.String(),
	)

	return &TeamsResult{Teams: teams, Unplaced: unplaced, Combination: info}, nil
}

// Combination computes the segmentation for a number of participants.
//
// Parameters:
//   - numParticipants: Number of registered participants
//
// Returns:
//   - *CombinationInfo: Segments and remainder for the configured team size and courses
//   - error: ErrInsufficientParticipants if not even one segment can be filled
func (c *Calculator) Combination(numParticipants int) (*CombinationInfo, error) {
	return combination.ForParticipants(numParticipants, c.cfg.TeamSize, len(c.cfg.Courses), c.cfg.SegmentFactorization)
}

// NotAssignableParticipants returns the participants FormTeams would leave unplaced.
//
// Parameters:
//   - participants: Registered participants in registration order
//
// Returns:
//   - []*Participant: Trailing participants without a place, empty if all fit or if
//     not even one segment can be filled
func (c *Calculator) NotAssignableParticipants(participants []*Participant) []*Participant {
	info, err := c.Combination(len(participants))
	if err != nil {
		return []*Participant{}
	}

	cut := len(participants) - combination.NotAssignable(len(participants), c.cfg.TeamSize, info)

	return slices.Clone(participants[cut:])
}

// AssignCourses gives every team one course, with the same number of teams per course.
//
// Parameters:
//   - teams: Teams to assign; sorted by number afterwards
//   - courses: Course classes; nil uses the configured courses
//
// Returns:
//   - error: ErrSizeMismatch if the team count is not a multiple of the course count
func (c *Calculator) AssignCourses(teams []*Team, courses []CourseClass) error {
	start := time.Now()
	defer func() {
		c.metrics.RecordOperationDuration(opAssignCourses, time.Since(start).Seconds())
	}()

	if courses == nil {
		courses = c.cfg.Courses
	}

	c.mu.Lock()
	err := meals.Assign(c.rand, teams, courses)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.logger.Debug("courses assigned", "teams", len(teams), "courses", len(courses))

	return nil
}

// BuildSchedule builds the route of every team.
//
// Parameters:
//   - teams: Teams with assigned courses
//   - info: Segmentation returned by FormTeams
//
// Returns:
//   - *Schedule: Built schedule; also returned with an *IncompleteScheduleError
//   - error: ErrInsufficientCourseDiversity, ErrIncompleteSchedule or ErrInvariantViolation
func (c *Calculator) BuildSchedule(teams []*Team, info *CombinationInfo) (*Schedule, error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordOperationDuration(opBuildSchedule, time.Since(start).Seconds())
	}()

	return c.builder.Build(teams, c.cfg.Courses, info)
}

// Calculate runs the whole pipeline for the participants of one event.
//
// Hooks are called after each stage. When a store is configured the schedule is saved
// under Config.SeedKey with a version one above the stored one.
//
// Parameters:
//   - ctx: Context for hooks and store operations
//   - source: Provides the registered participants
//
// Returns:
//   - *Result: Teams, schedule and stored snapshot
//   - error: Any error of the pipeline stages or the store
//
// Example:
//
//	result, err := calc.Calculate(ctx, source.NewStatic(participants))
//	if err != nil {
//	    return err
//	}
//	for _, p := range result.Teams.Unplaced {
//	    notifyWaitingList(p)
//	}
func (c *Calculator) Calculate(ctx context.Context, source ParticipantSource) (*Result, error) {
	start := time.Now()
	result, err := c.calculate(ctx, source)
	c.metrics.RecordOperationDuration(opCalculate, time.Since(start).Seconds())
	c.metrics.RecordCalculation(err == nil)

	if err != nil {
		c.logger.Error("calculation failed", "error", err)
		c.runHook("OnError", c.hooks.OnError(ctx, err))

		return result, err
	}

	c.logger.Info("calculation completed",
		"teams", len(result.Teams.Teams),
		"unplaced", len(result.Teams.Unplaced),
		"duration", time.Since(start),
	)

	return result, nil
}

func (c *Calculator) calculate(ctx context.Context, source ParticipantSource) (*Result, error) {
	if source == nil {
		return nil, ErrParticipantSourceRequired
	}

	participants, err := source.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	teams, err := c.FormTeams(participants)
	if err != nil {
		return nil, err
	}
	result := &Result{Teams: teams}
	c.runHook("OnTeamsFormed", c.hooks.OnTeamsFormed(ctx, teams))

	if err := c.AssignCourses(teams.Teams, nil); err != nil {
		return result, err
	}
	c.runHook("OnCoursesAssigned", c.hooks.OnCoursesAssigned(ctx, teams.Teams))

	schedule, err := c.BuildSchedule(teams.Teams, teams.Combination)
	result.Schedule = schedule
	if err != nil {
		return result, err
	}
	c.runHook("OnScheduleBuilt", c.hooks.OnScheduleBuilt(ctx, schedule))

	if c.store == nil {
		return result, nil
	}

	snapshot, err := c.save(ctx, schedule, teams)
	if err != nil {
		return result, err
	}
	result.Snapshot = snapshot

	return result, nil
}

func (c *Calculator) save(ctx context.Context, schedule *Schedule, teams *TeamsResult) (*ScheduleSnapshot, error) {
	eventID := c.cfg.SeedKey
	if eventID == "" {
		return nil, fmt.Errorf("%w: SeedKey is required to store a schedule", ErrInvalidConfig)
	}

	var version int64 = 1
	previous, err := c.store.Load(ctx, eventID)
	switch {
	case err == nil:
		version = previous.Version + 1
	case !errors.Is(err, ErrScheduleNotFound):
		return nil, fmt.Errorf("load previous schedule: %w", err)
	}

	snapshot := NewScheduleSnapshot(eventID, version, schedule, teams)
	if err := c.store.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}

	c.logger.Info("schedule stored", "event", eventID, "version", version)

	return snapshot, nil
}

func (c *Calculator) runHook(name string, err error) {
	if err != nil {
		c.logger.Warn("hook failed", "hook", name, "error", err)
	}
}

func (c *Calculator) shuffle(participants []*Participant) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rng.Shuffle(c.rand, participants)
}
