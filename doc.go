// Package rundinner provides a Go library that plans running dinner events.
//
// At a running dinner participants cook in small teams. Every team hosts one course
// at its own location and visits other teams for the remaining courses, so that over
// the evening each team meets every other team of its group exactly once.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import "github.com/arloliu/rundinner"
//
//	cfg := rundinner.DefaultConfig()
//	cfg.SeedKey = "spring-2026"
//
//	calc, err := rundinner.NewCalculator(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := calc.Calculate(ctx, source.NewStatic(participants))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Key Features
//
//   - Team Formation: Participants with and without enough seats are paired, optionally by gender
//   - Even Courses: Every course is cooked by the same number of teams
//   - Rotation Segments: Teams are grouped so that every route meets each team once
//   - Segment Factorization: Mixed segment sizes leave as few participants unplaced as possible
//   - Reproducibility: A seed or seed key makes every random step deterministic
//
// # Architecture
//
// A calculation runs four stages:
//
//	LIST PARTICIPANTS → FORM TEAMS → ASSIGN COURSES → BUILD SCHEDULE → (STORE)
//
// The trailing participants that cannot take part in a full rotation are reported as
// unplaced. Schedules are built per segment by a RouteStrategy; the default uses fixed
// templates for known segment shapes and a constraint search for the others.
//
// # Advanced Usage
//
// Custom strategy with options:
//
//	import (
//	    "github.com/arloliu/rundinner"
//	    "github.com/arloliu/rundinner/strategy"
//	)
//
//	hooks := &rundinner.Hooks{
//	    OnScheduleBuilt: func(ctx context.Context, s *rundinner.Schedule) error {
//	        // Send routes to the teams
//	        return nil
//	    },
//	}
//
//	calc, err := rundinner.NewCalculator(&cfg,
//	    rundinner.WithStrategy(strategy.NewConstraintSearch()),
//	    rundinner.WithHooks(hooks),
//	)
//
// See the examples/ directory for complete working examples.
package rundinner
