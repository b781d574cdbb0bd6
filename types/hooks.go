package types

import "context"

// Hooks defines callbacks for the stages of a calculation.
//
// All hooks are optional. They are called synchronously by Calculator.Calculate, in
// pipeline order, with the context passed to Calculate.
//
// Hook execution behavior:
//   - A hook error aborts nothing: it is logged and Calculate continues
//   - OnError is called once with the error Calculate is about to return
//   - Hooks must not mutate the teams or the schedule they receive
//
// Example:
//
//	hooks := &rundinner.Hooks{
//	    OnScheduleBuilt: func(ctx context.Context, s *rundinner.Schedule) error {
//	        for _, t := range s.Teams() {
//	            notify(ctx, t)
//	        }
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnTeamsFormed is called after teams are formed, before courses are assigned.
	OnTeamsFormed func(ctx context.Context, result *TeamsResult) error

	// OnCoursesAssigned is called after every team received its course.
	OnCoursesAssigned func(ctx context.Context, teams []*Team) error

	// OnScheduleBuilt is called after every segment was built and validated.
	OnScheduleBuilt func(ctx context.Context, schedule *Schedule) error

	// OnError is called when Calculate fails.
	OnError func(ctx context.Context, err error) error
}
