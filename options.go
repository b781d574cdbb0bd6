package rundinner

import "math/rand/v2"

// Option configures a Calculator with optional dependencies.
type Option func(*calculatorOptions)

// calculatorOptions holds optional Calculator configuration.
type calculatorOptions struct {
	strategy RouteStrategy
	store    ScheduleStore
	hooks    *Hooks
	metrics  MetricsCollector
	logger   Logger
	rand     *rand.Rand
}

// WithStrategy sets the route strategy used for every segment.
//
// Parameters:
//   - strategy: Route strategy (default: strategy.NewTemplateFirst())
//
// Returns:
//   - Option: Functional option for NewCalculator
//
// Example:
//
//	calc, err := rundinner.NewCalculator(&cfg, rundinner.WithStrategy(strategy.NewConstraintSearch()))
func WithStrategy(strategy RouteStrategy) Option {
	return func(o *calculatorOptions) {
		o.strategy = strategy
	}
}

// WithStore sets the store Calculate persists schedules to.
//
// Without a store Calculate only returns the schedule.
//
// Parameters:
//   - store: Schedule store implementation
//
// Returns:
//   - Option: Functional option for NewCalculator
//
// Example:
//
//	kv, _ := store.NewKV(ctx, js, cfg.Store, logger, nil)
//	calc, err := rundinner.NewCalculator(&cfg, rundinner.WithStore(kv))
func WithStore(store ScheduleStore) Option {
	return func(o *calculatorOptions) {
		o.store = store
	}
}

// WithHooks sets calculation stage hooks.
//
// Parameters:
//   - hooks: Hooks for the pipeline stages
//
// Returns:
//   - Option: Functional option for NewCalculator
//
// Example:
//
//	hooks := &rundinner.Hooks{
//	    OnScheduleBuilt: func(ctx context.Context, s *rundinner.Schedule) error {
//	        log.Printf("schedule with %d teams", len(s.Teams()))
//	        return nil
//	    },
//	}
//	calc, err := rundinner.NewCalculator(&cfg, rundinner.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *calculatorOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: Metrics collector implementation
//
// Returns:
//   - Option: Functional option for NewCalculator
//
// Example:
//
//	metrics := rundinner.NewPrometheusMetrics(prometheus.DefaultRegisterer, "dinner")
//	calc, err := rundinner.NewCalculator(&cfg, rundinner.WithMetrics(metrics))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *calculatorOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation
//
// Returns:
//   - Option: Functional option for NewCalculator
//
// Example:
//
//	calc, err := rundinner.NewCalculator(&cfg, rundinner.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(o *calculatorOptions) {
		o.logger = logger
	}
}

// WithRand sets the random source used by the shuffling steps.
//
// It takes precedence over Config.Seed and Config.SeedKey. The Calculator serializes
// access to the source, so it must not be shared with other users.
//
// Parameters:
//   - r: Random source
//
// Returns:
//   - Option: Functional option for NewCalculator
func WithRand(r *rand.Rand) Option {
	return func(o *calculatorOptions) {
		o.rand = r
	}
}
