package rundinner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of one running dinner calculation.
//
// Boolean switches cannot be told apart from unset values, so a Config should start
// from DefaultConfig() (or LoadConfig, which decodes on top of the defaults) rather
// than from a zero literal.
type Config struct {
	// TeamSize is the number of participants cooking together.
	// Default: 2
	TeamSize int `yaml:"teamSize"`

	// Courses are the course classes of the dinner in serving order.
	// Default: Starter, Main Course, Dessert
	Courses []CourseClass `yaml:"courses"`

	// CapacityBalancing pairs participants with enough seats and participants without.
	// Default: true
	CapacityBalancing bool `yaml:"capacityBalancing"`

	// GenderPolicy controls how gender influences team formation.
	// Default: ignore
	GenderPolicy GenderPolicy `yaml:"genderPolicy"`

	// ConsiderShortestPaths is accepted for compatibility with existing event
	// configurations. Route building does not use geographic information.
	ConsiderShortestPaths bool `yaml:"considerShortestPaths"`

	// SegmentFactorization mixes several segment sizes so that fewer teams are left
	// without a route.
	// Default: true
	SegmentFactorization bool `yaml:"segmentFactorization"`

	// AllowIncompleteRoutes returns schedules with missing references instead of
	// failing with ErrIncompleteSchedule.
	// Default: false
	AllowIncompleteRoutes bool `yaml:"allowIncompleteRoutes"`

	// Seed seeds every random step. Zero draws a fresh seed per Calculator.
	Seed uint64 `yaml:"seed"`

	// SeedKey derives the seed from a string (e.g. an event ID) when Seed is zero.
	// It is also the event ID under which schedules are stored.
	SeedKey string `yaml:"seedKey"`

	// Store configures schedule persistence.
	Store StoreConfig `yaml:"store"`
}

// DefaultConfig returns the default dinner configuration.
//
// Returns:
//   - Config: Team size 2, three standard courses, capacity balancing and segment
//     factorization enabled
func DefaultConfig() Config {
	return Config{
		TeamSize:             2,
		Courses:              StandardCourses(),
		CapacityBalancing:    true,
		GenderPolicy:         GenderIgnore,
		SegmentFactorization: true,
		Store: StoreConfig{
			Bucket:           "rundinner-schedules",
			KeyPrefix:        "schedule",
			TTL:              0, // No TTL - schedules persist until deleted
			OperationTimeout: 5 * time.Second,
		},
	}
}

// SetDefaults fills in missing configuration values with the defaults.
//
// Boolean fields are left untouched.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.TeamSize == 0 {
		cfg.TeamSize = defaults.TeamSize
	}
	if len(cfg.Courses) == 0 {
		cfg.Courses = defaults.Courses
	}
	if cfg.Store.Bucket == "" {
		cfg.Store.Bucket = defaults.Store.Bucket
	}
	if cfg.Store.KeyPrefix == "" {
		cfg.Store.KeyPrefix = defaults.Store.KeyPrefix
	}
	if cfg.Store.OperationTimeout == 0 {
		cfg.Store.OperationTimeout = defaults.Store.OperationTimeout
	}
	// Note: Store.TTL of 0 is valid (no expiration), so we don't apply default
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - TeamSize >= 1
//   - At least one course; labels are non-empty and distinct
//   - GenderPolicy is a known policy
//   - Store.TTL and Store.OperationTimeout are not negative
//
// A single course is valid for team formation; building a schedule needs at least two
// and fails with ErrInsufficientCourseDiversity.
//
// Returns:
//   - error: Validation error wrapping ErrInvalidConfig, nil if valid
func (cfg *Config) Validate() error {
	if cfg.TeamSize < 1 {
		return fmt.Errorf("%w: TeamSize must be >= 1, got %d", ErrInvalidConfig, cfg.TeamSize)
	}

	if len(cfg.Courses) == 0 {
		return fmt.Errorf("%w: at least one course is required", ErrInvalidConfig)
	}
	seen := make(map[CourseClass]bool, len(cfg.Courses))
	for i, c := range cfg.Courses {
		if c.IsZero() {
			return fmt.Errorf("%w: course %d has an empty label", ErrInvalidConfig, i)
		}
		if seen[c] {
			return fmt.Errorf("%w: course %q is configured twice", ErrInvalidConfig, c.Label)
		}
		seen[c] = true
	}

	switch cfg.GenderPolicy {
	case GenderIgnore, GenderForceMixed, GenderForceSame:
	default:
		return fmt.Errorf("%w: unknown gender policy %d", ErrInvalidConfig, cfg.GenderPolicy)
	}

	if cfg.Store.TTL < 0 {
		return fmt.Errorf("%w: Store.TTL must be >= 0, got %v", ErrInvalidConfig, cfg.Store.TTL)
	}
	if cfg.Store.OperationTimeout < 0 {
		return fmt.Errorf("%w: Store.OperationTimeout must be >= 0, got %v",
			ErrInvalidConfig, cfg.Store.OperationTimeout)
	}

	return nil
}

// ValidateWithWarnings logs warnings for valid but non-recommended values.
//
// This is called after Validate() in NewCalculator() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	distributing := cfg.CapacityBalancing || cfg.GenderPolicy != GenderIgnore
	if distributing && cfg.TeamSize != 2 {
		logger.Warn(
			"capacity and gender distribution pair two participants, larger teams are only partly balanced",
			"teamSize", cfg.TeamSize,
			"capacityBalancing", cfg.CapacityBalancing,
			"genderPolicy", cfg.GenderPolicy,
		)
	}

	if len(cfg.Courses) < 2 {
		logger.Warn(
			"fewer than two courses configured, schedules cannot be built",
			"courses", len(cfg.Courses),
		)
	}

	if cfg.ConsiderShortestPaths {
		logger.Warn("ConsiderShortestPaths is not supported and has no effect")
	}

	if cfg.AllowIncompleteRoutes {
		logger.Warn(
			"incomplete routes are allowed, some teams may not meet every course",
			"recommended", false,
		)
	}
}

// LoadConfig reads a YAML configuration file.
//
// Values missing from the file keep their DefaultConfig() value.
//
// Parameters:
//   - path: Path of the YAML file
//
// Returns:
//   - Config: Decoded configuration with defaults applied
//   - error: Read, decode or validation error
//
// Example:
//
//	cfg, err := rundinner.LoadConfig("dinner.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	calc, err := rundinner.NewCalculator(&cfg)
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes a YAML configuration document on top of DefaultConfig().
//
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// TestConfig returns a configuration for reproducible tests.
//
// It is DefaultConfig() with a fixed seed.
//
// Returns:
//   - Config: Configuration with deterministic randomness
//
// Example:
//
//	cfg := rundinner.TestConfig()
//	cfg.Courses = []rundinner.CourseClass{rundinner.Starter, rundinner.Dessert}
//	calc, err := rundinner.NewCalculator(&cfg)
func TestConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Store.OperationTimeout = time.Second

	return cfg
}
