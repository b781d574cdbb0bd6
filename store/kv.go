// Package store persists computed schedules in NATS JetStream KV.
//
// Every event is stored as one manifest document plus one document per team:
//
//	<prefix>.<eventID>.manifest                          version, courses, combination, unplaced participants
//	<prefix>.<eventID>.team.<version>.<token>.<number>   members, host and route of one team
//
// Team documents of a version are written before its manifest, and the manifest is
// written with a revision check. A reader that sees a manifest therefore finds all of
// its teams, and of two concurrent writers only one wins. The random write token keeps
// the team documents of a losing writer apart from the winner's; the loser removes them.
// Teams of the replaced version are removed after the new manifest is in place.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/rundinner/internal/kvutil"
	"github.com/arloliu/rundinner/internal/logger"
	"github.com/arloliu/rundinner/internal/metrics"
	"github.com/arloliu/rundinner/internal/natsutil"
	"github.com/arloliu/rundinner/types"
)

// Operation names used for store metrics.
const (
	opSave   = "save"
	opLoad   = "load"
	opDelete = "delete"
)

const manifestSuffix = "manifest"

// eventIDPattern matches event IDs usable as a single KV key token.
var eventIDPattern = regexp.MustCompile(`^[-_=a-zA-Z0-9]+$`)

// KV implements types.ScheduleStore on a NATS JetStream KV bucket.
//
// The latest version written or read per event is cached, so stale writes from this
// process are rejected without a round trip.
type KV struct {
	kv        jetstream.KeyValue
	keyPrefix string // cached "prefix."
	timeout   time.Duration

	versions *xsync.Map[string, int64]

	logger  types.Logger
	metrics types.StoreMetrics
}

var _ types.ScheduleStore = (*KV)(nil)

// manifest is the stored header of one schedule.
type manifest struct {
	EventID     string                `json:"eventId"`
	Version     int64                 `json:"version"`
	CreatedAt   time.Time             `json:"createdAt"`
	Courses     []types.CourseClass   `json:"courses"`
	Combination types.CombinationInfo `json:"combination"`
	Token       string                `json:"token"`
	Teams       []int                 `json:"teams"`
	Unplaced    []*types.Participant  `json:"unplaced,omitempty"`
}

// NewKV opens (or creates) the schedule bucket and returns a store on it.
//
// Parameters:
//   - ctx: Context for bucket creation
//   - js: JetStream context
//   - cfg: Bucket, key prefix, TTL and per-operation timeout
//   - log: Logger (nil for no logging)
//   - m: Metrics collector (nil for no metrics)
//
// Returns:
//   - *KV: Initialized store
//   - error: ErrInvalidConfig for an empty bucket name, ErrConnectivity or
//     ErrStoreFailed if the bucket cannot be opened
//
// Example:
//
//	js, _ := jetstream.New(nc)
//	kv, err := store.NewKV(ctx, js, cfg.Store, logger, metrics)
//	if err != nil {
//	    return err
//	}
//	calc, err := rundinner.NewCalculator(&cfg, rundinner.WithStore(kv))
func NewKV(ctx context.Context, js jetstream.JetStream, cfg types.StoreConfig, log types.Logger, m types.MetricsCollector) (*KV, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: store bucket is required", types.ErrInvalidConfig)
	}
	if log == nil {
		log = logger.NewNop()
	}
	var storeMetrics types.StoreMetrics = metrics.NewNop()
	if m != nil {
		storeMetrics = m
	}

	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      cfg.Bucket,
		Description: "Running dinner schedules",
		TTL:         cfg.TTL,
		History:     1,
	}, 3)
	if err != nil {
		return nil, wrap(err, "open bucket %s", cfg.Bucket)
	}

	return New(kv, cfg, log, storeMetrics), nil
}

// New creates a store on an already opened KV bucket.
//
// Parameters:
//   - kv: KV bucket for schedules
//   - cfg: Key prefix and per-operation timeout; Bucket and TTL are ignored
//   - log: Logger for store events
//   - m: Metrics for store operations
//
// Returns:
//   - *KV: Initialized store
func New(kv jetstream.KeyValue, cfg types.StoreConfig, log types.Logger, m types.StoreMetrics) *KV {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "schedule"
	}

	return &KV{
		kv:        kv,
		keyPrefix: prefix + ".",
		timeout:   cfg.OperationTimeout,
		versions:  xsync.NewMap[string, int64](),
		logger:    log,
		metrics:   m,
	}
}

// Save stores a snapshot.
//
// Parameters:
//   - ctx: Context for cancellation
//   - snapshot: Snapshot to store; its version must exceed the stored version
//
// Returns:
//   - error: ErrStaleVersion, ErrInvalidConfig for unusable event IDs, ErrConnectivity
//     or ErrStoreFailed
func (s *KV) Save(ctx context.Context, snapshot *types.ScheduleSnapshot) error {
	start := time.Now()
	err := s.save(ctx, snapshot)
	s.record(opSave, start, err)

	return err
}

func (s *KV) save(ctx context.Context, snapshot *types.ScheduleSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", types.ErrInvalidConfig)
	}
	if err := checkEventID(snapshot.EventID); err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	eventID := snapshot.EventID
	if cached, ok := s.versions.Load(eventID); ok && snapshot.Version <= cached {
		return staleVersion(eventID, snapshot.Version, cached)
	}

	previous, revision, err := s.readManifest(ctx, eventID)
	if err != nil && !errors.Is(err, types.ErrScheduleNotFound) {
		return err
	}
	if previous != nil && snapshot.Version <= previous.Version {
		s.rememberVersion(eventID, previous.Version)
		return staleVersion(eventID, snapshot.Version, previous.Version)
	}

	s.logger.Debug("saving schedule", "event", eventID, "version", snapshot.Version, "teams", len(snapshot.Teams))

	token := newToken()
	written := make([]string, 0, len(snapshot.Teams))
	for _, team := range snapshot.Teams {
		data, err := json.Marshal(team)
		if err != nil {
			s.discard(ctx, eventID, written)
			return fmt.Errorf("%w: marshal team %d: %w", types.ErrStoreFailed, team.Number, err)
		}
		key := s.teamKey(eventID, snapshot.Version, token, team.Number)
		if _, err := s.kv.Put(ctx, key, data); err != nil {
			s.discard(ctx, eventID, written)
			return wrap(err, "write team %d", team.Number)
		}
		written = append(written, key)
	}

	m := manifest{
		EventID:     eventID,
		Version:     snapshot.Version,
		CreatedAt:   snapshot.CreatedAt,
		Courses:     snapshot.Courses,
		Combination: snapshot.Combination,
		Token:       token,
		Teams:       make([]int, 0, len(snapshot.Teams)),
		Unplaced:    snapshot.Unplaced,
	}
	for _, team := range snapshot.Teams {
		m.Teams = append(m.Teams, team.Number)
	}

	data, err := json.Marshal(m)
	if err != nil {
		s.discard(ctx, eventID, written)
		return fmt.Errorf("%w: marshal manifest: %w", types.ErrStoreFailed, err)
	}

	key := s.manifestKey(eventID)
	if revision == 0 {
		_, err = s.kv.Create(ctx, key, data)
	} else {
		_, err = s.kv.Update(ctx, key, data, revision)
	}
	if err != nil {
		s.discard(ctx, eventID, written)
		if natsutil.IsRevisionConflict(err) {
			return fmt.Errorf("%w: schedule %s was written concurrently", types.ErrStaleVersion, eventID)
		}

		return wrap(err, "write manifest")
	}
	s.rememberVersion(eventID, snapshot.Version)

	if previous != nil {
		for _, number := range previous.Teams {
			if err := s.kv.Delete(ctx, s.teamKey(eventID, previous.Version, previous.Token, number)); err != nil {
				s.logger.Warn("failed to delete stale team", "event", eventID, "team", number, "error", err)
			}
		}
	}

	s.logger.Info("schedule saved", "event", eventID, "version", snapshot.Version, "teams", len(snapshot.Teams))

	return nil
}

// Load returns the latest snapshot of an event.
//
// Parameters:
//   - ctx: Context for cancellation
//   - eventID: Event to load
//
// Returns:
//   - *types.ScheduleSnapshot: Stored snapshot with teams ordered as saved
//   - error: ErrScheduleNotFound, ErrConnectivity or ErrStoreFailed
func (s *KV) Load(ctx context.Context, eventID string) (*types.ScheduleSnapshot, error) {
	start := time.Now()
	snapshot, err := s.load(ctx, eventID)
	s.record(opLoad, start, err)

	return snapshot, err
}

func (s *KV) load(ctx context.Context, eventID string) (*types.ScheduleSnapshot, error) {
	if err := checkEventID(eventID); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	m, _, err := s.readManifest(ctx, eventID)
	if err != nil {
		return nil, err
	}

	snapshot := &types.ScheduleSnapshot{
		EventID:     m.EventID,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
		Courses:     m.Courses,
		Combination: m.Combination,
		Teams:       make([]types.TeamSnapshot, 0, len(m.Teams)),
		Unplaced:    m.Unplaced,
	}
	for _, number := range m.Teams {
		entry, err := s.kv.Get(ctx, s.teamKey(eventID, m.Version, m.Token, number))
		if err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				return nil, fmt.Errorf("%w: team %d of %s is missing", types.ErrStoreFailed, number, eventID)
			}

			return nil, wrap(err, "read team %d", number)
		}

		var team types.TeamSnapshot
		if err := json.Unmarshal(entry.Value(), &team); err != nil {
			return nil, fmt.Errorf("%w: decode team %d: %w", types.ErrStoreFailed, number, err)
		}
		snapshot.Teams = append(snapshot.Teams, team)
	}
	s.rememberVersion(eventID, m.Version)

	return snapshot, nil
}

// Delete removes every document of an event.
//
// Deleting an event that was never stored is not an error. The cached version is
// dropped, so the event can be stored again starting from any version.
//
// Parameters:
//   - ctx: Context for cancellation
//   - eventID: Event to delete
//
// Returns:
//   - error: ErrConnectivity or ErrStoreFailed
func (s *KV) Delete(ctx context.Context, eventID string) error {
	start := time.Now()
	err := s.delete(ctx, eventID)
	s.record(opDelete, start, err)

	return err
}

func (s *KV) delete(ctx context.Context, eventID string) error {
	if err := checkEventID(eventID); err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	keys, err := kvutil.KeysWithPrefix(ctx, s.kv, s.keyPrefix+eventID+".")
	if err != nil {
		return wrap(err, "list keys")
	}

	s.versions.Delete(eventID)

	deleted, err := kvutil.DeleteKeys(ctx, s.kv, keys)
	if err != nil {
		return wrap(err, "delete schedule %s after %d keys", eventID, deleted)
	}

	if deleted > 0 {
		s.logger.Info("schedule deleted", "event", eventID, "keys", deleted)
	}

	return nil
}

// Events returns the IDs of all stored events in key order.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - []string: Event IDs with a manifest
//   - error: ErrConnectivity or ErrStoreFailed
func (s *KV) Events(ctx context.Context) ([]string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	keys, err := kvutil.KeysWithPrefix(ctx, s.kv, s.keyPrefix)
	if err != nil {
		return nil, wrap(err, "list keys")
	}

	events := make([]string, 0)
	suffix := "." + manifestSuffix
	for _, key := range keys {
		if !strings.HasSuffix(key, suffix) {
			continue
		}
		events = append(events, strings.TrimSuffix(strings.TrimPrefix(key, s.keyPrefix), suffix))
	}

	return events, nil
}

// CachedVersion returns the latest version this store has seen for an event.
//
// Returns:
//   - int64: Cached version
//   - bool: false if the event was neither saved nor loaded by this store
func (s *KV) CachedVersion(eventID string) (int64, bool) {
	return s.versions.Load(eventID)
}

func (s *KV) readManifest(ctx context.Context, eventID string) (*manifest, uint64, error) {
	entry, err := s.kv.Get(ctx, s.manifestKey(eventID))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, 0, fmt.Errorf("%w: %s", types.ErrScheduleNotFound, eventID)
		}

		return nil, 0, wrap(err, "read manifest")
	}

	var m manifest
	if err := json.Unmarshal(entry.Value(), &m); err != nil {
		return nil, 0, fmt.Errorf("%w: decode manifest of %s: %w", types.ErrStoreFailed, eventID, err)
	}

	return &m, entry.Revision(), nil
}

// rememberVersion raises the cached version of an event, never lowers it.
func (s *KV) rememberVersion(eventID string, version int64) {
	s.versions.Compute(eventID, func(old int64, loaded bool) (int64, xsync.ComputeOp) {
		if loaded && old >= version {
			return old, xsync.CancelOp
		}

		return version, xsync.UpdateOp
	})
}

func (s *KV) manifestKey(eventID string) string {
	return s.keyPrefix + eventID + "." + manifestSuffix
}

func (s *KV) teamKey(eventID string, version int64, token string, number int) string {
	return s.keyPrefix + eventID + ".team." + strconv.FormatInt(version, 10) + "." + token + "." + strconv.Itoa(number)
}

// discard removes team documents of a write that did not commit its manifest.
func (s *KV) discard(ctx context.Context, eventID string, keys []string) {
	if _, err := kvutil.DeleteKeys(ctx, s.kv, keys); err != nil {
		s.logger.Warn("failed to discard uncommitted teams", "event", eventID, "error", err)
	}
}

func newToken() string {
	return strconv.FormatUint(rand.Uint64(), 36) //nolint:gosec // uniqueness token, not a secret
}

func (s *KV) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.timeout)
}

func (s *KV) record(operation string, start time.Time, err error) {
	success := err == nil || errors.Is(err, types.ErrScheduleNotFound)
	s.metrics.RecordStoreOperation(operation, time.Since(start).Seconds(), success)
}

func checkEventID(eventID string) error {
	if !eventIDPattern.MatchString(eventID) {
		return fmt.Errorf("%w: event id %q must match %s", types.ErrInvalidConfig, eventID, eventIDPattern)
	}

	return nil
}

func staleVersion(eventID string, version, stored int64) error {
	return fmt.Errorf("%w: %s version %d, stored version %d", types.ErrStaleVersion, eventID, version, stored)
}

// wrap classifies a KV error as connectivity or store failure.
func wrap(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if natsutil.IsConnectivityError(err) {
		return fmt.Errorf("%w: %s: %w", types.ErrConnectivity, msg, err)
	}

	return fmt.Errorf("%w: %s: %w", types.ErrStoreFailed, msg, err)
}
