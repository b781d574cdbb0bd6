package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/rundinner/internal/logger"
	"github.com/arloliu/rundinner/internal/natsutil"
	"github.com/arloliu/rundinner/types"
)

const (
	// DefaultRegistrationBatchSize is the default number of messages per fetch.
	DefaultRegistrationBatchSize = 100

	// DefaultRegistrationFetchTimeout is the default maximum wait for one fetch.
	DefaultRegistrationFetchTimeout = 5 * time.Second

	// DefaultRegistrationMaxRetries is the default number of attempts to read the stream.
	DefaultRegistrationMaxRetries = 3

	// DefaultRegistrationRetryBackoff is the default delay before the first retry.
	DefaultRegistrationRetryBackoff = 100 * time.Millisecond
)

// RegistrationsConfig configures a Registrations source.
type RegistrationsConfig struct {
	// Stream is the JetStream stream holding registration messages.
	// Required: Must be non-empty.
	Stream string

	// Subject is the subject carrying the registrations of one event, for example
	// "registrations.spring-2026".
	// Required: Must be non-empty.
	Subject string

	// BatchSize is the number of messages fetched per pull request.
	// Optional: Defaults to 100.
	BatchSize int

	// FetchTimeout is the maximum wait for one pull request.
	// Optional: Defaults to 5 seconds.
	FetchTimeout time.Duration

	// MaxRetries is the number of attempts to read the stream on connectivity errors.
	// Optional: Defaults to 3.
	MaxRetries int

	// RetryBackoff is the delay before the first retry; later retries back off with jitter.
	// Optional: Defaults to 100 milliseconds.
	RetryBackoff time.Duration

	// Logger for skipped messages and retries.
	// Optional: Defaults to a no-op logger.
	Logger types.Logger
}

func (cfg *RegistrationsConfig) applyDefaults() {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultRegistrationBatchSize
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultRegistrationFetchTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultRegistrationMaxRetries
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRegistrationRetryBackoff
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
}

// Registrations reads the participants of one event from a JetStream stream.
//
// Every message on the event subject is a JSON registration. A later message for the
// same participant number replaces the earlier one, and a message with "withdrawn" set
// removes the participant. Participants are returned in the order of their first
// registration; a participant registering again after withdrawing moves to the end.
//
// Each ListParticipants call replays the subject from the start with an ordered
// consumer and stops at the message count seen when the call began, so registrations
// arriving during a calculation are picked up by the next one.
type Registrations struct {
	js  jetstream.JetStream
	cfg RegistrationsConfig
}

var _ types.ParticipantSource = (*Registrations)(nil)

// registrationMessage is the wire form of one registration.
type registrationMessage struct {
	Number    int          `json:"number"`
	Name      string       `json:"name,omitempty"`
	Email     string       `json:"email,omitempty"`
	Gender    types.Gender `json:"gender,omitempty"`
	Seats     *int         `json:"seats,omitempty"`
	Withdrawn bool         `json:"withdrawn,omitempty"`
}

// NewRegistrations creates a source reading registrations from a stream.
//
// Parameters:
//   - js: JetStream context
//   - cfg: Stream, subject and fetch settings
//
// Returns:
//   - *Registrations: Source replaying the subject on every call
//   - error: ErrInvalidConfig if stream or subject is missing
//
// Example:
//
//	src, err := source.NewRegistrations(js, source.RegistrationsConfig{
//	    Stream:  "REGISTRATIONS",
//	    Subject: "registrations.spring-2026",
//	})
//	result, err := calc.Calculate(ctx, src)
func NewRegistrations(js jetstream.JetStream, cfg RegistrationsConfig) (*Registrations, error) {
	if cfg.Stream == "" {
		return nil, fmt.Errorf("%w: registration stream is required", types.ErrInvalidConfig)
	}
	if cfg.Subject == "" {
		return nil, fmt.Errorf("%w: registration subject is required", types.ErrInvalidConfig)
	}
	cfg.applyDefaults()

	return &Registrations{js: js, cfg: cfg}, nil
}

// ListParticipants replays the registrations and returns the registered participants.
//
// Connectivity errors are retried with jittered backoff up to MaxRetries attempts.
// Malformed messages are logged and skipped.
func (r *Registrations) ListParticipants(ctx context.Context) ([]*types.Participant, error) {
	var (
		delay   time.Duration
		lastErr error
	)
	for attempt := range r.cfg.MaxRetries {
		participants, err := r.replay(ctx)
		if err == nil {
			return participants, nil
		}
		if !natsutil.IsConnectivityError(err) {
			return nil, err
		}
		lastErr = err

		if attempt == r.cfg.MaxRetries-1 {
			break
		}
		delay = jitterBackoff(delay, r.cfg.RetryBackoff, 2, 10*r.cfg.RetryBackoff)
		r.cfg.Logger.Warn("reading registrations failed, retrying",
			"stream", r.cfg.Stream, "attempt", attempt+1, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("%w: read registrations after %d attempts: %w",
		types.ErrConnectivity, r.cfg.MaxRetries, lastErr)
}

func (r *Registrations) replay(ctx context.Context) ([]*types.Participant, error) {
	stream, err := r.js.Stream(ctx, r.cfg.Stream)
	if err != nil {
		return nil, fmt.Errorf("open stream %s: %w", r.cfg.Stream, err)
	}

	info, err := stream.Info(ctx, jetstream.WithSubjectFilter(r.cfg.Subject))
	if err != nil {
		return nil, fmt.Errorf("stream info %s: %w", r.cfg.Stream, err)
	}
	var expected uint64
	for _, count := range info.State.Subjects {
		expected += count
	}

	book := newRegistrationBook()
	if expected == 0 {
		return book.participants(), nil
	}

	cons, err := stream.OrderedConsumer(ctx, jetstream.OrderedConsumerConfig{
		FilterSubjects: []string{r.cfg.Subject},
		DeliverPolicy:  jetstream.DeliverAllPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("create consumer: %w", err)
	}

	var received uint64
	for received < expected {
		batchSize := r.cfg.BatchSize
		if remaining := expected - received; remaining < uint64(batchSize) { //nolint:gosec // BatchSize is positive
			batchSize = int(remaining) //nolint:gosec // bounded by BatchSize
		}

		batch, err := cons.Fetch(batchSize, jetstream.FetchMaxWait(r.cfg.FetchTimeout))
		if err != nil {
			return nil, fmt.Errorf("fetch registrations: %w", err)
		}

		n := 0
		for msg := range batch.Messages() {
			n++
			if err := book.apply(msg.Data()); err != nil {
				r.cfg.Logger.Warn("skipping registration", "subject", msg.Subject(), "error", err)
			}
		}
		if err := batch.Error(); err != nil && !errors.Is(err, jetstream.ErrNoMessages) {
			return nil, fmt.Errorf("fetch registrations: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: %d of %d registrations received before timeout",
				types.ErrConnectivity, received, expected)
		}
		received += uint64(n)
	}

	participants := book.participants()
	r.cfg.Logger.Debug("registrations replayed",
		"subject", r.cfg.Subject, "messages", received, "participants", len(participants))

	return participants, nil
}

// registrationBook folds registration messages into the current participant list.
type registrationBook struct {
	order []int
	byNum map[int]*types.Participant
}

func newRegistrationBook() *registrationBook {
	return &registrationBook{byNum: make(map[int]*types.Participant)}
}

func (b *registrationBook) apply(data []byte) error {
	var msg registrationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if msg.Number <= 0 {
		return fmt.Errorf("invalid participant number %d", msg.Number)
	}

	_, registered := b.byNum[msg.Number]
	if msg.Withdrawn {
		if registered {
			delete(b.byNum, msg.Number)
			b.order = slices.DeleteFunc(b.order, func(n int) bool { return n == msg.Number })
		}

		return nil
	}

	p := types.NewParticipant(msg.Number)
	p.Name = msg.Name
	p.Email = msg.Email
	p.Gender = msg.Gender
	if msg.Seats != nil {
		p.Seats = *msg.Seats
	}
	if !registered {
		b.order = append(b.order, msg.Number)
	}
	b.byNum[msg.Number] = p

	return nil
}

func (b *registrationBook) participants() []*types.Participant {
	result := make([]*types.Participant, 0, len(b.order))
	for _, n := range b.order {
		result = append(result, b.byNum[n])
	}

	return result
}

// PublishRegistration publishes a registration (or a re-registration) of a participant.
//
// Parameters:
//   - ctx: Context for the publish
//   - js: JetStream context
//   - subject: Event subject of a registration stream
//   - p: Participant to register; Number must be positive
//
// Returns:
//   - error: ErrInvalidConfig for a non-positive number, or the publish error
func PublishRegistration(ctx context.Context, js jetstream.JetStream, subject string, p *types.Participant) error {
	if p == nil || p.Number <= 0 {
		return fmt.Errorf("%w: registration needs a positive participant number", types.ErrInvalidConfig)
	}

	msg := registrationMessage{
		Number: p.Number,
		Name:   p.Name,
		Email:  p.Email,
		Gender: p.Gender,
	}
	if p.HasKnownSeats() {
		seats := p.Seats
		msg.Seats = &seats
	}

	return publish(ctx, js, subject, msg)
}

// PublishWithdrawal publishes the withdrawal of a participant.
func PublishWithdrawal(ctx context.Context, js jetstream.JetStream, subject string, number int) error {
	if number <= 0 {
		return fmt.Errorf("%w: withdrawal needs a positive participant number", types.ErrInvalidConfig)
	}

	return publish(ctx, js, subject, registrationMessage{Number: number, Withdrawn: true})
}

func publish(ctx context.Context, js jetstream.JetStream, subject string, msg registrationMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}
	if _, err := js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publish registration %d: %w", msg.Number, err)
	}

	return nil
}
