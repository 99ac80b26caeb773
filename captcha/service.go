package captcha

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Store is the key/value cache holding challenges until their absolute
// expiration. Implementations must be safe for concurrent use and must
// return ErrNotFound for both a missing key and a lapsed TTL.
type Store interface {
	Set(ctx context.Context, key string, ch *Challenge, expiresAt time.Time) error
	Get(ctx context.Context, key string) (*Challenge, error)
	Delete(ctx context.Context, key string) error
}

// Renderer turns challenge text into encoded, distorted image bytes.
type Renderer interface {
	Render(text string, opts Options) ([]byte, error)
}

// Service orchestrates number selection, rendering, storage and later
// validation. Generate and Validate are independent, stateless-per-call
// operations; the only shared state is the store.
type Service struct {
	store    Store
	renderer Renderer
	opts     Options
	log      zerolog.Logger
	now      func() time.Time
}

// NewService builds a Service. Options are validated eagerly so a
// degenerate range fails here instead of hanging a random draw later.
func NewService(store Store, renderer Renderer, opts Options, log zerolog.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("captcha: nil store")
	}
	if renderer == nil {
		return nil, errors.New("captcha: nil renderer")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		store:    store,
		renderer: renderer,
		opts:     opts,
		log:      log.With().Str("component", "captcha").Logger(),
		now:      time.Now,
	}, nil
}

// Options returns the service's configuration.
func (s *Service) Options() Options { return s.opts }

// Generate creates a challenge with both operands drawn uniformly at
// random from the configured ranges.
func (s *Service) Generate(ctx context.Context) (*Challenge, error) {
	rnd := rand.New(rand.NewSource(s.now().UnixNano()))
	a := s.opts.Number1MinValue + rnd.Intn(s.opts.Number1MaxValue-s.opts.Number1MinValue)
	b := s.opts.Number2MinValue + rnd.Intn(s.opts.Number2MaxValue-s.opts.Number2MinValue)
	return s.GenerateOperands(ctx, a, b)
}

// GenerateOperands creates a challenge for the given operand pair. The
// display text is "{a}+{b}" and the expected answer is a+b; callers
// must bound their ranges so the sum cannot overflow.
func (s *Service) GenerateOperands(ctx context.Context, a, b int) (*Challenge, error) {
	text := fmt.Sprintf("%d+%d", a, b)

	img, err := s.renderer.Render(text, s.opts)
	if err != nil {
		return nil, fmt.Errorf("render challenge image: %w", err)
	}

	ch := &Challenge{
		ID:        NewID(),
		Operand1:  a,
		Operand2:  b,
		Text:      text,
		Answer:    a + b,
		Image:     img,
		ExpiresAt: s.now().Add(s.opts.DurationOfValidity),
	}
	if err := s.store.Set(ctx, ch.ID, ch, ch.ExpiresAt); err != nil {
		return nil, fmt.Errorf("store challenge %s: %w", ch.ID, err)
	}

	s.log.Debug().
		Str("id", ch.ID).
		Str("text", ch.Text).
		Time("expires_at", ch.ExpiresAt).
		Msg("challenge generated")
	return ch, nil
}

// Validate checks a submitted integer answer against the stored
// challenge. It returns nil on success, a *Failure for the user-facing
// outcomes, or a wrapped infrastructure error on store trouble.
func (s *Service) Validate(ctx context.Context, id string, answer int) error {
	ch, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return newFailure(ReasonNotFoundOrExpired, nil)
	}
	if err != nil {
		return fmt.Errorf("load challenge %s: %w", id, err)
	}
	if ch.Answer != answer {
		return newFailure(ReasonIncorrectAnswer, nil)
	}
	if s.opts.DeleteOnSuccess {
		if err := s.store.Delete(ctx, id); err != nil {
			// The answer was right; a failed cleanup only widens the
			// replay window back to the TTL.
			s.log.Warn().Err(err).Str("id", id).Msg("delete after successful validation failed")
		}
	}
	return nil
}

// ValidateString parses the submitted value as an integer and delegates
// to Validate. A value that does not parse fails with MalformedInput
// before the store is ever consulted.
func (s *Service) ValidateString(ctx context.Context, id, submitted string) error {
	answer, err := strconv.Atoi(strings.TrimSpace(submitted))
	if err != nil {
		return newFailure(ReasonMalformedInput, err)
	}
	return s.Validate(ctx, id, answer)
}
