package vectorindex

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/trackrec/records-backend-go/internal/models"
)

// BreakerConfig controls when the index breaker opens and for how long
type BreakerConfig struct {
	FailureThreshold uint32
	Timeout          time.Duration
}

// Breaker fails index calls fast while the wrapped index keeps failing.
// Errors are still returned to the caller; nothing is retried.
type Breaker struct {
	next Index
	cb   *gobreaker.CircuitBreaker[[]models.Recommendation]
}

// NewBreaker wraps next with a circuit breaker
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewBreaker(next Index, cfg BreakerConfig, logger zerolog.Logger) *Breaker {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        "vectorindex",
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("index breaker state changed")
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
	}

	return &Breaker{next: next, cb: gobreaker.NewCircuitBreaker[[]models.Recommendation](settings)}
}

// EnsureCollection is not guarded; it runs once at startup
func (b *Breaker) EnsureCollection(ctx context.Context, size int) error {
	return b.next.EnsureCollection(ctx, size)
}

func (b *Breaker) Upsert(ctx context.Context, trackID string, vector models.FeatureVector, payload Payload) error {
	_, err := b.cb.Execute(func() ([]models.Recommendation, error) {
		return nil, b.next.Upsert(ctx, trackID, vector, payload)
	})
	return err
}

func (b *Breaker) Search(ctx context.Context, vector models.FeatureVector, limit int, userFilter *int64) ([]models.Recommendation, error) {
	return b.cb.Execute(func() ([]models.Recommendation, error) {
		return b.next.Search(ctx, vector, limit, userFilter)
	})
}

// State reports the breaker state (closed, half-open or open)
func (b *Breaker) State() string {
	return b.cb.State().String()
}

func (b *Breaker) Close() error {
	return b.next.Close()
}
