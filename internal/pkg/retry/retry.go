// Package retry re-runs optimistic read-transition cycles that lost a version race.
package retry

import (
	"context"
	"errors"
	"time"

	"tpts/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// Config tunes the exponential backoff between attempts.
type Config struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	Multiplier      float64
	Randomization   float64
	MaxRetries      uint64
}

// DefaultConfig returns short intervals suited to in-process version conflicts.
func DefaultConfig() Config {
	return Config{
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     200 * time.Millisecond,
		MaxElapsedTime:  2 * time.Second,
		Multiplier:      2,
		Randomization:   0.5,
		MaxRetries:      5,
	}
}

// Retrier retries a function while it fails with errs.ErrConcurrentModification.
// Any other error stops the loop immediately and is returned unchanged.
type Retrier struct {
	config Config
}

// New creates a Retrier.
func New(config Config) *Retrier {
	return &Retrier{config: config}
}

// OnConflict runs fn until it succeeds, fails with a non-conflict error, or the backoff gives up.
func (r *Retrier) OnConflict(ctx context.Context, fn func(ctx context.Context) error) error {
	if r == nil {
		return fn(ctx)
	}

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(r.config.InitialInterval),
		backoff.WithMaxInterval(r.config.MaxInterval),
		backoff.WithMaxElapsedTime(r.config.MaxElapsedTime),
		backoff.WithMultiplier(r.config.Multiplier),
		backoff.WithRandomizationFactor(r.config.Randomization),
	)

	var policy backoff.BackOff = b
	if r.config.MaxRetries > 0 {
		policy = backoff.WithMaxRetries(b, r.config.MaxRetries)
	}

	operation := func() error {
		err := fn(ctx)
		if err != nil && !errors.Is(err, errs.ErrConcurrentModification) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(operation, backoff.WithContext(policy, ctx))
}
