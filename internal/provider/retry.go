package provider

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"sharkwatch/internal/model"
)

// Retrier wraps adapter calls with bounded retries on transient failures.
// The backoff delay is drawn uniformly from [BackoffMin, BackoffMax] so that
// concurrent callers do not re-hammer a rate-limited upstream in lockstep.
type Retrier struct {
	MaxAttempts int
	BackoffMin  time.Duration
	BackoffMax  time.Duration
}

// NewRetrier builds a Retrier from adapter options.
func NewRetrier(opts Options) *Retrier {
	return &Retrier{
		MaxAttempts: opts.MaxRetries,
		BackoffMin:  opts.BackoffMin,
		BackoffMax:  opts.BackoffMax,
	}
}

// History fetches raw history through p, retrying transient failures.
func (r *Retrier) History(ctx context.Context, p Provider, symbol string, start, end time.Time) (*Table, error) {
	var table *Table
	err := r.do(ctx, p.Name(), func() error {
		var err error
		table, err = p.History(ctx, symbol, start, end)
		return err
	})
	return table, err
}

// Realtime fetches a live snapshot through p, retrying transient failures.
func (r *Retrier) Realtime(ctx context.Context, p Provider, symbol string) (*model.RealtimeQuote, error) {
	var quote *model.RealtimeQuote
	err := r.do(ctx, p.Name(), func() error {
		var err error
		quote, err = p.Realtime(ctx, symbol)
		return err
	})
	return quote, err
}

func (r *Retrier) do(ctx context.Context, name string, fn func() error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		class := ClassOf(lastErr)
		if class != ClassTransient || attempt == attempts {
			return lastErr
		}
		delay := r.backoff()
		log.Warn().
			Str("provider", name).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Dur("backoff", delay).
			Err(lastErr).
			Msg("transient provider failure, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

func (r *Retrier) backoff() time.Duration {
	min, max := r.BackoffMin, r.BackoffMax
	if min <= 0 {
		min = time.Second
	}
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
