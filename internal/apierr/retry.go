package apierr

import (
	"context"
	"fmt"
	"iter"
	"time"
)

// RetryConfig holds retry parameters for exponential backoff.
//
// Invalid values are normalized before use:
//   - MaxRetries < 0 becomes 0 (single attempt)
//   - BaseDelay <= 0 becomes 1ms
//   - MaxDelay <= 0 becomes BaseDelay
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration

	// OnRetry, if set, is called before each wait with the 1-based number of
	// the upcoming retry and the error that caused it.
	OnRetry func(retry int, err error)
}

func (c RetryConfig) normalized() RetryConfig {
	c.MaxRetries = max(c.MaxRetries, 0)
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = c.BaseDelay
	}
	return c
}

// delays yields the wait before each retry: BaseDelay doubling, capped at MaxDelay.
func (c RetryConfig) delays() iter.Seq2[int, time.Duration] {
	return func(yield func(int, time.Duration) bool) {
		d := min(c.BaseDelay, c.MaxDelay)
		for retry := 1; retry <= c.MaxRetries; retry++ {
			if !yield(retry, d) {
				return
			}
			d = min(d*2, c.MaxDelay)
		}
	}
}

// RetryWithBackoff calls fn until it succeeds, shouldRetry rejects its error,
// the retries run out, or ctx is done.
func RetryWithBackoff[T any](
	ctx context.Context,
	cfg RetryConfig,
	fn func() (T, error),
	shouldRetry func(error) bool,
) (T, error) {
	cfg = cfg.normalized()

	var zero T
	result, err := fn()
	if err == nil {
		return result, nil
	}
	if !shouldRetry(err) {
		return zero, err
	}

	for retry, delay := range cfg.delays() {
		if cfg.OnRetry != nil {
			cfg.OnRetry(retry, err)
		}
		if werr := wait(ctx, delay); werr != nil {
			return zero, werr
		}

		result, err = fn()
		if err == nil {
			return result, nil
		}
		if !shouldRetry(err) {
			return zero, err
		}
	}

	return zero, fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxRetries, err)
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
