// Package retry runs an operation until it succeeds or a fixed number
// of attempts is exhausted, sleeping with exponential backoff between
// failures.
package retry

import (
	"context"
	"time"
)

// Config bounds the retry loop.
type Config struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int
	// BaseDelay is the sleep after the first failure; each further
	// failure doubles it.
	BaseDelay time.Duration
}

// DefaultConfig returns the standard retry policy: five attempts with
// delays of 1s, 2s, 4s and 8s between them.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
	}
}

// sleepFunc is swapped out in tests to avoid real delays.
var sleepFunc = sleepContext

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do calls op until it returns nil or MaxAttempts calls have failed.
// The error from the final attempt is returned as-is, so callers can
// inspect exactly what the operation last reported. A context
// cancelled mid-backoff returns ctx.Err instead.
func Do(ctx context.Context, cfg Config, op func() error) error {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	base := cfg.BaseDelay
	if base <= 0 {
		base = time.Second
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		delay := base * time.Duration(1<<uint(attempt))
		if serr := sleepFunc(ctx, delay); serr != nil {
			return serr
		}
	}
	return err
}
