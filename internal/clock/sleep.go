// Package clock provides waiting and retry helpers that respect context cancellation.
package clock

import (
	"context"
	"fmt"
	"time"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SleepWithContext waits for the duration or returns early if the context is canceled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Backoff doubles the delay after every failed attempt, capped at Max when Max is set.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

// Delay returns the wait before retry number attempt, starting at zero.
func (b Backoff) Delay(attempt int) time.Duration {
	d := b.Initial
	for i := 0; i < attempt; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}
	return d
}

// Retry calls fn up to attempts times, sleeping with the backoff between failures.
// It returns the last error of fn, or the context error when waiting was interrupted.
func Retry(ctx context.Context, attempts int, backoff Backoff, sleep SleepFunc, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	if sleep == nil {
		sleep = SleepWithContext
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		if serr := sleep(ctx, backoff.Delay(attempt)); serr != nil {
			return serr
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, err)
}
