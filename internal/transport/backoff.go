package transport

import (
	"context"
	"time"

	"github.com/tiendapocket/nubesync/pkg/constants"
	"github.com/tiendapocket/nubesync/pkg/errors"
)

// Backoff is a bounded exponential retry policy.
type Backoff struct {
	Attempts int           // total attempts, including the first
	Base     time.Duration // delay after the first failure
	Max      time.Duration // cap on any single delay

	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultBackoff returns the policy used for retryable remote reads.
func DefaultBackoff() Backoff {
	return Backoff{
		Attempts: constants.MaxRetries,
		Base:     constants.RetryBackoff,
		Max:      constants.MaxRetryBackoff,
	}
}

// Delay returns the wait after the given zero-based attempt: Base * 2^attempt.
func (b Backoff) Delay(attempt int) time.Duration {
	d := b.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}

// Retry calls fn until it succeeds, reports the error as not retryable, or
// the attempts run out. Waits between attempts end early when ctx is done.
func (b Backoff) Retry(ctx context.Context, fn func(attempt int) (retry bool, err error)) error {
	attempts := max(b.Attempts, 1)
	sleep := b.sleep
	if sleep == nil {
		sleep = Sleep
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		var retry bool
		retry, err = fn(attempt)
		if err == nil || !retry || attempt == attempts-1 {
			return err
		}
		if serr := sleep(ctx, b.Delay(attempt)); serr != nil {
			return errors.Join(err, errors.ErrCanceled, serr)
		}
	}
	return err
}
