package dispatch

import "time"

// Defaults observed on the gateway's remote calls.
const (
	DefaultDeadline    = 3 * time.Second
	DefaultMaxRetries  = 2
	DefaultBackoffStep = 300 * time.Millisecond
)

// Policy is the deadline and retry budget applied to a call site.
type Policy struct {
	Deadline   time.Duration
	MaxRetries int
	Backoff    func(attempt int) time.Duration
}

// DefaultPolicy is 3s per attempt, 2 retries, 300ms then 600ms between attempts.
func DefaultPolicy() Policy {
	return Policy{
		Deadline:   DefaultDeadline,
		MaxRetries: DefaultMaxRetries,
		Backoff:    Linear(DefaultBackoffStep),
	}
}

// Linear waits (attempt+1)*step before retry number attempt (zero based).
func Linear(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt+1) * step
	}
}

// linearBackOff adapts a Policy.Backoff to backoff.BackOff.
type linearBackOff struct {
	fn      func(int) time.Duration
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	d := b.fn(b.attempt)
	b.attempt++
	return d
}

func (b *linearBackOff) Reset() { b.attempt = 0 }
