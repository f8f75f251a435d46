package llm

import "time"

// BackoffPolicy controls how many attempts a backend call makes and how long
// to wait between them. Injected so tests can run with zero delay.
type BackoffPolicy interface {
	// Attempts returns the total number of attempts, including the first.
	Attempts() int
	// Delay returns how long to wait after the given failed attempt (1-based).
	Delay(attempt int) time.Duration
}

// FixedBackoff retries a fixed number of times with a constant delay.
type FixedBackoff struct {
	MaxAttempts int
	Interval    time.Duration
}

// Attempts returns the total attempt budget.
func (b FixedBackoff) Attempts() int {
	if b.MaxAttempts <= 0 {
		return 1
	}
	return b.MaxAttempts
}

// Delay returns the constant interval regardless of attempt number.
func (b FixedBackoff) Delay(int) time.Duration {
	return b.Interval
}

// DefaultBackoff is the production policy: 3 attempts total, 10 seconds apart.
func DefaultBackoff() BackoffPolicy {
	return FixedBackoff{MaxAttempts: 3, Interval: 10 * time.Second}
}
