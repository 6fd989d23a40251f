package retry

import (
	"math"
	"math/rand"
	"time"

	"github.com/vvka-141/recls/pkg/recls"
)

// ExponentialBackoff waits initial*multiplier^attempt between reconnects,
// capped at max and spread by a symmetric jitter.
type ExponentialBackoff struct {
	initial    time.Duration
	max        time.Duration
	multiplier float64
	jitter     float64
	attempts   int // -1 = unlimited, 0 = no retries
	random     func() float64
}

// BackoffOption configures an ExponentialBackoff.
type BackoffOption func(*ExponentialBackoff)

// WithInitialDelay sets the delay before the first retry.
func WithInitialDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.initial = d }
}

// WithMaxDelay caps the delay between retries.
func WithMaxDelay(d time.Duration) BackoffOption {
	return func(b *ExponentialBackoff) { b.max = d }
}

// WithMultiplier sets the growth factor between consecutive delays.
func WithMultiplier(m float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.multiplier = m }
}

// WithJitter sets the jitter fraction; 0.1 spreads delays by +/-10%.
func WithJitter(j float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.jitter = j }
}

// WithJitterFunc replaces the [0,1) random source, mainly for tests.
func WithJitterFunc(f func() float64) BackoffOption {
	return func(b *ExponentialBackoff) { b.random = f }
}

// NewExponentialBackoff creates a strategy allowing maxAttempts retries.
//
//	backoff := retry.NewExponentialBackoff(3,
//	    retry.WithInitialDelay(200*time.Millisecond),
//	    retry.WithMaxDelay(10*time.Second),
//	)
func NewExponentialBackoff(maxAttempts int, opts ...BackoffOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		initial:    recls.DefaultRetryInitialDelay,
		max:        recls.DefaultRetryMaxDelay,
		multiplier: 2.0,
		jitter:     0.1,
		attempts:   maxAttempts,
		random:     rand.Float64,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NextDelay returns the wait before retry number attempt (zero-based).
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	d := float64(b.initial) * math.Pow(b.multiplier, float64(attempt))
	if d > float64(b.max) {
		d = float64(b.max)
	}
	if b.jitter > 0 {
		d *= 1 + b.jitter*(b.random()*2-1)
	}
	return time.Duration(d)
}

// MaxAttempts implements recls.BackoffStrategy.
func (b *ExponentialBackoff) MaxAttempts() int {
	return b.attempts
}

// Never is a strategy that does not retry.
var Never recls.BackoffStrategy = never{}

type never struct{}

func (never) NextDelay(int) time.Duration { return 0 }
func (never) MaxAttempts() int            { return 0 }
