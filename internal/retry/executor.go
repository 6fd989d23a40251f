package retry

import (
	"context"
	"time"

	"github.com/vvka-141/recls/pkg/recls"
)

// Executor retries an operation while its errors classify as transient.
// It is safe for concurrent use; WithOnRetry returns a configured copy.
type Executor struct {
	classifier recls.ErrorClassifier
	strategy   recls.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates a new retry executor with the given configuration.
// Panics if classifier or strategy is nil.
func NewExecutor(
	classifier recls.ErrorClassifier,
	strategy recls.BackoffStrategy,
) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{
		classifier: classifier,
		strategy:   strategy,
	}
}

// WithOnRetry returns a copy of e that calls callback before each wait.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs operation until it succeeds, fails with a non-transient
// error, or the strategy runs out of retries. It returns the last error,
// or ctx.Err() if the context ends while waiting.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	limit := e.strategy.MaxAttempts()
	for attempt := 0; ; attempt++ {
		err := operation(ctx)
		if err == nil || !e.classifier.IsTransient(err) {
			return err
		}
		if limit >= 0 && attempt >= limit {
			return err
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, err, delay)
		}
		if err := wait(ctx, delay); err != nil {
			return err
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
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
