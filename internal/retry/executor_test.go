package retry

import (
	"context"
	"errors"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tooManyUsers = &textproto.Error{Code: 421, Msg: "Too many users, try later"}
	notLoggedIn  = &textproto.Error{Code: 530, Msg: "Login incorrect"}
)

// scripted returns each error in turn, then nil, counting calls.
type scripted struct {
	errs  []error
	calls int
}

func (s *scripted) run(context.Context) error {
	s.calls++
	if s.calls <= len(s.errs) {
		return s.errs[s.calls-1]
	}
	return nil
}

func fast(attempts int) *ExponentialBackoff {
	return NewExponentialBackoff(attempts, WithInitialDelay(time.Millisecond), WithJitter(0))
}

func TestExecutor_Execute(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		errs      []error
		wantErr   error
		wantCalls int
	}{
		{"first attempt succeeds", 3, nil, nil, 1},
		{"succeeds after transient replies", 5, []error{tooManyUsers, tooManyUsers}, nil, 3},
		{"login failure is not retried", 5, []error{notLoggedIn}, notLoggedIn, 1},
		{"transient then fatal", 5, []error{tooManyUsers, tooManyUsers, notLoggedIn}, notLoggedIn, 3},
		{"retries exhausted", 3, []error{tooManyUsers, tooManyUsers, tooManyUsers, tooManyUsers, tooManyUsers}, tooManyUsers, 4},
		{"no retries", 0, []error{tooManyUsers}, tooManyUsers, 1},
		{"refused connection is retried", 3, []error{errors.New("dial tcp: connection refused")}, nil, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := &scripted{errs: tt.errs}
			err := NewExecutor(NewFTPErrorClassifier(), fast(tt.attempts)).Execute(context.Background(), op.run)

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantCalls, op.calls)
		})
	}
}

func TestExecutor_Execute_ContextCancellation(t *testing.T) {
	executor := NewExecutor(NewFTPErrorClassifier(), NewExponentialBackoff(10, WithInitialDelay(time.Second)))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	op := &scripted{errs: []error{tooManyUsers, tooManyUsers, tooManyUsers}}
	err := executor.Execute(ctx, op.run)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, op.calls, "cancelled during the first wait")
}

func TestExecutor_Execute_CancelledBeforeWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	op := &scripted{errs: []error{tooManyUsers}}
	err := NewExecutor(NewFTPErrorClassifier(), fast(3)).Execute(ctx, op.run)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, op.calls)
}

func TestExecutor_OnRetry(t *testing.T) {
	var attempts []int
	var delays []time.Duration
	executor := NewExecutor(NewFTPErrorClassifier(), fast(3)).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			require.Error(t, err)
			attempts = append(attempts, attempt)
			delays = append(delays, delay)
		})

	op := &scripted{errs: []error{tooManyUsers, tooManyUsers, tooManyUsers}}
	require.NoError(t, executor.Execute(context.Background(), op.run))

	assert.Equal(t, []int{0, 1, 2}, attempts)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}, delays)
}

func TestExecutor_WithOnRetryLeavesOriginalUnchanged(t *testing.T) {
	base := NewExecutor(NewFTPErrorClassifier(), fast(1))
	called := false
	_ = base.WithOnRetry(func(int, error, time.Duration) { called = true })

	op := &scripted{errs: []error{tooManyUsers}}
	require.NoError(t, base.Execute(context.Background(), op.run))
	assert.False(t, called)
}

func TestNewExecutor_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewExecutor(nil, fast(1)) })
	assert.Panics(t, func() { NewExecutor(NewFTPErrorClassifier(), nil) })
}
