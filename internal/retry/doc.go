// Package retry provides automatic retry logic with exponential backoff
// for transient FTP connection failures.
//
// The package supports pluggable error classification and backoff strategies,
// so callers can reuse the executor for any operation that fails transiently.
//
// # Example Usage
//
//	classifier := retry.NewFTPErrorClassifier()
//	strategy := retry.NewExponentialBackoff(3)
//	executor := retry.NewExecutor(classifier, strategy)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return connectToServer(ctx)
//	})
//
// # Error Classification
//
// The ErrorClassifier interface determines which errors are transient (retryable)
// versus fatal (non-retryable). The FTPErrorClassifier treats 4xx server
// replies and refused or reset connections as transient; 5xx replies such as
// 530 (not logged in) are fatal.
//
// # Backoff Strategies
//
// The BackoffStrategy interface controls retry timing. ExponentialBackoff
// implements exponential backoff with configurable initial delay and maximum delay caps.
//
// # Thread Safety
//
// Executor instances are safe for concurrent use. Use WithOnRetry() to create
// independent configurations per goroutine.
package retry
