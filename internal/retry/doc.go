// Package retry bounds connection attempts against transient failures.
//
// Retries are opt-in: an Executor built with zero retries runs the operation
// exactly once. Record processing never goes through this package; only
// establishing the destination connection does.
//
// # Example Usage
//
//	executor := retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), 3)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return connectToDatabase(ctx)
//	})
//
// Backoff timing comes from github.com/sethvargo/go-retry (exponential,
// capped, with jitter). The ErrorClassifier decides which errors are worth
// another attempt.
package retry
