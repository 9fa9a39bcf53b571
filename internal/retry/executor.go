package retry

import (
	"context"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"github.com/vvka-141/docload/pkg/docload"
)

// Executor runs an operation, retrying transient failures a bounded number of times.
//
// Thread Safety:
// Execute is safe for concurrent use. WithOnRetry and WithDelays return
// a NEW instance and leave the receiver unchanged.
type Executor struct {
	classifier   docload.ErrorClassifier
	maxRetries   uint64
	initialDelay time.Duration
	maxDelay     time.Duration
	onRetry      func(attempt int, err error)
}

// NewExecutor creates an executor that allows maxRetries additional attempts
// after the first one. maxRetries <= 0 disables retrying.
// Panics if classifier is nil.
func NewExecutor(classifier docload.ErrorClassifier, maxRetries int) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Executor{
		classifier:   classifier,
		maxRetries:   uint64(maxRetries),
		initialDelay: docload.DefaultRetryInitialDelay,
		maxDelay:     docload.DefaultRetryMaxDelay,
	}
}

// WithOnRetry returns a new Executor that calls callback before every retry.
// attempt is 1-based.
func (e *Executor) WithOnRetry(callback func(attempt int, err error)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// WithDelays returns a new Executor with different backoff bounds.
func (e *Executor) WithDelays(initial, max time.Duration) *Executor {
	clone := *e
	clone.initialDelay = initial
	clone.maxDelay = max
	return &clone
}

// MaxRetries reports how many retries the executor allows.
func (e *Executor) MaxRetries() int {
	return int(e.maxRetries)
}

// Execute runs operation until it succeeds, fails with a non-transient error,
// the retry budget is spent, or ctx is done. The last error is returned unwrapped.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	backoff := goretry.NewExponential(e.initialDelay)
	backoff = goretry.WithJitterPercent(10, backoff)
	backoff = goretry.WithCappedDuration(e.maxDelay, backoff)
	backoff = goretry.WithMaxRetries(e.maxRetries, backoff)

	attempt := 0
	var lastErr error
	return goretry.Do(ctx, backoff, func(ctx context.Context) error {
		if attempt > 0 && e.onRetry != nil {
			e.onRetry(attempt, lastErr)
		}
		attempt++

		lastErr = operation(ctx)
		if lastErr == nil {
			return nil
		}
		if !e.classifier.IsTransient(lastErr) {
			return lastErr
		}
		return goretry.RetryableError(lastErr)
	})
}
