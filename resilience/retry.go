// Package resilience wraps the batch writer with retry and circuit
// breaker behavior, adapted from the teacher pack's retry manager.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/eviepay/vss-settlement/logging"
	"github.com/eviepay/vss-settlement/verr"
)

// RetryPolicy controls how a RetryManager schedules re-attempts of a
// failed batch write. Unlike the teacher's exponential-backoff policy,
// the settlement pipeline uses linear backoff: delay(attempt) =
// attempt * LinearStep.
type RetryPolicy struct {
	MaxAttempts int
	LinearStep  time.Duration
}

// DefaultRetryPolicy is the batch-write retry policy: 3 attempts,
// linear backoff of attempt-count seconds.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 3,
		LinearStep:  time.Second,
	}
}

// RetryManager executes an operation, retrying transient failures
// (per verr.IsTransient) with linear backoff.
type RetryManager struct {
	policy  *RetryPolicy
	logger  *logging.ComponentLogger
	mu      sync.RWMutex
	metrics RetryMetrics
}

// RetryMetrics tracks retry statistics for the metrics collector.
type RetryMetrics struct {
	TotalAttempts     int64
	SuccessfulRetries int64
	FailedRetries     int64
}

// NewRetryManager constructs a RetryManager. A nil policy falls back
// to DefaultRetryPolicy.
func NewRetryManager(policy *RetryPolicy, logger *logging.ComponentLogger) *RetryManager {
	if policy == nil {
		policy = DefaultRetryPolicy()
	}
	return &RetryManager{policy: policy, logger: logger}
}

// Execute runs fn, retrying on transient errors up to MaxAttempts with
// linear backoff. Non-transient errors return immediately.
func (rm *RetryManager) Execute(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	start := time.Now()

	for attempt := 1; attempt <= rm.policy.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			if attempt > 1 {
				rm.recordSuccess()
				rm.logger.Info().
					Str("operation", operation).
					Int("attempts", attempt).
					Dur("total_time", time.Since(start)).
					Msg("operation succeeded after retry")
			}
			return nil
		}

		lastErr = err
		rm.recordAttempt()

		if !isRetryable(err) {
			rm.logger.Debug().Str("operation", operation).Err(err).Msg("error is not retryable")
			return err
		}

		if attempt >= rm.policy.MaxAttempts {
			rm.recordFailure()
			rm.logger.Error().
				Str("operation", operation).
				Int("attempts", attempt).
				Err(err).
				Msg("operation failed after max attempts")
			return fmt.Errorf("operation failed after %d attempts: %w", attempt, err)
		}

		delay := time.Duration(attempt) * rm.policy.LinearStep
		rm.logger.Warn().
			Str("operation", operation).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Err(err).
			Msg("operation failed, retrying")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}

// ExecuteWithResult is Execute for operations that produce a value.
func ExecuteWithResult[T any](ctx context.Context, rm *RetryManager, operation string, fn func() (T, error)) (T, error) {
	var result T
	err := rm.Execute(ctx, operation, func() error {
		var fnErr error
		result, fnErr = fn()
		return fnErr
	})
	return result, err
}

// isRetryable reports whether an error should trigger a retry. Store
// errors carry their own transience classification; everything else
// (validation failures, context errors) is treated as permanent.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	return verr.IsTransient(err)
}

func (rm *RetryManager) recordAttempt() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.metrics.TotalAttempts++
}

func (rm *RetryManager) recordSuccess() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.metrics.SuccessfulRetries++
}

func (rm *RetryManager) recordFailure() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.metrics.FailedRetries++
}

// Metrics returns a snapshot of retry counters.
func (rm *RetryManager) Metrics() RetryMetrics {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.metrics
}
