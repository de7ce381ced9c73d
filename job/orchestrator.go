// Package job implements the batch pipeline / job orchestrator (§4.3):
// the driver that takes an uploaded EPIN file blob
// through UPLOADED -> PROCESSING -> COMPLETED/FAILED/CANCELLED,
// batching lines, retrying transient store failures, and carrying the
// active-parent-TCR0 context across batch boundaries.
package job

import (
	"time"

	"github.com/eviepay/vss-settlement/config"
	"github.com/eviepay/vss-settlement/logging"
	"github.com/eviepay/vss-settlement/metrics"
	"github.com/eviepay/vss-settlement/resilience"
	"github.com/eviepay/vss-settlement/store"
)

// Orchestrator drives jobs through their lifecycle. One Orchestrator
// instance is shared across jobs; per-job state (the active-parent
// context) lives on the stack of the goroutine running submit/retry,
// never on the Orchestrator itself, so concurrent jobs don't interfere.
type Orchestrator struct {
	store   store.Store
	retry   *resilience.RetryManager
	breaker *resilience.CircuitBreaker
	metrics *metrics.Metrics
	logger  *logging.ComponentLogger
	cfg     config.PipelineConfig

	// clock is overridable in tests; nil means time.Now().UTC().
	clock func() time.Time
}

// New constructs an Orchestrator wired to st, tuned by cfg, observing
// through m and logging through logger.
func New(st store.Store, cfg config.PipelineConfig, m *metrics.Metrics, logger *logging.ComponentLogger) *Orchestrator {
	cfg.ApplyDefaults()
	retryPolicy := &resilience.RetryPolicy{MaxAttempts: cfg.MaxRetries, LinearStep: cfg.RetryStep}
	return &Orchestrator{
		store:   st,
		retry:   resilience.NewRetryManager(retryPolicy, logger),
		breaker: resilience.NewCircuitBreaker("batch-writer", cfg.CircuitMaxFail, cfg.CircuitReset, logger),
		metrics: m,
		logger:  logger,
		cfg:     cfg,
	}
}
