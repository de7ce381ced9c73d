package resilience

import (
	"fmt"
	"sync"
	"time"

	"github.com/eviepay/vss-settlement/logging"
)

// CircuitState is the state of a CircuitBreaker.
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

// CircuitBreaker trips after a run of store failures and stops
// dispatching batch writes until resetTimeout elapses, giving a
// struggling store room to recover instead of piling up retries.
type CircuitBreaker struct {
	name         string
	logger       *logging.ComponentLogger
	maxFailures  int
	resetTimeout time.Duration

	mu              sync.RWMutex
	state           CircuitState
	failures        int
	lastFailureTime time.Time
	successCount    int
}

// NewCircuitBreaker constructs a CircuitBreaker that opens after
// maxFailures consecutive failures and attempts recovery after
// resetTimeout.
func NewCircuitBreaker(name string, maxFailures int, resetTimeout time.Duration, logger *logging.ComponentLogger) *CircuitBreaker {
	return &CircuitBreaker{
		name:         name,
		logger:       logger,
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        StateClosed,
	}
}

// Execute runs fn if the circuit allows it, recording the outcome.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.canExecute() {
		return fmt.Errorf("circuit breaker is open for %s", cb.name)
	}
	err := fn()
	cb.recordResult(err)
	return err
}

func (cb *CircuitBreaker) canExecute() bool {
	cb.mu.RLock()
	state := cb.state
	lastFailure := cb.lastFailureTime
	cb.mu.RUnlock()

	switch state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(lastFailure) > cb.resetTimeout {
			cb.mu.Lock()
			cb.state = StateHalfOpen
			cb.successCount = 0
			cb.mu.Unlock()
			cb.logger.Info().Str("circuit", cb.name).Msg("circuit breaker transitioning to half-open")
			return true
		}
		return false
	case StateHalfOpen:
		return true
	default:
		return false
	}
}

func (cb *CircuitBreaker) recordResult(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.failures = 0
		if cb.state == StateHalfOpen {
			cb.successCount++
			if cb.successCount >= 3 {
				cb.state = StateClosed
				cb.logger.Info().Str("circuit", cb.name).Msg("circuit breaker closed after recovery")
			}
		}
		return
	}

	cb.failures++
	cb.lastFailureTime = time.Now()

	if cb.state == StateHalfOpen {
		cb.state = StateOpen
		cb.logger.Warn().Str("circuit", cb.name).Err(err).Msg("circuit breaker reopened during half-open probe")
	} else if cb.failures >= cb.maxFailures {
		cb.state = StateOpen
		cb.logger.Error().Str("circuit", cb.name).Int("failures", cb.failures).Err(err).Msg("circuit breaker opened")
	}
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Reset forces the circuit back to closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.failures = 0
	cb.successCount = 0
	cb.logger.Info().Str("circuit", cb.name).Msg("circuit breaker manually reset")
}
