package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eviepay/vss-settlement/logging"
	"github.com/eviepay/vss-settlement/verr"
)

func testLogger() *logging.ComponentLogger {
	return logging.NewComponentLogger("test")
}

func TestRetryManagerRetriesTransientFailures(t *testing.T) {
	rm := NewRetryManager(&RetryPolicy{MaxAttempts: 3, LinearStep: time.Millisecond}, testLogger())

	attempts := 0
	err := rm.Execute(context.Background(), "write_batch", func() error {
		attempts++
		if attempts < 3 {
			return &verr.StoreError{Op: "write", Err: errors.New("connection reset"), Transient: true}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryManagerDoesNotRetryPermanentFailures(t *testing.T) {
	rm := NewRetryManager(&RetryPolicy{MaxAttempts: 3, LinearStep: time.Millisecond}, testLogger())

	attempts := 0
	permanent := &verr.StoreError{Op: "write", Err: errors.New("unique constraint violated"), Transient: false}
	err := rm.Execute(context.Background(), "write_batch", func() error {
		attempts++
		return permanent
	})
	if err != permanent {
		t.Fatalf("expected the permanent error back unwrapped, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("a permanent failure must not be retried, got %d attempts", attempts)
	}
}

func TestRetryManagerGivesUpAfterMaxAttempts(t *testing.T) {
	rm := NewRetryManager(&RetryPolicy{MaxAttempts: 2, LinearStep: time.Millisecond}, testLogger())

	attempts := 0
	err := rm.Execute(context.Background(), "write_batch", func() error {
		attempts++
		return &verr.StoreError{Op: "write", Err: errors.New("still down"), Transient: true}
	})
	if err == nil {
		t.Fatal("expected an error once MaxAttempts is exhausted")
	}
	if attempts != 2 {
		t.Fatalf("expected exactly MaxAttempts=2 attempts, got %d", attempts)
	}
}

func TestExecuteWithResultReturnsValue(t *testing.T) {
	rm := NewRetryManager(&RetryPolicy{MaxAttempts: 1, LinearStep: time.Millisecond}, testLogger())
	got, err := ExecuteWithResult(context.Background(), rm, "op", func() (int, error) {
		return 42, nil
	})
	if err != nil || got != 42 {
		t.Fatalf("expected (42, nil), got (%d, %v)", got, err)
	}
}

func TestCircuitBreakerOpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, time.Hour, testLogger())
	failing := errors.New("boom")

	_ = cb.Execute(func() error { return failing })
	if cb.State() != StateClosed {
		t.Fatalf("expected closed after 1 failure, got %v", cb.State())
	}
	_ = cb.Execute(func() error { return failing })
	if cb.State() != StateOpen {
		t.Fatalf("expected open after maxFailures failures, got %v", cb.State())
	}

	err := cb.Execute(func() error { return nil })
	if err == nil {
		t.Fatal("expected the circuit to reject calls while open")
	}
}

func TestCircuitBreakerHalfOpenRecoversAfterResetTimeout(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, time.Millisecond, testLogger())
	_ = cb.Execute(func() error { return errors.New("boom") })
	if cb.State() != StateOpen {
		t.Fatalf("expected open after 1 failure with maxFailures=1, got %v", cb.State())
	}

	time.Sleep(5 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("half-open probe %d should be allowed through, got %v", i, err)
		}
	}
	if cb.State() != StateClosed {
		t.Fatalf("expected closed after 3 successful half-open probes, got %v", cb.State())
	}
}
