package verr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsTransientUnwrapsStoreError(t *testing.T) {
	transient := &StoreError{Op: "write", Err: errors.New("connection reset"), Transient: true}
	if !IsTransient(transient) {
		t.Fatal("expected a transient StoreError to report transient")
	}

	permanent := &StoreError{Op: "write", Err: errors.New("constraint violation"), Transient: false}
	if IsTransient(permanent) {
		t.Fatal("expected a non-transient StoreError to report non-transient")
	}
}

// TestIsTransientTreatsOtherErrorTypesAsPermanent pins the documented
// default: anything that isn't a *StoreError is never retried, even
// when wrapped.
func TestIsTransientTreatsOtherErrorTypesAsPermanent(t *testing.T) {
	cases := []error{
		errors.New("plain error"),
		&MalformedFieldError{Field: "x", LineNumber: 1},
		&StateTransitionError{JobID: "job-1", From: "COMPLETED", To: "PROCESSING"},
		fmt.Errorf("wrapped: %w", errors.New("inner")),
	}
	for _, err := range cases {
		if IsTransient(err) {
			t.Fatalf("expected %v to be treated as permanent", err)
		}
	}
}

func TestIsTransientFindsWrappedStoreError(t *testing.T) {
	inner := &StoreError{Op: "write", Err: errors.New("timeout"), Transient: true}
	wrapped := fmt.Errorf("batch failed: %w", inner)
	if !IsTransient(wrapped) {
		t.Fatal("expected errors.As to find a wrapped *StoreError")
	}
}

func TestStoreErrorUnwrapExposesUnderlyingErr(t *testing.T) {
	inner := errors.New("boom")
	se := &StoreError{Op: "write", Err: inner}
	if !errors.Is(se, inner) {
		t.Fatal("expected Unwrap to expose the wrapped error via errors.Is")
	}
}

func TestErrorMessagesIncludeContext(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&MalformedFieldError{Field: "amount", Expected: "digits", Actual: "xx", LineNumber: 5, Format: FormatVSS110}, "malformed field"},
		{&MissingFieldError{Field: "line", LineNumber: 1, Format: FormatSubGroup4}, "missing field"},
		{&OutOfRangeDateError{Field: "settlementDate", Value: "1999001", LineNumber: 2}, "out of range"},
		{&InvariantViolationError{Invariant: "vss110-net-consistency", Detail: "mismatch", LineNumber: 3}, "invariant"},
		{&StateTransitionError{JobID: "job-1", From: "COMPLETED", To: "PROCESSING"}, "illegal transition"},
		{&UnknownRecordTypeError{LineNumber: 4, Snippet: "garbage"}, "unknown record type"},
	}
	for _, c := range cases {
		got := c.err.Error()
		if !strings.Contains(got, c.want) {
			t.Fatalf("expected %T's message to contain %q, got %q", c.err, c.want, got)
		}
	}
}
