package parse

import (
	"testing"
	"time"

	"github.com/eviepay/vss-settlement/record"
)

func subgroup4Fixture(reportID string) []byte {
	line := blankLine(168)
	setAt(line, 59, 59, "V")
	setAt(line, 60, 60, "4")
	setAt(line, 61, 63, reportID)
	return line
}

func TestParseSubgroup4AcceptsKnownReportIDs(t *testing.T) {
	for _, id := range []string{"120", "130", "140"} {
		line := string(subgroup4Fixture(id))
		rec, err := ParseSubgroup4(line, "job-1", 1, DefaultOptions())
		if err != nil {
			t.Fatalf("ParseSubgroup4(%s): %v", id, err)
		}
		if !rec.IsValid {
			t.Fatalf("expected report id %s to produce a valid record, errors=%v", id, rec.ValidationErrors)
		}
		if rec.ReportIDNumber != id {
			t.Fatalf("expected ReportIDNumber %s, got %s", id, rec.ReportIDNumber)
		}
	}
}

// TestParseSubgroup4LenientFlagsUnknownReportID pins the E6-style
// scenario: an out-of-set report id number is recorded as a validation
// error but the record still persists for audit.
func TestParseSubgroup4LenientFlagsUnknownReportID(t *testing.T) {
	line := string(subgroup4Fixture("999"))
	rec, err := ParseSubgroup4(line, "job-1", 1, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseSubgroup4: %v", err)
	}
	if rec.IsValid {
		t.Fatal("expected an unknown report id to mark the record invalid")
	}
	if len(rec.ValidationErrors) == 0 {
		t.Fatal("expected a recorded validation error for the unknown report id")
	}
}

func TestParseSubgroup4StrictRejectsUnknownReportID(t *testing.T) {
	line := string(subgroup4Fixture("999"))
	_, err := ParseSubgroup4(line, "job-1", 1, Options{Strict: true, Now: time.Now().UTC()})
	if err == nil {
		t.Fatal("expected strict mode to reject an unknown report id")
	}
}

func TestParseSubgroup4PassesThroughBusinessMode(t *testing.T) {
	line := blankLine(168)
	setAt(line, 59, 59, "V")
	setAt(line, 60, 60, "4")
	setAt(line, 61, 63, "130")
	setAt(line, 56, 56, "1")
	rec, err := ParseSubgroup4(string(line), "job-1", 1, DefaultOptions())
	if err != nil {
		t.Fatalf("ParseSubgroup4: %v", err)
	}
	if rec.BusinessMode != record.BusinessMode("1") {
		t.Fatalf("expected business mode %q, got %q", "1", rec.BusinessMode)
	}
}

func TestParseSubgroup4TooShortLineIsMissingField(t *testing.T) {
	_, err := ParseSubgroup4("short", "job-1", 1, DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for a line shorter than the TCR0 minimum")
	}
}
