package job

import (
	"context"
	"testing"

	"github.com/eviepay/vss-settlement/config"
	"github.com/eviepay/vss-settlement/logging"
	"github.com/eviepay/vss-settlement/metrics"
	"github.com/eviepay/vss-settlement/record"
	"github.com/eviepay/vss-settlement/store/memory"
	"github.com/eviepay/vss-settlement/verr"
)

func newTestOrchestrator() *Orchestrator {
	cfg := config.PipelineConfig{BatchSize: 10}
	return New(memory.New(), cfg, metrics.New(metrics.Config{}), logging.NewComponentLogger("test"))
}

// setAt writes value into line's 1-based, inclusive [start,end] range,
// space-padding the remainder of the field.
func setAt(line []byte, start, end int, value string) {
	for i := 0; i < end-start+1; i++ {
		if i < len(value) {
			line[start-1+i] = value[i]
		} else {
			line[start-1+i] = ' '
		}
	}
}

func blankLine(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return b
}

// vss110Line builds a minimally valid (168-char, blank-amount) VSS-110
// TCR0 line: every amount/count/date field left blank decodes cleanly
// to zero/null rather than erroring, so the record persists as valid.
func vss110Line() string {
	line := blankLine(168)
	setAt(line, 59, 59, "V")
	setAt(line, 60, 60, "2")
	setAt(line, 61, 63, "110")
	return string(line)
}

// subgroup4Line builds a minimally valid SubGroup-4 TCR0 line for the
// given 3-digit report id ("120", "130", "140").
func subgroup4Line(reportID string) string {
	line := blankLine(168)
	setAt(line, 59, 59, "V")
	setAt(line, 60, 60, "4")
	setAt(line, 61, 63, reportID)
	return string(line)
}

// tcr1Line builds a minimally valid TCR1 amount line (positions 1-4 =
// "4601" drive the classifier).
func tcr1Line() string {
	line := blankLine(143)
	setAt(line, 1, 4, "4601")
	return string(line)
}

func TestSubmitDrivesJobToCompleted(t *testing.T) {
	o := newTestOrchestrator()
	ctx := context.Background()

	j, err := o.Submit(ctx, "file.txt", []byte(vss110Line()), 168)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if j.Status != record.StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", j.Status)
	}
	if j.ProcessedRecords != 1 {
		t.Fatalf("expected 1 processed record, got %d", j.ProcessedRecords)
	}
	if j.ProcessingStartedAt == nil || j.ProcessingCompletedAt == nil {
		t.Fatal("expected processing timestamps to be stamped")
	}
}

func TestSubmitWithNoProcessableLinesFails(t *testing.T) {
	o := newTestOrchestrator()
	ctx := context.Background()

	j, err := o.Submit(ctx, "garbage.txt", []byte("not a settlement line at all\nanother one\n"), 40)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if j.Status != record.StatusFailed {
		t.Fatalf("expected FAILED when nothing processes, got %s", j.Status)
	}
	if j.ProcessedRecords != 0 || j.FailedRecords == 0 {
		t.Fatalf("expected only failed tallies, got processed=%d failed=%d", j.ProcessedRecords, j.FailedRecords)
	}
}

func TestRetryRequiresContent(t *testing.T) {
	o := newTestOrchestrator()
	ctx := context.Background()

	j, err := o.Submit(ctx, "garbage.txt", []byte("xxx\n"), 4)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if j.Status != record.StatusFailed {
		t.Fatalf("expected FAILED, got %s", j.Status)
	}

	if _, err := o.Retry(ctx, j.ID, nil); err == nil {
		t.Fatal("expected an error retrying without content")
	}
}

func TestRetrySucceedsAndResetsCounters(t *testing.T) {
	o := newTestOrchestrator()
	ctx := context.Background()

	j, err := o.Submit(ctx, "garbage.txt", []byte("xxx\n"), 4)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	retried, err := o.Retry(ctx, j.ID, []byte(vss110Line()))
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if retried.Status != record.StatusCompleted {
		t.Fatalf("expected COMPLETED after retry, got %s", retried.Status)
	}
	if retried.RetryCount != 1 {
		t.Fatalf("expected RetryCount 1, got %d", retried.RetryCount)
	}
	if retried.ProcessedRecords != 1 || retried.FailedRecords != 0 {
		t.Fatalf("expected counters reset to the retried run's own tallies, got processed=%d failed=%d", retried.ProcessedRecords, retried.FailedRecords)
	}
}

func TestRetryBeyondMaxRetriesIsRejected(t *testing.T) {
	cfg := config.PipelineConfig{BatchSize: 10, MaxRetries: 1}
	o := New(memory.New(), cfg, metrics.New(metrics.Config{}), logging.NewComponentLogger("test"))
	ctx := context.Background()

	j, err := o.Submit(ctx, "garbage.txt", []byte("xxx\n"), 4)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	j2, err := o.Retry(ctx, j.ID, []byte("xxx\n"))
	if err != nil {
		t.Fatalf("first retry: %v", err)
	}
	if j2.RetryCount != 1 {
		t.Fatalf("expected RetryCount 1, got %d", j2.RetryCount)
	}
	if _, err := o.Retry(ctx, j.ID, []byte("xxx\n")); err == nil {
		t.Fatal("expected the second retry to be rejected past MaxRetries")
	}
}

func TestCancelRejectedFromTerminalState(t *testing.T) {
	o := newTestOrchestrator()
	ctx := context.Background()

	j, err := o.Submit(ctx, "file.txt", []byte(vss110Line()), 168)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if j.Status != record.StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", j.Status)
	}

	_, err = o.Cancel(ctx, j.ID)
	if err == nil {
		t.Fatal("expected Cancel from a terminal state to be rejected")
	}
	if _, ok := err.(*verr.StateTransitionError); !ok {
		t.Fatalf("expected *verr.StateTransitionError, got %T", err)
	}
}

func TestStatsAggregatesAcrossJobs(t *testing.T) {
	o := newTestOrchestrator()
	ctx := context.Background()

	if _, err := o.Submit(ctx, "ok.txt", []byte(vss110Line()), 168); err != nil {
		t.Fatalf("Submit ok: %v", err)
	}
	if _, err := o.Submit(ctx, "bad.txt", []byte("xxx\n"), 4); err != nil {
		t.Fatalf("Submit bad: %v", err)
	}

	stats, err := o.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalJobs != 2 {
		t.Fatalf("expected 2 total jobs, got %d", stats.TotalJobs)
	}
	if stats.CompletedJobs != 1 || stats.FailedJobs != 1 {
		t.Fatalf("expected 1 completed and 1 failed, got completed=%d failed=%d", stats.CompletedJobs, stats.FailedJobs)
	}
	if stats.SuccessRate != 0.5 {
		t.Fatalf("expected success rate 0.5, got %f", stats.SuccessRate)
	}
}
