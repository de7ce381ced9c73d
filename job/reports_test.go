package job

import (
	"context"
	"testing"

	"github.com/eviepay/vss-settlement/store"
)

// TestReportsReflectPipelineSubmittedData is an end-to-end pin: submit
// a small mixed EPIN blob through the orchestrator and confirm each
// read-side report surfaces what the pipeline actually persisted.
func TestReportsReflectPipelineSubmittedData(t *testing.T) {
	o := newTestOrchestrator()
	ctx := context.Background()

	blob := vss110Line() + "\n" +
		subgroup4Line("120") + "\n" + tcr1Line() + "\n" +
		subgroup4Line("130") + "\n" + tcr1Line() + "\n" +
		subgroup4Line("140") + "\n" + tcr1Line() + "\n"
	j, err := o.Submit(ctx, "mixed.txt", []byte(blob), int64(len(blob)))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if j.ProcessedRecords != 7 {
		t.Fatalf("expected all 7 lines processed, got %d", j.ProcessedRecords)
	}

	stats, err := o.Vss110Stats(ctx, store.Filter{})
	if err != nil {
		t.Fatalf("Vss110Stats: %v", err)
	}
	if stats == nil {
		t.Fatal("expected non-nil VSS-110 stats")
	}

	r120, err := o.Vss120Report(ctx, store.Filter{})
	if err != nil {
		t.Fatalf("Vss120Report: %v", err)
	}
	if len(r120.Modes) == 0 {
		t.Fatal("expected the 120 pair to surface in the VSS-120 report")
	}

	r130, err := o.Vss130Report(ctx, store.Filter{})
	if err != nil {
		t.Fatalf("Vss130Report: %v", err)
	}
	if len(r130.Modes) == 0 {
		t.Fatal("expected the 130 pair to surface in the VSS-130 report")
	}

	r140, err := o.Vss140Report(ctx, store.Filter{})
	if err != nil {
		t.Fatalf("Vss140Report: %v", err)
	}
	if len(r140.Modes) == 0 {
		t.Fatal("expected the 140 pair to surface in the VSS-140 report")
	}
}
