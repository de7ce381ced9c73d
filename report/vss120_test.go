package report

import (
	"context"
	"testing"

	"github.com/eviepay/vss-settlement/codec"
	"github.com/eviepay/vss-settlement/record"
	"github.com/eviepay/vss-settlement/store"
	"github.com/eviepay/vss-settlement/store/memory"
)

func insertSubgroup4Pair(t *testing.T, st store.Store, jobID string, line int, reportID string, tcr0 *record.Vss120LikeRecord, tcr1 *record.Vss120Tcr1Record) {
	t.Helper()
	tcr0.JobID = jobID
	tcr0.ID = "tcr0-" + reportID + "-" + jobID + "-" + string(rune('a'+line))
	tcr0.LineNumber = line
	tcr0.ReportIDNumber = reportID
	tcr0.ReportGroup, tcr0.ReportSubgroup = "V", "4"
	if err := st.InsertSubgroup4(context.Background(), tcr0); err != nil {
		t.Fatalf("InsertSubgroup4: %v", err)
	}
	if tcr1 == nil {
		return
	}
	tcr1.JobID = jobID
	tcr1.ID = tcr0.ID + "-tcr1"
	tcr1.LineNumber = line + 1
	tcr1.ParentTCR0ID = tcr0.ID
	tcr1.ParentReportNumber = reportID
	if err := st.InsertTCR1(context.Background(), tcr1); err != nil {
		t.Fatalf("InsertTCR1: %v", err)
	}
}

func TestVSS120ReportGroupsByModeTypeLeaf(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	insertSubgroup4Pair(t, st, "job-1", 1, "120",
		&record.Vss120LikeRecord{BusinessMode: record.BusinessModeAcquirer, BusinessTransactionType: "05", BusinessTransactionCycle: "1"},
		&record.Vss120Tcr1Record{RateTableID: "RT1", FirstCount: 50, FirstAmount: amt("1000.00"), FirstSign: codec.SignCredit,
			SecondAmount: amt("200.00"), SecondSign: codec.SignCredit, ThirdAmount: amt("50.00"), ThirdSign: codec.SignDebit})

	insertSubgroup4Pair(t, st, "job-1", 3, "120",
		&record.Vss120LikeRecord{BusinessMode: record.BusinessModeAcquirer, BusinessTransactionType: "05", BusinessTransactionCycle: "1"},
		&record.Vss120Tcr1Record{RateTableID: "RT1", FirstCount: 10, FirstAmount: amt("100.00"), FirstSign: codec.SignCredit,
			SecondAmount: amt("20.00"), SecondSign: codec.SignCredit, ThirdAmount: amt("5.00"), ThirdSign: codec.SignDebit})

	report, err := VSS120Report(ctx, st, store.Filter{})
	if err != nil {
		t.Fatalf("VSS120Report: %v", err)
	}
	if len(report.Modes) != 1 {
		t.Fatalf("expected 1 mode group, got %d", len(report.Modes))
	}
	mode := report.Modes[0]
	if mode.Code != string(record.BusinessModeAcquirer) || mode.Label != "Acquirer" {
		t.Fatalf("unexpected mode group: %+v", mode)
	}
	if len(mode.Types) != 1 || len(mode.Types[0].Leaves) != 1 {
		t.Fatalf("expected a single merged leaf, got %+v", mode.Types)
	}
	leaf := mode.Types[0].Leaves[0]
	if leaf.Count != 60 {
		t.Fatalf("expected merged count 60, got %d", leaf.Count)
	}
	if !leaf.NetAmount.Equal(amt("165.00")) || leaf.NetSign != codec.SignCredit {
		t.Fatalf("expected net 165.00 CR, got %s %s", leaf.NetAmount, leaf.NetSign)
	}
}

// TestVSS120ReportE3WorkedExampleResolvesOriginalsLabel reproduces the
// documented worked example verbatim (destinationId 123456, businessMode
// "1", businessTransactionType "AA", businessTransactionCycle "1",
// firstCount=50, firstAmount=1000.00 CR, secondAmount=200.00 CR,
// thirdAmount=50.00 DB) and pins that cycle code "1" resolves to the
// label "Originals", not a raw passthrough or another code's label.
func TestVSS120ReportE3WorkedExampleResolvesOriginalsLabel(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	insertSubgroup4Pair(t, st, "job-1", 1, "120",
		&record.Vss120LikeRecord{DestinationID: "123456", BusinessMode: record.BusinessModeAcquirer, BusinessTransactionType: "AA", BusinessTransactionCycle: "1"},
		&record.Vss120Tcr1Record{FirstCount: 50, FirstAmount: amt("1000.00"), FirstSign: codec.SignCredit,
			SecondAmount: amt("200.00"), SecondSign: codec.SignCredit, ThirdAmount: amt("50.00"), ThirdSign: codec.SignDebit})

	report, err := VSS120Report(ctx, st, store.Filter{})
	if err != nil {
		t.Fatalf("VSS120Report: %v", err)
	}
	if len(report.Modes) != 1 || len(report.Modes[0].Types) != 1 || len(report.Modes[0].Types[0].Leaves) != 1 {
		t.Fatalf("expected a single mode/type/leaf, got %+v", report.Modes)
	}
	leaf := report.Modes[0].Types[0].Leaves[0]
	if leaf.CycleLabel != "Originals" {
		t.Fatalf("expected cycle %q to resolve to label %q, got %q", leaf.Cycle, "Originals", leaf.CycleLabel)
	}
	if leaf.Count != 50 {
		t.Fatalf("expected count 50, got %d", leaf.Count)
	}
	if !leaf.ClearingAmount.Equal(amt("1000.00")) {
		t.Fatalf("expected clearing 1000.00, got %s", leaf.ClearingAmount)
	}
	if !leaf.CreditsAmount.Equal(amt("200.00")) {
		t.Fatalf("expected credits 200.00, got %s", leaf.CreditsAmount)
	}
	if !leaf.DebitsAmount.Equal(amt("50.00")) {
		t.Fatalf("expected debits 50.00, got %s", leaf.DebitsAmount)
	}
	if !leaf.NetAmount.Equal(amt("150.00")) || leaf.NetSign != codec.SignCredit {
		t.Fatalf("expected net 150.00 CR, got %s %s", leaf.NetAmount, leaf.NetSign)
	}
}

func TestVSS120ReportSkipsOtherReportFamilies(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	insertSubgroup4Pair(t, st, "job-1", 1, "130",
		&record.Vss120LikeRecord{BusinessMode: record.BusinessModeIssuer, BusinessTransactionType: "01", BusinessTransactionCycle: "1"},
		&record.Vss120Tcr1Record{FirstCount: 1, FirstAmount: amt("1.00"), FirstSign: codec.SignCredit})

	report, err := VSS120Report(ctx, st, store.Filter{})
	if err != nil {
		t.Fatalf("VSS120Report: %v", err)
	}
	if len(report.Modes) != 0 {
		t.Fatalf("expected no VSS-120 rows, got %d modes", len(report.Modes))
	}
}

func TestVSS120ReportHandlesOrphanTCR0WithNoChild(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	insertSubgroup4Pair(t, st, "job-1", 1, "120",
		&record.Vss120LikeRecord{BusinessMode: record.BusinessModeAcquirer, BusinessTransactionType: "05", BusinessTransactionCycle: "1"},
		nil)

	report, err := VSS120Report(ctx, st, store.Filter{})
	if err != nil {
		t.Fatalf("VSS120Report: %v", err)
	}
	if len(report.Modes) != 1 || len(report.Modes[0].Types[0].Leaves) != 1 {
		t.Fatalf("a no-data TCR0 should still contribute a zero leaf, got %+v", report.Modes)
	}
	leaf := report.Modes[0].Types[0].Leaves[0]
	if leaf.Count != 0 || leaf.NetSign != codec.SignCredit {
		t.Fatalf("expected zero count and CR sign for an empty leaf, got %+v", leaf)
	}
}
