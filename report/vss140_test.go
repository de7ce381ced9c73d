package report

import (
	"context"
	"testing"

	"github.com/eviepay/vss-settlement/codec"
	"github.com/eviepay/vss-settlement/record"
	"github.com/eviepay/vss-settlement/store"
	"github.com/eviepay/vss-settlement/store/memory"
)

func TestVSS140ReportGroupsByChargeTypeCycleAndLeaf(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	tcr0 := &record.Vss120LikeRecord{
		BusinessMode: record.BusinessModeAcquirer, BusinessTransactionType: "03",
		BusinessTransactionCycle: "3", ChargeTypeCode: "002", JurisdictionCode: "02",
		SourceCountryCode: "840", DestinationCountryCode: "124",
	}
	tcr1 := &record.Vss120Tcr1Record{
		FirstCount: 5, FirstAmount: amt("50.00"), FirstSign: codec.SignCredit,
		SecondAmount: amt("30.00"), SecondSign: codec.SignCredit,
		ThirdAmount: amt("10.00"), ThirdSign: codec.SignDebit,
	}
	insertSubgroup4Pair(t, st, "job-1", 1, "140", tcr0, tcr1)

	report, err := VSS140Report(ctx, st, store.Filter{})
	if err != nil {
		t.Fatalf("VSS140Report: %v", err)
	}
	if len(report.Modes) != 1 {
		t.Fatalf("expected 1 mode group, got %d", len(report.Modes))
	}
	mode := report.Modes[0]
	if len(mode.Charges) != 1 || mode.Charges[0].Code != "002" {
		t.Fatalf("expected a single 002 charge group, got %+v", mode.Charges)
	}
	cycle := mode.Charges[0].Types[0].Cycles[0]
	if cycle.Code != "3" || cycle.Label != "Retrieval Requests" {
		t.Fatalf("unexpected cycle grouping: %+v", cycle)
	}
	leaf := cycle.Leaves[0]
	if leaf.Jurisdiction != "02" || leaf.JurisdictionLabel != "Inter-Regional" {
		t.Fatalf("unexpected leaf jurisdiction label: %+v", leaf)
	}
	if leaf.Count != 5 || !leaf.NetAmount.Equal(amt("20.00")) || leaf.NetSign != codec.SignCredit {
		t.Fatalf("expected count 5 net 20.00 CR, got count=%d net=%s %s", leaf.Count, leaf.NetAmount, leaf.NetSign)
	}
}

func TestVSS140ReportOnlyJoinsReportID140(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	insertSubgroup4Pair(t, st, "job-1", 1, "120",
		&record.Vss120LikeRecord{BusinessMode: record.BusinessModeAcquirer, BusinessTransactionType: "05", BusinessTransactionCycle: "0"},
		&record.Vss120Tcr1Record{FirstCount: 1, FirstAmount: amt("1.00"), FirstSign: codec.SignCredit})

	report, err := VSS140Report(ctx, st, store.Filter{})
	if err != nil {
		t.Fatalf("VSS140Report: %v", err)
	}
	if len(report.Modes) != 0 {
		t.Fatalf("expected no VSS-140 rows from a 120 pair, got %d", len(report.Modes))
	}
}
