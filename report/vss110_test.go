package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/eviepay/vss-settlement/codec"
	"github.com/eviepay/vss-settlement/record"
)

func amt(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAggregateVss110CreditMinusDebit(t *testing.T) {
	rows := []*record.Vss110Record{
		{
			AmountType: record.AmountTypeInterchange, BusinessMode: record.BusinessModeAcquirer,
			TransactionCount: 10,
			CreditAmount:     amt("500.00"), DebitAmount: amt("200.00"),
			NetAmount: amt("300.00"), AmountSign: codec.SignCredit,
		},
	}
	stats := aggregateVss110(rows)
	if len(stats.Leaves) != 1 {
		t.Fatalf("expected 1 leaf, got %d", len(stats.Leaves))
	}
	leaf := stats.Leaves[0]
	if !leaf.TotalAmount.Equal(amt("300.00")) || leaf.TotalSign != codec.SignCredit {
		t.Fatalf("expected 300.00 CR, got %s %s", leaf.TotalAmount, leaf.TotalSign)
	}
}

func TestAggregateVss110GroupsByAmountTypeAndBusinessMode(t *testing.T) {
	rows := []*record.Vss110Record{
		{AmountType: record.AmountTypeInterchange, BusinessMode: record.BusinessModeAcquirer, TransactionCount: 1, NetAmount: amt("10.00"), AmountSign: codec.SignCredit},
		{AmountType: record.AmountTypeInterchange, BusinessMode: record.BusinessModeAcquirer, TransactionCount: 2, NetAmount: amt("5.00"), AmountSign: codec.SignCredit},
		{AmountType: record.AmountTypeFee, BusinessMode: record.BusinessModeAcquirer, TransactionCount: 3, NetAmount: amt("1.00"), AmountSign: codec.SignCredit},
	}
	stats := aggregateVss110(rows)
	if len(stats.Leaves) != 2 {
		t.Fatalf("expected 2 leaves, got %d", len(stats.Leaves))
	}
	first := stats.Leaves[0]
	if first.AmountType != string(record.AmountTypeInterchange) || first.TransactionCount != 3 {
		t.Fatalf("expected merged interchange leaf with count 3, got %+v", first)
	}
	if !first.TotalAmount.Equal(amt("15.00")) {
		t.Fatalf("expected summed total 15.00, got %s", first.TotalAmount)
	}
}

func TestAggregateVss110NegativeNetEmitsDebitSign(t *testing.T) {
	rows := []*record.Vss110Record{
		{AmountType: record.AmountTypeFee, BusinessMode: record.BusinessModeIssuer, TransactionCount: 1, NetAmount: amt("50.00"), AmountSign: codec.SignDebit},
	}
	stats := aggregateVss110(rows)
	leaf := stats.Leaves[0]
	if leaf.TotalSign != codec.SignDebit {
		t.Fatalf("expected DB sign, got %s", leaf.TotalSign)
	}
	if !leaf.TotalAmount.Equal(amt("50.00")) {
		t.Fatalf("expected absolute total 50.00, got %s", leaf.TotalAmount)
	}
}

func TestAggregateVss110ZeroNetEmitsEmptySign(t *testing.T) {
	rows := []*record.Vss110Record{
		{AmountType: record.AmountTypeTotal, BusinessMode: record.BusinessModeTotal, TransactionCount: 0, NetAmount: amt("0"), AmountSign: codec.SignCredit},
	}
	stats := aggregateVss110(rows)
	if stats.Leaves[0].TotalSign != codec.SignEmpty {
		t.Fatalf("expected empty sign for a zero total, got %s", stats.Leaves[0].TotalSign)
	}
}

// TestAggregateVss110Associativity pins down P7: partitioning the same
// rows into several slices (as separate batch-sized files would) and
// folding each partition's flattened leaves in any order must produce
// the same totals as one pass over every row.
func TestAggregateVss110Associativity(t *testing.T) {
	rows := []*record.Vss110Record{
		{AmountType: record.AmountTypeInterchange, BusinessMode: record.BusinessModeAcquirer, TransactionCount: 4, NetAmount: amt("40.00"), AmountSign: codec.SignCredit},
		{AmountType: record.AmountTypeInterchange, BusinessMode: record.BusinessModeAcquirer, TransactionCount: 6, NetAmount: amt("20.00"), AmountSign: codec.SignDebit},
		{AmountType: record.AmountTypeInterchange, BusinessMode: record.BusinessModeAcquirer, TransactionCount: 1, NetAmount: amt("5.00"), AmountSign: codec.SignCredit},
	}
	whole := aggregateVss110(rows)

	combined := append(flattenVss110(rows[:1]), flattenVss110(rows[1:])...)
	reFolded := foldVss110(combined)

	if !whole.Leaves[0].TotalAmount.Equal(reFolded.Leaves[0].TotalAmount) {
		t.Fatalf("partitioned fold diverged from whole fold: %s vs %s", reFolded.Leaves[0].TotalAmount, whole.Leaves[0].TotalAmount)
	}
	if whole.Leaves[0].TotalSign != reFolded.Leaves[0].TotalSign {
		t.Fatalf("partitioned fold sign diverged: %s vs %s", reFolded.Leaves[0].TotalSign, whole.Leaves[0].TotalSign)
	}
	if whole.Leaves[0].TransactionCount != reFolded.Leaves[0].TransactionCount {
		t.Fatalf("partitioned fold count diverged: %d vs %d", reFolded.Leaves[0].TransactionCount, whole.Leaves[0].TransactionCount)
	}
}
