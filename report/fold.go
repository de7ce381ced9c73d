package report

import (
	"github.com/shopspring/decimal"

	"github.com/eviepay/vss-settlement/codec"
	"github.com/eviepay/vss-settlement/store"
)

// TCR1Derived is the flattened, signed leaf produced by pass one over
// a (TCR0, TCR1) pair (§4.5 "per-TCR1 derivation", uniform across the
// VSS-120/130/140 families).
type TCR1Derived struct {
	BusinessMode            string
	BusinessTransactionType string
	Cycle                   string
	RateTableID             string
	ChargeTypeCode          string
	Jurisdiction            string
	Routing                 string
	FeeLevelDescriptor      string

	Count    int64
	Clearing decimal.Decimal
	Credits  decimal.Decimal
	Debits   decimal.Decimal
}

// deriveTCR1 computes the per-TCR1 fields from a joined (TCR0, TCR1)
// pair. A nil TCR1 (a TCR0 with no persisted child) derives a
// zero-amount leaf -- it still contributes its grouping keys to the
// tree, with nothing to aggregate.
func deriveTCR1(pair store.Subgroup4Pair) TCR1Derived {
	tcr0 := pair.TCR0
	d := TCR1Derived{
		BusinessMode:            string(tcr0.BusinessMode),
		BusinessTransactionType: tcr0.BusinessTransactionType,
		Cycle:                   tcr0.BusinessTransactionCycle,
		RateTableID:             "",
		ChargeTypeCode:          tcr0.ChargeTypeCode,
		Jurisdiction:            tcr0.JurisdictionCode,
		Routing: routingLabel(
			tcr0.SourceRegionCode, tcr0.DestinationRegionCode,
			tcr0.SourceCountryCode, tcr0.DestinationCountryCode,
		),
		FeeLevelDescriptor: tcr0.FeeLevelDescriptor,
	}

	tcr1 := pair.TCR1
	if tcr1 == nil {
		return d
	}
	d.RateTableID = tcr1.RateTableID
	d.Count = tcr1.FirstCount
	d.Clearing = codec.Signed(tcr1.FirstAmount, tcr1.FirstSign)

	credits := tcr1.SecondAmount
	if tcr1.SecondSign == codec.SignDebit {
		credits = credits.Neg()
	}
	d.Credits = credits

	debits := tcr1.ThirdAmount
	if tcr1.ThirdSign == codec.SignCredit {
		debits = debits.Neg()
	}
	d.Debits = debits

	return d
}

// Aggregate is the accumulator carried by every node of a report tree:
// raw signed sums while folding, reconstructed to an absolute net
// amount plus sign only when the node is finalized (§4.5, §9 design
// note: fold first, reconstruct sign at emission).
type Aggregate struct {
	Count          int64
	ClearingAmount decimal.Decimal
	CreditsAmount  decimal.Decimal
	DebitsAmount   decimal.Decimal
	NetAmount      decimal.Decimal
	NetSign        codec.Sign
}

func (a *Aggregate) add(d TCR1Derived) {
	a.Count += d.Count
	a.ClearingAmount = a.ClearingAmount.Add(d.Clearing)
	a.CreditsAmount = a.CreditsAmount.Add(d.Credits)
	a.DebitsAmount = a.DebitsAmount.Add(d.Debits)
}

// finalize computes |net| and its sign from the accumulated signed
// credits/debits. Safe to call repeatedly; it recomputes from the raw
// sums rather than mutating them, so fold order never affects P7.
func (a *Aggregate) finalize() {
	net := a.CreditsAmount.Sub(a.DebitsAmount)
	if net.IsNegative() {
		a.NetSign = codec.SignDebit
		net = net.Neg()
	} else {
		a.NetSign = codec.SignCredit
	}
	a.NetAmount = net
}

// orderedGroup buckets items by a string key while preserving the
// order each key was first seen in -- the join query already orders
// rows by (businessMode, businessTransactionType, businessTransactionCycle),
// so preserving first-seen order keeps that ordering all the way up
// the tree without a separate sort pass.
type orderedGroup[T any] struct {
	order []string
	items map[string]*T
}

func newOrderedGroup[T any]() *orderedGroup[T] {
	return &orderedGroup[T]{items: make(map[string]*T)}
}

func (g *orderedGroup[T]) get(code string, newFn func() *T) *T {
	if v, ok := g.items[code]; ok {
		return v
	}
	v := newFn()
	g.items[code] = v
	g.order = append(g.order, code)
	return v
}

func (g *orderedGroup[T]) values() []*T {
	out := make([]*T, 0, len(g.order))
	for _, code := range g.order {
		out = append(out, g.items[code])
	}
	return out
}
