package report

import (
	"context"

	"github.com/eviepay/vss-settlement/store"
)

// Vss120Leaf is the cycle+rateTableId leaf of a VSS-120 report (§4.5).
type Vss120Leaf struct {
	Cycle       string
	CycleLabel  string
	RateTableID string
	Aggregate
}

// Vss120TypeGroup is the businessTransactionType level.
type Vss120TypeGroup struct {
	Code   string
	Label  string
	Leaves []Vss120Leaf
	Aggregate
}

// Vss120ModeGroup is the businessMode level.
type Vss120ModeGroup struct {
	Code  string
	Label string
	Types []Vss120TypeGroup
	Aggregate
}

// Vss120Report is the full VSS-120 (interchange) report tree.
type Vss120Report struct {
	Modes []Vss120ModeGroup
}

type vss120LeafAcc struct {
	cycle, rateTableID string
	Aggregate
}

type vss120TypeAcc struct {
	code   string
	leaves *orderedGroup[vss120LeafAcc]
	Aggregate
}

type vss120ModeAcc struct {
	code  string
	types *orderedGroup[vss120TypeAcc]
	Aggregate
}

// VSS120Report joins the "120" subgroup-4 family with its TCR1
// children matching f and folds the result into a nested report tree.
func VSS120Report(ctx context.Context, st store.Store, f store.Filter) (*Vss120Report, error) {
	pairs, err := st.JoinSubgroup4WithTCR1(ctx, []string{"120"}, f)
	if err != nil {
		return nil, err
	}

	modes := newOrderedGroup[vss120ModeAcc]()
	for _, pair := range pairs {
		d := deriveTCR1(pair)

		mode := modes.get(d.BusinessMode, func() *vss120ModeAcc {
			return &vss120ModeAcc{code: d.BusinessMode, types: newOrderedGroup[vss120TypeAcc]()}
		})
		typ := mode.types.get(d.BusinessTransactionType, func() *vss120TypeAcc {
			return &vss120TypeAcc{code: d.BusinessTransactionType, leaves: newOrderedGroup[vss120LeafAcc]()}
		})
		leaf := typ.leaves.get(d.Cycle+"|"+d.RateTableID, func() *vss120LeafAcc {
			return &vss120LeafAcc{cycle: d.Cycle, rateTableID: d.RateTableID}
		})

		leaf.add(d)
		typ.add(d)
		mode.add(d)
	}

	report := &Vss120Report{}
	for _, mode := range modes.values() {
		mg := Vss120ModeGroup{Code: mode.code, Label: businessModeLabel(mode.code)}
		for _, typ := range mode.types.values() {
			tg := Vss120TypeGroup{Code: typ.code, Label: typ.code}
			for _, leaf := range typ.leaves.values() {
				leaf.finalize()
				tg.Leaves = append(tg.Leaves, Vss120Leaf{
					Cycle: leaf.cycle, CycleLabel: cycleLabel(leaf.cycle),
					RateTableID: leaf.rateTableID, Aggregate: leaf.Aggregate,
				})
			}
			typ.finalize()
			tg.Aggregate = typ.Aggregate
			mg.Types = append(mg.Types, tg)
		}
		mode.finalize()
		mg.Aggregate = mode.Aggregate
		report.Modes = append(report.Modes, mg)
	}
	return report, nil
}
