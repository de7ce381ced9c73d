package report

import (
	"context"

	"github.com/eviepay/vss-settlement/store"
)

// Vss130Leaf is the cycle+jurisdiction+routing+feeLevel leaf of a
// VSS-130 report (§4.5).
type Vss130Leaf struct {
	Cycle              string
	CycleLabel         string
	Jurisdiction       string
	JurisdictionLabel  string
	Routing            string
	FeeLevelDescriptor string
	Aggregate
}

// Vss130TypeGroup is the businessTransactionType level.
type Vss130TypeGroup struct {
	Code   string
	Label  string
	Leaves []Vss130Leaf
	Aggregate
}

// Vss130ModeGroup is the businessMode level.
type Vss130ModeGroup struct {
	Code  string
	Label string
	Types []Vss130TypeGroup
	Aggregate
}

// Vss130Report is the full VSS-130 (reimbursement fee) report tree.
type Vss130Report struct {
	Modes []Vss130ModeGroup
}

type vss130LeafAcc struct {
	cycle, jurisdiction, routing, feeLevel string
	Aggregate
}

type vss130TypeAcc struct {
	code   string
	leaves *orderedGroup[vss130LeafAcc]
	Aggregate
}

type vss130ModeAcc struct {
	code  string
	types *orderedGroup[vss130TypeAcc]
	Aggregate
}

// VSS130Report joins the "130" subgroup-4 family with its TCR1
// children matching f and folds the result into a nested report tree.
func VSS130Report(ctx context.Context, st store.Store, f store.Filter) (*Vss130Report, error) {
	pairs, err := st.JoinSubgroup4WithTCR1(ctx, []string{"130"}, f)
	if err != nil {
		return nil, err
	}

	modes := newOrderedGroup[vss130ModeAcc]()
	for _, pair := range pairs {
		d := deriveTCR1(pair)

		mode := modes.get(d.BusinessMode, func() *vss130ModeAcc {
			return &vss130ModeAcc{code: d.BusinessMode, types: newOrderedGroup[vss130TypeAcc]()}
		})
		typ := mode.types.get(d.BusinessTransactionType, func() *vss130TypeAcc {
			return &vss130TypeAcc{code: d.BusinessTransactionType, leaves: newOrderedGroup[vss130LeafAcc]()}
		})
		leafKey := d.Cycle + "|" + d.Jurisdiction + "|" + d.Routing + "|" + d.FeeLevelDescriptor
		leaf := typ.leaves.get(leafKey, func() *vss130LeafAcc {
			return &vss130LeafAcc{cycle: d.Cycle, jurisdiction: d.Jurisdiction, routing: d.Routing, feeLevel: d.FeeLevelDescriptor}
		})

		leaf.add(d)
		typ.add(d)
		mode.add(d)
	}

	report := &Vss130Report{}
	for _, mode := range modes.values() {
		mg := Vss130ModeGroup{Code: mode.code, Label: businessModeLabel(mode.code)}
		for _, typ := range mode.types.values() {
			tg := Vss130TypeGroup{Code: typ.code, Label: typ.code}
			for _, leaf := range typ.leaves.values() {
				leaf.finalize()
				tg.Leaves = append(tg.Leaves, Vss130Leaf{
					Cycle: leaf.cycle, CycleLabel: cycleLabel(leaf.cycle),
					Jurisdiction: leaf.jurisdiction, JurisdictionLabel: jurisdictionLabel(leaf.jurisdiction),
					Routing: leaf.routing, FeeLevelDescriptor: leaf.feeLevel,
					Aggregate: leaf.Aggregate,
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
