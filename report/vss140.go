package report

import (
	"context"

	"github.com/eviepay/vss-settlement/store"
)

// Vss140Leaf is the jurisdiction+routing leaf of a VSS-140 report (§4.5).
type Vss140Leaf struct {
	Jurisdiction      string
	JurisdictionLabel string
	Routing           string
	Aggregate
}

// Vss140CycleGroup is the businessTransactionCycle level.
type Vss140CycleGroup struct {
	Code   string
	Label  string
	Leaves []Vss140Leaf
	Aggregate
}

// Vss140TypeGroup is the businessTransactionType level.
type Vss140TypeGroup struct {
	Code   string
	Label  string
	Cycles []Vss140CycleGroup
	Aggregate
}

// Vss140ChargeGroup is the chargeTypeCode level.
type Vss140ChargeGroup struct {
	Code  string
	Label string
	Types []Vss140TypeGroup
	Aggregate
}

// Vss140ModeGroup is the businessMode level.
type Vss140ModeGroup struct {
	Code    string
	Label   string
	Charges []Vss140ChargeGroup
	Aggregate
}

// Vss140Report is the full VSS-140 (Visa charges) report tree.
type Vss140Report struct {
	Modes []Vss140ModeGroup
}

type vss140LeafAcc struct {
	jurisdiction, routing string
	Aggregate
}

type vss140CycleAcc struct {
	code   string
	leaves *orderedGroup[vss140LeafAcc]
	Aggregate
}

type vss140TypeAcc struct {
	code   string
	cycles *orderedGroup[vss140CycleAcc]
	Aggregate
}

type vss140ChargeAcc struct {
	code  string
	types *orderedGroup[vss140TypeAcc]
	Aggregate
}

type vss140ModeAcc struct {
	code    string
	charges *orderedGroup[vss140ChargeAcc]
	Aggregate
}

// VSS140Report joins the "140" subgroup-4 family with its TCR1
// children matching f and folds the result into a nested report tree:
// businessMode -> chargeTypeCode -> businessTransactionType -> cycle
// -> (jurisdiction, routing) leaf (§4.5).
func VSS140Report(ctx context.Context, st store.Store, f store.Filter) (*Vss140Report, error) {
	pairs, err := st.JoinSubgroup4WithTCR1(ctx, []string{"140"}, f)
	if err != nil {
		return nil, err
	}

	modes := newOrderedGroup[vss140ModeAcc]()
	for _, pair := range pairs {
		d := deriveTCR1(pair)

		mode := modes.get(d.BusinessMode, func() *vss140ModeAcc {
			return &vss140ModeAcc{code: d.BusinessMode, charges: newOrderedGroup[vss140ChargeAcc]()}
		})
		charge := mode.charges.get(d.ChargeTypeCode, func() *vss140ChargeAcc {
			return &vss140ChargeAcc{code: d.ChargeTypeCode, types: newOrderedGroup[vss140TypeAcc]()}
		})
		typ := charge.types.get(d.BusinessTransactionType, func() *vss140TypeAcc {
			return &vss140TypeAcc{code: d.BusinessTransactionType, cycles: newOrderedGroup[vss140CycleAcc]()}
		})
		cycle := typ.cycles.get(d.Cycle, func() *vss140CycleAcc {
			return &vss140CycleAcc{code: d.Cycle, leaves: newOrderedGroup[vss140LeafAcc]()}
		})
		leafKey := d.Jurisdiction + "|" + d.Routing
		leaf := cycle.leaves.get(leafKey, func() *vss140LeafAcc {
			return &vss140LeafAcc{jurisdiction: d.Jurisdiction, routing: d.Routing}
		})

		leaf.add(d)
		cycle.add(d)
		typ.add(d)
		charge.add(d)
		mode.add(d)
	}

	report := &Vss140Report{}
	for _, mode := range modes.values() {
		mg := Vss140ModeGroup{Code: mode.code, Label: businessModeLabel(mode.code)}
		for _, charge := range mode.charges.values() {
			cg := Vss140ChargeGroup{Code: charge.code, Label: charge.code}
			for _, typ := range charge.types.values() {
				tg := Vss140TypeGroup{Code: typ.code, Label: typ.code}
				for _, cycle := range typ.cycles.values() {
					cyg := Vss140CycleGroup{Code: cycle.code, Label: cycleLabel(cycle.code)}
					for _, leaf := range cycle.leaves.values() {
						leaf.finalize()
						cyg.Leaves = append(cyg.Leaves, Vss140Leaf{
							Jurisdiction: leaf.jurisdiction, JurisdictionLabel: jurisdictionLabel(leaf.jurisdiction),
							Routing:   leaf.routing,
							Aggregate: leaf.Aggregate,
						})
					}
					cycle.finalize()
					cyg.Aggregate = cycle.Aggregate
					tg.Cycles = append(tg.Cycles, cyg)
				}
				typ.finalize()
				tg.Aggregate = typ.Aggregate
				cg.Types = append(cg.Types, tg)
			}
			charge.finalize()
			cg.Aggregate = charge.Aggregate
			mg.Charges = append(mg.Charges, cg)
		}
		mode.finalize()
		mg.Aggregate = mode.Aggregate
		report.Modes = append(report.Modes, mg)
	}
	return report, nil
}
