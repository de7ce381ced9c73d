package report

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/eviepay/vss-settlement/codec"
	"github.com/eviepay/vss-settlement/record"
	"github.com/eviepay/vss-settlement/store"
)

// Vss110Leaf is one (amountType, businessMode) bucket of the VSS-110
// stats tree (§4.5, property S1).
type Vss110Leaf struct {
	AmountType     string
	BusinessMode   string
	TransactionCount int64
	CreditAmount   decimal.Decimal
	DebitAmount    decimal.Decimal
	TotalAmount    decimal.Decimal
	TotalSign      codec.Sign
}

// Vss110Stats is the full two-level VSS-110 report tree.
type Vss110Stats struct {
	Leaves []Vss110Leaf
}

// vss110Signed is the flattened, signed leaf produced by pass one
// (§9 design note: flatten to leaves, then fold by grouping keys).
type vss110Signed struct {
	amountType   string
	businessMode string
	count        int64
	credit       decimal.Decimal
	debit        decimal.Decimal
	signedNet    decimal.Decimal
}

// VSS110Stats scans every VSS-110 row matching f and returns the
// amountType -> businessMode aggregate tree.
func VSS110Stats(ctx context.Context, st store.Store, f store.Filter) (*Vss110Stats, error) {
	rows, err := st.FindVss110ByFilter(ctx, f)
	if err != nil {
		return nil, err
	}
	return aggregateVss110(rows), nil
}

func aggregateVss110(rows []*record.Vss110Record) *Vss110Stats {
	leaves := flattenVss110(rows)
	return foldVss110(leaves)
}

// flattenVss110 is pass one: each row becomes one signed leaf, with no
// cross-row dependency -- this is what makes P7 (associativity across
// arbitrary input partitions) hold for free.
func flattenVss110(rows []*record.Vss110Record) []vss110Signed {
	out := make([]vss110Signed, 0, len(rows))
	for _, r := range rows {
		signedNet := r.NetAmount
		if r.AmountSign == codec.SignDebit {
			signedNet = signedNet.Neg()
		}
		out = append(out, vss110Signed{
			amountType:   string(r.AmountType),
			businessMode: string(r.BusinessMode),
			count:        r.TransactionCount,
			credit:       r.CreditAmount,
			debit:        r.DebitAmount,
			signedNet:    signedNet,
		})
	}
	return out
}

// foldVss110 is pass two: fold the flattened leaves by (amountType,
// businessMode), then reconstruct each bucket's signed-absolute total
// and CR/DB/empty sign at emission time.
func foldVss110(leaves []vss110Signed) *Vss110Stats {
	type key struct{ amountType, businessMode string }
	order := []key{}
	buckets := map[key]*Vss110Leaf{}

	for _, l := range leaves {
		k := key{l.amountType, l.businessMode}
		b, ok := buckets[k]
		if !ok {
			b = &Vss110Leaf{AmountType: l.amountType, BusinessMode: l.businessMode}
			buckets[k] = b
			order = append(order, k)
		}
		b.TransactionCount += l.count
		b.CreditAmount = b.CreditAmount.Add(l.credit)
		b.DebitAmount = b.DebitAmount.Add(l.debit)
		b.TotalAmount = b.TotalAmount.Add(l.signedNet)
	}

	out := &Vss110Stats{}
	for _, k := range order {
		b := buckets[k]
		switch {
		case b.TotalAmount.IsPositive():
			b.TotalSign = codec.SignCredit
		case b.TotalAmount.IsNegative():
			b.TotalSign = codec.SignDebit
			b.TotalAmount = b.TotalAmount.Neg()
		default:
			b.TotalSign = codec.SignEmpty
		}
		out.Leaves = append(out.Leaves, *b)
	}
	return out
}
