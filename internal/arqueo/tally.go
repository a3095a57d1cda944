// Package arqueo implements the till reconciliation arithmetic: tallying a
// physical bill count and comparing it against the system-expected cash
// position. Everything here is pure — no I/O, no hidden state.
package arqueo

import (
	"arqueogw/internal/model"

	"github.com/shopspring/decimal"
)

// Total computes the counted cash total of an arqueo:
//
//	total = Σ(denominación × cantidad) + Σ(monto de cada detalle)
//
// Missing denominations count as zero bills; blank detail slots contribute
// zero. Recomputing with identical inputs always yields the same total.
func Total(conteo model.Conteo, detalles model.Detalles) decimal.Decimal {
	total := decimal.Zero
	for _, d := range model.Denominaciones {
		n := conteo[d]
		if n == 0 {
			continue
		}
		total = total.Add(decimal.NewFromInt(int64(d)).Mul(decimal.NewFromInt(int64(n))))
	}
	for _, det := range detalles {
		total = total.Add(det.Monto)
	}
	return total
}
