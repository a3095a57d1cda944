package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Denominacion is a bill face value counted during an arqueo.
// The set is fixed by the backend wire contract (fields a50 … a100000).
type Denominacion int64

// Denominaciones lists every denomination the backend knows, ascending.
var Denominaciones = []Denominacion{50, 100, 500, 1000, 2000, 5000, 10000, 20000, 50000, 100000}

// Conteo maps each denomination to the number of bills counted.
// A missing key means zero bills of that denomination.
type Conteo map[Denominacion]int

// Normalizar returns a copy of c with every known denomination present
// (missing keys default to 0). Unknown denominations and negative counts
// are rejected — they cannot be expressed on the wire.
func (c Conteo) Normalizar() (Conteo, error) {
	out := make(Conteo, len(Denominaciones))
	for _, d := range Denominaciones {
		out[d] = 0
	}
	for d, n := range c {
		if _, ok := out[d]; !ok {
			return nil, fmt.Errorf("denominación desconocida: %d", d)
		}
		if n < 0 {
			return nil, fmt.Errorf("cantidad negativa para denominación %d: %d", d, n)
		}
		out[d] = n
	}
	return out, nil
}

// NumDetalles is the fixed number of free-form detail slots on an arqueo.
// The backend persists exactly five (detalle1..detalle5 / monto1..monto5).
const NumDetalles = 5

// Detalle is one miscellaneous cash item not covered by bill denominations
// (vouchers, IOUs). An empty Etiqueta with zero Monto is an unused slot.
type Detalle struct {
	Etiqueta string          `json:"etiqueta"`
	Monto    decimal.Decimal `json:"monto"`
}

// Detalles is the fixed-arity ordered list of detail slots.
type Detalles [NumDetalles]Detalle

// RegistroArqueo is the reconciliation record persisted at close time.
// Exactly one exists per closed movimiento; it is never mutated afterwards.
type RegistroArqueo struct {
	ID           int64
	MovimientoID int64
	Conteo       Conteo
	Detalles     Detalles
	Total        decimal.Decimal
}
