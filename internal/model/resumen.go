package model

import "github.com/shopspring/decimal"

// Estado values for a movimiento de caja.
// Once "cerrado" the movimiento is immutable server-side.
const (
	EstadoAbierto = "abierto"
	EstadoCerrado = "cerrado"
)

// ResumenCaja is the expected cash position of a movimiento de caja as
// reported by the POS backend: per-category sums plus the derived closing
// amount. This layer performs no aggregation of its own — the backend is
// the sole authority over these figures.
type ResumenCaja struct {
	MovimientoID  int64
	Ingresos      decimal.Decimal
	Egresos       decimal.Decimal
	Contado       decimal.Decimal
	Cobrado       decimal.Decimal
	Compras       decimal.Decimal
	Gastos        decimal.Decimal
	Credito       decimal.Decimal
	MontoApertura decimal.Decimal
	MontoCierre   decimal.Decimal
	Estado        string
}

// Cerrado reports whether the movimiento has already been closed.
func (r *ResumenCaja) Cerrado() bool { return r.Estado == EstadoCerrado }
