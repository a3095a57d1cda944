package dto

import (
	"arqueogw/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// DetalleRequest is one free-form cash item (voucher, IOU) of the count.
type DetalleRequest struct {
	Etiqueta string          `json:"etiqueta" validate:"max=120"`
	Monto    decimal.Decimal `json:"monto"    validate:"min=0"`
}

// CierreRequest carries the operator's physical count. Conteo keys are
// denomination face values; omitted denominations count as zero. Up to
// five detail lines — the backend persists exactly five slots, blanks
// padded by the service.
type CierreRequest struct {
	Conteo   map[model.Denominacion]int `json:"conteo"`
	Detalles []DetalleRequest           `json:"detalles" validate:"max=5,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// DiferenciaResponse is the comparator breakdown. Returned both on a
// successful close (cuadrado) and inside the 409 mismatch payload, so the
// operator always sees esperado vs contado vs diferencia.
type DiferenciaResponse struct {
	Clasificacion string          `json:"clasificacion"` // cuadrado | sobrante | faltante
	Diferencia    decimal.Decimal `json:"diferencia"`
	Contado       decimal.Decimal `json:"contado"`
	Esperado      decimal.Decimal `json:"esperado"`
}

// ArqueoResponse is the stored reconciliation record of a cerrado
// movimiento, returned verbatim for read-only display.
type ArqueoResponse struct {
	ID           int64                      `json:"id"`
	MovimientoID int64                      `json:"idmovimiento"`
	Conteo       map[model.Denominacion]int `json:"conteo"`
	Detalles     []model.Detalle            `json:"detalles"`
	Total        decimal.Decimal            `json:"total"`
}

// ResumenCajaResponse mirrors the backend's expected cash position. Arqueo
// is populated only when the movimiento is cerrado.
type ResumenCajaResponse struct {
	MovimientoID  int64           `json:"idmovimiento"`
	Ingresos      decimal.Decimal `json:"ingresos"`
	Egresos       decimal.Decimal `json:"egresos"`
	Contado       decimal.Decimal `json:"contado"`
	Cobrado       decimal.Decimal `json:"cobrado"`
	Compras       decimal.Decimal `json:"compras"`
	Gastos        decimal.Decimal `json:"gastos"`
	Credito       decimal.Decimal `json:"credito"`
	MontoApertura decimal.Decimal `json:"monto_apertura"`
	MontoCierre   decimal.Decimal `json:"monto_cierre"`
	Estado        string          `json:"estado"`
	Arqueo        *ArqueoResponse `json:"arqueo,omitempty"`
}

// MismatchResponse is the 409 payload when the count does not match the
// expected total. It carries the full breakdown, not a generic error
// string — the operator recounts against these numbers.
type MismatchResponse struct {
	Detail     string             `json:"detail"`
	Code       string             `json:"code"`
	Diferencia DiferenciaResponse `json:"diferencia"`
}

// CierreResponse is returned after a successful close.
type CierreResponse struct {
	MovimientoID int64              `json:"idmovimiento"`
	Estado       string             `json:"estado"`
	Total        decimal.Decimal    `json:"total"`
	Diferencia   DiferenciaResponse `json:"diferencia"`
}
