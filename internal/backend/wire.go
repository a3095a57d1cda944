package backend

// wire.go — flat wire shapes of the POS backend and their conversion to the
// structured model. The backend persists the arqueo as ten named
// denomination fields (a50 … a100000) plus five label/amount pairs
// (detalle1..5 / monto1..5); internally we work with a denomination map and
// a fixed-arity slot array, so the mapping lives here and nowhere else.

import (
	"arqueogw/internal/model"

	"github.com/shopspring/decimal"
)

func init() {
	// The POS backend speaks plain JSON numbers, not quoted decimals.
	decimal.MarshalJSONWithoutQuotes = true
}

type resumenWire struct {
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
}

func (w *resumenWire) toModel(movimientoID int64) *model.ResumenCaja {
	return &model.ResumenCaja{
		MovimientoID:  movimientoID,
		Ingresos:      w.Ingresos,
		Egresos:       w.Egresos,
		Contado:       w.Contado,
		Cobrado:       w.Cobrado,
		Compras:       w.Compras,
		Gastos:        w.Gastos,
		Credito:       w.Credito,
		MontoApertura: w.MontoApertura,
		MontoCierre:   w.MontoCierre,
		Estado:        w.Estado,
	}
}

type arqueoWire struct {
	ID           int64           `json:"id,omitempty"`
	IDMovimiento int64           `json:"idmovimiento"`
	Total        decimal.Decimal `json:"total"`

	A50     int `json:"a50"`
	A100    int `json:"a100"`
	A500    int `json:"a500"`
	A1000   int `json:"a1000"`
	A2000   int `json:"a2000"`
	A5000   int `json:"a5000"`
	A10000  int `json:"a10000"`
	A20000  int `json:"a20000"`
	A50000  int `json:"a50000"`
	A100000 int `json:"a100000"`

	Detalle1 string          `json:"detalle1"`
	Detalle2 string          `json:"detalle2"`
	Detalle3 string          `json:"detalle3"`
	Detalle4 string          `json:"detalle4"`
	Detalle5 string          `json:"detalle5"`
	Monto1   decimal.Decimal `json:"monto1"`
	Monto2   decimal.Decimal `json:"monto2"`
	Monto3   decimal.Decimal `json:"monto3"`
	Monto4   decimal.Decimal `json:"monto4"`
	Monto5   decimal.Decimal `json:"monto5"`
}

func (w *arqueoWire) toModel() *model.RegistroArqueo {
	return &model.RegistroArqueo{
		ID:           w.ID,
		MovimientoID: w.IDMovimiento,
		Total:        w.Total,
		Conteo: model.Conteo{
			50: w.A50, 100: w.A100, 500: w.A500, 1000: w.A1000, 2000: w.A2000,
			5000: w.A5000, 10000: w.A10000, 20000: w.A20000, 50000: w.A50000, 100000: w.A100000,
		},
		Detalles: model.Detalles{
			{Etiqueta: w.Detalle1, Monto: w.Monto1},
			{Etiqueta: w.Detalle2, Monto: w.Monto2},
			{Etiqueta: w.Detalle3, Monto: w.Monto3},
			{Etiqueta: w.Detalle4, Monto: w.Monto4},
			{Etiqueta: w.Detalle5, Monto: w.Monto5},
		},
	}
}

func arqueoToWire(reg *model.RegistroArqueo) arqueoWire {
	c := reg.Conteo
	d := reg.Detalles
	return arqueoWire{
		IDMovimiento: reg.MovimientoID,
		Total:        reg.Total,
		A50:          c[50],
		A100:         c[100],
		A500:         c[500],
		A1000:        c[1000],
		A2000:        c[2000],
		A5000:        c[5000],
		A10000:       c[10000],
		A20000:       c[20000],
		A50000:       c[50000],
		A100000:      c[100000],
		Detalle1:     d[0].Etiqueta, Monto1: d[0].Monto,
		Detalle2: d[1].Etiqueta, Monto2: d[1].Monto,
		Detalle3: d[2].Etiqueta, Monto3: d[2].Monto,
		Detalle4: d[3].Etiqueta, Monto4: d[3].Monto,
		Detalle5: d[4].Etiqueta, Monto5: d[4].Monto,
	}
}
