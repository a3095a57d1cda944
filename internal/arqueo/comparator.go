package arqueo

import "github.com/shopspring/decimal"

// Clasificacion of the discrepancy between counted and expected cash.
type Clasificacion string

const (
	Cuadrado Clasificacion = "cuadrado" // counted == expected within tolerance
	Sobrante Clasificacion = "sobrante" // counted > expected
	Faltante Clasificacion = "faltante" // counted < expected
)

// Tolerancia absorbs floating-point noise coming off the wire. It is NOT a
// business allowance: any real discrepancy (smallest bill is 50) is orders
// of magnitude above it.
var Tolerancia = decimal.NewFromFloat(0.01)

// Comparacion is the result of comparing a counted total against the
// expected closing amount. Diferencia is always the absolute magnitude.
type Comparacion struct {
	Clasificacion Clasificacion
	Diferencia    decimal.Decimal
	Contado       decimal.Decimal
	Esperado      decimal.Decimal
}

// Cuadra reports whether the count matched within tolerance.
func (c Comparacion) Cuadra() bool { return c.Clasificacion == Cuadrado }

// Comparar classifies the discrepancy between the counted total and the
// expected total. Pure classification — it never fails.
func Comparar(contado, esperado decimal.Decimal) Comparacion {
	diff := contado.Sub(esperado)
	cmp := Comparacion{
		Diferencia: diff.Abs(),
		Contado:    contado,
		Esperado:   esperado,
	}
	switch {
	case diff.Abs().LessThanOrEqual(Tolerancia):
		cmp.Clasificacion = Cuadrado
	case diff.IsPositive():
		cmp.Clasificacion = Sobrante
	default:
		cmp.Clasificacion = Faltante
	}
	return cmp
}
