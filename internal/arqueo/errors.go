package arqueo

import "fmt"

// MismatchError aborts a close when the physical count does not match the
// expected total. It is the expected/common failure (operator miscounts) —
// callers present the full breakdown and re-prompt; the session stays open.
type MismatchError struct {
	Comparacion
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("arqueo no cuadra: esperado %s, contado %s, diferencia %s (%s)",
		e.Esperado.StringFixed(2), e.Contado.StringFixed(2), e.Diferencia.StringFixed(2), e.Clasificacion)
}
