package service

import (
	"context"
	"errors"
	"fmt"

	"arqueogw/internal/arqueo"
	"arqueogw/internal/backend"
	"arqueogw/internal/dto"
	"arqueogw/internal/journal"
	"arqueogw/internal/model"
	"arqueogw/internal/worker"

	"github.com/rs/zerolog/log"
)

// ErrCajaCerrada rejects a close attempt on an already-cerrado movimiento.
var ErrCajaCerrada = errors.New("la caja ya está cerrada")

// InputError marks a count the wire contract cannot express (unknown
// denomination, negative quantity, too many detalles). The caller is at
// fault, never the backend.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

// PersistError — the arqueo record write failed. Nothing was persisted;
// the whole close can be re-submitted safely.
type PersistError struct {
	MovimientoID int64
	Err          error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("no se pudo registrar el arqueo del movimiento %d: %v", e.MovimientoID, e.Err)
}
func (e *PersistError) Unwrap() error { return e.Err }

// PartialCloseError — the record persisted but the cierre call failed,
// leaving an arqueo pointing at a still-open movimiento. Distinct from
// PersistError: the caller must retry only the closure, never re-submit
// the record. The journal marker makes that retry skip the persist step.
type PartialCloseError struct {
	MovimientoID int64
	Err          error
}

func (e *PartialCloseError) Error() string {
	return fmt.Sprintf("arqueo del movimiento %d registrado pero el cierre falló, reintente el cierre: %v", e.MovimientoID, e.Err)
}
func (e *PartialCloseError) Unwrap() error { return e.Err }

type CierreService interface {
	// Resumen returns the expected cash position; for cerrado movimientos it
	// also returns the stored arqueo verbatim (read-only display).
	Resumen(ctx context.Context, movimientoID int64) (*dto.ResumenCajaResponse, error)
	// Arqueo returns just the stored reconciliation record.
	Arqueo(ctx context.Context, movimientoID int64) (*dto.ArqueoResponse, error)
	// Cerrar runs the full close: tally → fetch → compare → persist → cierre.
	Cerrar(ctx context.Context, movimientoID int64, req dto.CierreRequest) (*dto.CierreResponse, error)
}

type cierreService struct {
	backend    backend.Client
	journal    journal.Journal
	dispatcher *worker.Dispatcher // nil disables notifications
}

func NewCierreService(b backend.Client, j journal.Journal, d *worker.Dispatcher) CierreService {
	return &cierreService{backend: b, journal: j, dispatcher: d}
}

// ── Resumen ───────────────────────────────────────────────────────────────

func (s *cierreService) Resumen(ctx context.Context, movimientoID int64) (*dto.ResumenCajaResponse, error) {
	resumen, err := s.backend.Resumen(ctx, movimientoID)
	if err != nil {
		return nil, err
	}

	resp := resumenToDTO(resumen)
	if resumen.Cerrado() {
		// A cerrado movimiento without its arqueo is an inconsistency the
		// caller must see, so the NotFound error propagates as-is.
		reg, err := s.backend.Arqueo(ctx, movimientoID)
		if err != nil {
			return nil, err
		}
		resp.Arqueo = arqueoToDTO(reg)
	}
	return resp, nil
}

func (s *cierreService) Arqueo(ctx context.Context, movimientoID int64) (*dto.ArqueoResponse, error) {
	reg, err := s.backend.Arqueo(ctx, movimientoID)
	if err != nil {
		return nil, err
	}
	return arqueoToDTO(reg), nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────
// Sequential by construction: tally, fetch, compare, persist, cierre. The
// mismatch gate is hard — after it fails, no backend write happens.

func (s *cierreService) Cerrar(ctx context.Context, movimientoID int64, req dto.CierreRequest) (*dto.CierreResponse, error) {
	conteo, detalles, err := buildArqueo(req)
	if err != nil {
		return nil, err
	}
	total := arqueo.Total(conteo, detalles)

	resumen, err := s.backend.Resumen(ctx, movimientoID)
	if err != nil {
		return nil, err
	}
	if resumen.Cerrado() {
		return nil, ErrCajaCerrada
	}

	cmp := arqueo.Comparar(total, resumen.MontoCierre)
	if !cmp.Cuadra() {
		return nil, &arqueo.MismatchError{Comparacion: cmp}
	}

	reg := &model.RegistroArqueo{
		MovimientoID: movimientoID,
		Conteo:       conteo,
		Detalles:     detalles,
		Total:        total,
	}

	// A journal marker means a previous close already persisted this
	// record and failed on the cierre call — skip the persist, retry only
	// the closure. Journal failures are logged, never fatal.
	yaRegistrado, jerr := s.journal.Registrado(ctx, movimientoID)
	if jerr != nil {
		log.Warn().Err(jerr).Int64("movimiento_id", movimientoID).Msg("cierre: journal no disponible")
		yaRegistrado = false
	}

	if yaRegistrado {
		log.Info().Int64("movimiento_id", movimientoID).Msg("cierre: arqueo ya registrado, se reintenta solo el cierre")
	} else {
		if err := s.backend.RegistrarArqueo(ctx, reg); err != nil {
			return nil, &PersistError{MovimientoID: movimientoID, Err: err}
		}
		if err := s.journal.MarcarRegistrado(ctx, movimientoID); err != nil {
			log.Warn().Err(err).Int64("movimiento_id", movimientoID).Msg("cierre: no se pudo marcar el journal")
		}
	}

	if err := s.backend.CerrarCaja(ctx, movimientoID); err != nil {
		return nil, &PartialCloseError{MovimientoID: movimientoID, Err: err}
	}

	if err := s.journal.Limpiar(ctx, movimientoID); err != nil {
		log.Warn().Err(err).Int64("movimiento_id", movimientoID).Msg("cierre: no se pudo limpiar el journal")
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueCierre(ctx, worker.CierreJobPayload{
			Registro:      *reg,
			Clasificacion: string(cmp.Clasificacion),
			Diferencia:    cmp.Diferencia,
			Esperado:      cmp.Esperado,
		}); err != nil {
			log.Warn().Err(err).Int64("movimiento_id", movimientoID).Msg("cierre: no se pudo encolar la notificación")
		}
	}

	log.Info().
		Int64("movimiento_id", movimientoID).
		Str("total", total.String()).
		Msg("caja cerrada")

	return &dto.CierreResponse{
		MovimientoID: movimientoID,
		Estado:       model.EstadoCerrado,
		Total:        total,
		Diferencia:   diferenciaToDTO(cmp),
	}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────

// buildArqueo normalizes the request into the fixed shapes: every
// denomination present, exactly NumDetalles slots, no negatives. The HTTP
// layer validates too, but the CLI reaches this path directly.
func buildArqueo(req dto.CierreRequest) (model.Conteo, model.Detalles, error) {
	conteo, err := model.Conteo(req.Conteo).Normalizar()
	if err != nil {
		return nil, model.Detalles{}, &InputError{Err: err}
	}
	if len(req.Detalles) > model.NumDetalles {
		return nil, model.Detalles{}, &InputError{Err: fmt.Errorf("máximo %d detalles, se recibieron %d", model.NumDetalles, len(req.Detalles))}
	}
	var detalles model.Detalles
	for i, d := range req.Detalles {
		if d.Monto.IsNegative() {
			return nil, model.Detalles{}, &InputError{Err: fmt.Errorf("monto negativo en detalle %d", i+1)}
		}
		detalles[i] = model.Detalle{Etiqueta: d.Etiqueta, Monto: d.Monto}
	}
	return conteo, detalles, nil
}

func resumenToDTO(r *model.ResumenCaja) *dto.ResumenCajaResponse {
	return &dto.ResumenCajaResponse{
		MovimientoID:  r.MovimientoID,
		Ingresos:      r.Ingresos,
		Egresos:       r.Egresos,
		Contado:       r.Contado,
		Cobrado:       r.Cobrado,
		Compras:       r.Compras,
		Gastos:        r.Gastos,
		Credito:       r.Credito,
		MontoApertura: r.MontoApertura,
		MontoCierre:   r.MontoCierre,
		Estado:        r.Estado,
	}
}

func arqueoToDTO(reg *model.RegistroArqueo) *dto.ArqueoResponse {
	conteo := make(map[model.Denominacion]int, len(reg.Conteo))
	for d, n := range reg.Conteo {
		conteo[d] = n
	}
	return &dto.ArqueoResponse{
		ID:           reg.ID,
		MovimientoID: reg.MovimientoID,
		Conteo:       conteo,
		Detalles:     reg.Detalles[:],
		Total:        reg.Total,
	}
}

func diferenciaToDTO(cmp arqueo.Comparacion) dto.DiferenciaResponse {
	return dto.DiferenciaResponse{
		Clasificacion: string(cmp.Clasificacion),
		Diferencia:    cmp.Diferencia,
		Contado:       cmp.Contado,
		Esperado:      cmp.Esperado,
	}
}
