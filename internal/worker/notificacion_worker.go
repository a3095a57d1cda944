package worker

// notificacion_worker.go
// Processes closing-report jobs: renders the cierre PDF and emails it to
// the configured notification address. Runs strictly after the close has
// succeeded — a notification failure never affects the close itself.

import (
	"context"
	"encoding/json"
	"fmt"

	"arqueogw/internal/arqueo"
	"arqueogw/internal/infra"
	"arqueogw/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CierreJobPayload is the job envelope sent to QueueNotificacion.
type CierreJobPayload struct {
	Registro      model.RegistroArqueo `json:"registro"`
	Clasificacion string               `json:"clasificacion"`
	Diferencia    decimal.Decimal      `json:"diferencia"`
	Esperado      decimal.Decimal      `json:"esperado"`
}

// NotificacionWorker sends closing reports via SMTP.
type NotificacionWorker struct {
	mailer      *infra.Mailer
	notifyEmail string
	pdfPath     string
}

func NewNotificacionWorker(mailer *infra.Mailer, notifyEmail, pdfPath string) *NotificacionWorker {
	return &NotificacionWorker{mailer: mailer, notifyEmail: notifyEmail, pdfPath: pdfPath}
}

// Process renders the PDF and sends the email. Returns an error so the
// pool can re-queue or dead-letter the job.
func (w *NotificacionWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload CierreJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notificacion_worker: invalid payload")
		return nil // malformed jobs are not retryable
	}
	if w.notifyEmail == "" {
		log.Debug().Msg("notificacion_worker: NOTIFY_EMAIL vacío — se omite")
		return nil
	}

	cmp := arqueo.Comparacion{
		Clasificacion: arqueo.Clasificacion(payload.Clasificacion),
		Diferencia:    payload.Diferencia,
		Contado:       payload.Registro.Total,
		Esperado:      payload.Esperado,
	}

	pdfFile, err := infra.GenerateCierrePDF(&payload.Registro, cmp, w.pdfPath)
	if err != nil {
		// Send without attachment rather than losing the notification
		log.Error().Err(err).Int64("movimiento_id", payload.Registro.MovimientoID).Msg("notificacion_worker: PDF failed")
		pdfFile = ""
	}

	subject := fmt.Sprintf("Cierre de caja — movimiento %d", payload.Registro.MovimientoID)
	body := fmt.Sprintf("Caja cerrada.\n\nMovimiento: %d\nTotal contado: %s\nEsperado: %s\nArqueo: %s\n",
		payload.Registro.MovimientoID,
		payload.Registro.Total.StringFixed(2),
		payload.Esperado.StringFixed(2),
		payload.Clasificacion,
	)

	if err := w.mailer.SendCierre(w.notifyEmail, subject, body, pdfFile); err != nil {
		return fmt.Errorf("enviar notificación de cierre: %w", err)
	}
	log.Info().Str("to", w.notifyEmail).Int64("movimiento_id", payload.Registro.MovimientoID).Msg("notificacion_worker: cierre notificado")
	return nil
}
