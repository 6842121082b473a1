package worker

// reporte_worker.go
// Processes report jobs from QueueReporte: fetches the revision record,
// renders the PDF summary, and enqueues the notification email to the admin.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/config"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/infra"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/model"
	"github.com/franmartos11/mvp-kioskos-sub001/internal/repository"
)

// ReporteWorker renders revision report PDFs and chains the email job.
type ReporteWorker struct {
	repo       repository.RevisionPrecioRepository
	dispatcher *Dispatcher
	cfg        *config.Config
}

func NewReporteWorker(repo repository.RevisionPrecioRepository, dispatcher *Dispatcher, cfg *config.Config) *ReporteWorker {
	return &ReporteWorker{repo: repo, dispatcher: dispatcher, cfg: cfg}
}

// Process generates the PDF for a revision and enqueues the admin email.
func (w *ReporteWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReporteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("reporte_worker: invalid payload")
		return
	}

	id, err := uuid.Parse(payload.RevisionID)
	if err != nil {
		log.Error().Str("revision_id", payload.RevisionID).Msg("reporte_worker: malformed revision id")
		return
	}

	rev, err := w.repo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("revision_id", payload.RevisionID).Msg("reporte_worker: revision not found")
		return
	}

	pdfPath, err := infra.GenerarReporteRevisionPDF(rev, w.cfg.ReportStoragePath)
	if err != nil {
		log.Error().Err(err).Str("revision_id", payload.RevisionID).Msg("reporte_worker: pdf generation failed")
		return
	}
	log.Info().Str("revision_id", payload.RevisionID).Str("pdf", pdfPath).Msg("reporte_worker: pdf generated")

	if w.cfg.AdminEmail == "" {
		log.Warn().Msg("reporte_worker: ADMIN_EMAIL not configured — skipping notification")
		return
	}

	accion := "aplicada"
	if rev.TipoAccion == model.AccionRevertir {
		accion = "revertida"
	}
	emailJob := EmailJobPayload{
		ToEmail: w.cfg.AdminEmail,
		Subject: fmt.Sprintf("Revision de precios %s: %s", accion, rev.Descripcion),
		Body: fmt.Sprintf(
			"Se adjunta el reporte de la revision %s (%d productos, ajuste %s%%).",
			rev.ID, len(rev.Afectados), rev.Porcentaje.StringFixed(2),
		),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Error().Err(err).Str("revision_id", payload.RevisionID).Msg("reporte_worker: failed to enqueue email")
	}
}
