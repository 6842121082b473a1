package worker

// email_worker.go
// Processes email jobs from QueueEmail, sending revision report PDFs via SMTP.
// Sends go through a circuit breaker so a dead relay fails fast; jobs that
// exhaust their retries land in the DLQ.

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/franmartos11/mvp-kioskos-sub001/internal/infra"
)

const maxEmailAttempts = 3

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail  string `json:"to_email"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	PDFPath  string `json:"pdf_path"`
	Attempts int    `json:"attempts"`
}

// EmailWorker delivers queued emails through the SMTP circuit breaker.
type EmailWorker struct {
	mailer  *infra.Mailer
	breaker *infra.CircuitBreaker
	rdb     *redis.Client
}

func NewEmailWorker(mailer *infra.Mailer, breaker *infra.CircuitBreaker, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, breaker: breaker, rdb: rdb}
}

// Process sends an email with the PDF report as attachment. Failed sends are
// re-queued up to maxEmailAttempts, then moved to the dead letter queue.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email — skipping")
		return
	}

	err := w.breaker.Execute(func() error {
		return w.mailer.SendReporte(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	})
	if err == nil {
		log.Info().Str("to", payload.ToEmail).Msg("email_worker: reporte sent successfully")
		return
	}

	payload.Attempts++
	if errors.Is(err, infra.ErrCircuitOpen) {
		log.Warn().Str("to", payload.ToEmail).Int("attempts", payload.Attempts).Msg("email_worker: circuit open — re-queueing")
	} else {
		log.Error().Err(err).Str("to", payload.ToEmail).Int("attempts", payload.Attempts).Msg("email_worker: failed to send email")
	}

	if payload.Attempts >= maxEmailAttempts {
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", mustMarshal(payload), err.Error(), payload.Attempts)
		return
	}

	data, merr := json.Marshal(Job{Type: "email", Payload: mustMarshal(payload)})
	if merr != nil {
		log.Error().Err(merr).Msg("email_worker: failed to re-encode job")
		return
	}
	if rerr := w.rdb.LPush(ctx, QueueEmail, data).Err(); rerr != nil {
		log.Error().Err(rerr).Msg("email_worker: failed to re-queue job")
	}
}

func mustMarshal(v interface{}) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
