package worker

// email_worker.go
// Sends queued notification emails via SMTP. All sends go through the
// circuit breaker so a dead mail gateway fails fast instead of tying up
// the pool; breaker rejections are retried once the gateway recovers,
// hard failures land in the DLQ.

import (
	"context"
	"encoding/json"
	"errors"

	"procuretrack/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const emailMaxAttempts = 3

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	ToEmail  string `json:"to_email"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	PDFPath  string `json:"pdf_path,omitempty"`
	Attempts int    `json:"attempts,omitempty"`
}

type EmailWorker struct {
	mailer  *infra.Mailer
	breaker *infra.CircuitBreaker
	rdb     *redis.Client
}

func NewEmailWorker(mailer *infra.Mailer, breaker *infra.CircuitBreaker, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, breaker: breaker, rdb: rdb}
}

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
		return w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath)
	})
	if err == nil {
		log.Info().Str("to", payload.ToEmail).Str("subject", payload.Subject).Msg("email_worker: sent")
		return
	}

	payload.Attempts++
	if payload.Attempts >= emailMaxAttempts {
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, err.Error(), payload.Attempts)
		return
	}

	if errors.Is(err, infra.ErrCircuitOpen) {
		log.Warn().Str("to", payload.ToEmail).Msg("email_worker: SMTP circuit open — requeueing")
	} else {
		log.Error().Err(err).Str("to", payload.ToEmail).Int("attempt", payload.Attempts).Msg("email_worker: send failed — requeueing")
	}
	if data, jsonErr := json.Marshal(Job{Type: "email", Payload: mustMarshal(payload)}); jsonErr == nil {
		_ = w.rdb.LPush(ctx, QueueEmail, data).Err()
	}
}

func mustMarshal(v interface{}) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
