package worker

// notification_worker.go
// Processes shift-opened jobs: sends a best-effort email to stakeholders.
// SMTP calls go through the circuit breaker; jobs that keep failing are
// re-enqueued with a bumped attempt count and finally dead-lettered.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxNotificationAttempts = 3

// NotificationWorker delivers shift-opened notifications via SMTP.
type NotificationWorker struct {
	mailer     *infra.Mailer
	cb         *infra.CircuitBreaker
	rdb        *redis.Client
	recipients []string
}

func NewNotificationWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker,
	rdb *redis.Client, recipients []string) *NotificationWorker {
	return &NotificationWorker{mailer: mailer, cb: cb, rdb: rdb, recipients: recipients}
}

// Process sends the notification email for one job.
func (w *NotificationWorker) Process(ctx context.Context, job Job) {
	var payload ShiftOpenedJob
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid payload")
		return
	}
	if len(w.recipients) == 0 {
		log.Debug().Msg("notification_worker: no recipients configured — skipping")
		return
	}

	subject := fmt.Sprintf("Apertura de turno — caja %s", payload.CashRegisterName)
	body := fmt.Sprintf(
		"Se abrió un turno de caja.\n\nCaja: %s\nOperador: %s\nMonto inicial: %s\nFecha: %s\nTurno: %s\n",
		payload.CashRegisterName, payload.Operator, payload.StartAmount, payload.OpenedAt, payload.ShiftID)

	err := w.cb.Execute(func() error {
		return w.mailer.Send(w.recipients, subject, body)
	})
	if err == nil {
		log.Info().Str("shift_id", payload.ShiftID).Msg("notification_worker: notification sent")
		return
	}

	attempts := job.Attempts + 1
	if attempts >= maxNotificationAttempts {
		SendToDLQ(ctx, w.rdb, QueueNotificaciones, job.Type, job.Payload,
			fmt.Sprintf("max attempts (%d) exceeded: %s", maxNotificationAttempts, err), attempts)
		return
	}

	// Re-enqueue with the bumped attempt count; BRPOP order gives the queue
	// a natural delay between tries.
	job.Attempts = attempts
	encoded, mErr := json.Marshal(job)
	if mErr != nil {
		log.Error().Err(mErr).Msg("notification_worker: re-enqueue marshal failed")
		return
	}
	if pushErr := w.rdb.LPush(ctx, QueueNotificaciones, encoded).Err(); pushErr != nil {
		log.Error().Err(pushErr).Str("shift_id", payload.ShiftID).Msg("notification_worker: re-enqueue failed")
		return
	}
	log.Warn().Err(err).
		Str("shift_id", payload.ShiftID).
		Int("attempts", attempts).
		Msg("notification_worker: send failed, re-enqueued")
}
