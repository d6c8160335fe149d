package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueNotificaciones = "jobs:notificaciones"

// Job is the generic envelope for all async tasks. Attempts counts delivery
// tries so the worker can give up and dead-letter a poisoned job.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// ShiftOpenedJob is the payload enqueued after a shift open commits.
type ShiftOpenedJob struct {
	ShiftID          string `json:"shift_id"`
	CashRegisterID   string `json:"cash_register_id"`
	CashRegisterName string `json:"cash_register_name"`
	Operator         string `json:"operator"`
	StartAmount      string `json:"start_amount"`
	OpenedAt         string `json:"opened_at"`
}

// Dispatcher enqueues async jobs into Redis lists; the worker pool dequeues
// them via BRPOP. It implements service.Notifier: enqueue failures are
// logged and swallowed, because a notification must never fail the shift
// open it follows.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher { return &Dispatcher{rdb: rdb} }

var _ service.Notifier = (*Dispatcher)(nil)

// ShiftOpened pushes a shift-opened notification job. Fire-and-forget.
func (d *Dispatcher) ShiftOpened(ctx context.Context, n service.ShiftNotification) {
	payload := ShiftOpenedJob{
		ShiftID:          n.ShiftID,
		CashRegisterID:   n.CashRegisterID,
		CashRegisterName: n.CashRegisterName,
		Operator:         n.Operator,
		StartAmount:      n.StartAmount.StringFixed(2),
		OpenedAt:         n.OpenedAt.Format(time.RFC3339),
	}
	if err := d.enqueue(ctx, "shift_opened", payload, 0); err != nil {
		log.Error().Err(err).Str("shift_id", n.ShiftID).Msg("failed to enqueue shift notification")
	}
}

func (d *Dispatcher) enqueue(ctx context.Context, jobType string, payload interface{}, attempts int) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data, Attempts: attempts})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueueNotificaciones, encoded).Err()
}

// WorkerHandlers wires job types to their processors.
type WorkerHandlers struct {
	Notification *NotificationWorker
}

// StartWorkerPool launches numWorkers goroutines consuming the notification
// queue. Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueNotificaciones).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, handlers, result[1])
		}
	}
}

func processJob(ctx context.Context, handlers *WorkerHandlers, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal job")
		return
	}
	switch job.Type {
	case "shift_opened":
		handlers.Notification.Process(ctx, job)
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type — dropping")
	}
}
