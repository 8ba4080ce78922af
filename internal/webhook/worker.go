package webhook

import (
	"context"
	"log/slog"
	"time"
)

const (
	queueSize   = 256
	maxAttempts = 5
)

// Worker drains the delivery queue and retries failed callbacks with
// exponential backoff. Deliveries are best-effort: a full queue drops
// the event rather than blocking the caller.
type Worker struct {
	service *Service
	logger  *slog.Logger
	jobs    chan job
	stopCh  chan struct{}
}

func NewWorker(service *Service, logger *slog.Logger) *Worker {
	return &Worker{
		service: service,
		logger:  logger,
		jobs:    make(chan job, queueSize),
		stopCh:  make(chan struct{}),
	}
}

// Enqueue queues an event for delivery. Returns false if the queue is
// full or no callback URL is configured.
func (w *Worker) Enqueue(event EventPayload) bool {
	if !w.service.Enabled() {
		return false
	}

	select {
	case w.jobs <- job{event: event}:
		return true
	default:
		w.logger.Warn("webhook queue full, dropping event",
			"event_type", event.Type,
			"session_id", event.SessionID,
		)
		return false
	}
}

func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("webhook worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("webhook worker stopped")
			return
		case <-w.stopCh:
			w.logger.Info("webhook worker stopped")
			return
		case j := <-w.jobs:
			w.processJob(ctx, j)
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) processJob(ctx context.Context, j job) {
	err := w.service.Send(ctx, j.event)
	if err == nil {
		w.logger.Info("webhook delivered",
			"event_type", j.event.Type,
			"session_id", j.event.SessionID,
			"attempts", j.attempts+1,
		)
		return
	}

	j.attempts++
	if j.attempts >= maxAttempts {
		w.logger.Warn("webhook delivery failed permanently",
			"event_type", j.event.Type,
			"session_id", j.event.SessionID,
			"attempts", j.attempts,
			"error", err,
		)
		return
	}

	delay := time.Duration(1<<j.attempts) * time.Second
	w.logger.Info("webhook delivery failed, scheduling retry",
		"event_type", j.event.Type,
		"session_id", j.event.SessionID,
		"attempts", j.attempts,
		"next_retry_in", delay,
		"error", err,
	)

	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(delay):
			select {
			case w.jobs <- j:
			default:
			}
		}
	}()
}
