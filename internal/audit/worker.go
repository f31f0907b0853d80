package audit

import (
	"context"
	"log/slog"
)

// Worker consumes audit events from a channel and hands them to the
// publisher. It decouples the verification hot path from audit delivery.
type Worker struct {
	publisher *Publisher
	inbox     <-chan Event
	logger    *slog.Logger
}

func NewWorker(publisher *Publisher, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{publisher: publisher, inbox: inbox, logger: logger}
}

// Run processes events until the context is cancelled. Delivery failures
// are logged, not fatal: a flaky sink must not stop the audit trail for
// events that would succeed.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.publisher.Emit(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit event delivery failed",
					"run_id", event.RunID,
					"error", err,
				)
			}
		}
	}
}
