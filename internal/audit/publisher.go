package audit

import (
	"context"
	"log/slog"
	"time"
)

// Sink receives audit events. Store-backed and Kafka-backed sinks both
// satisfy it.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher fans events out to every configured sink. The first sink is
// authoritative: its failure is returned to the caller. Later sinks are
// best-effort and only logged.
type Publisher struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewPublisher creates a publisher over one or more sinks.
func NewPublisher(logger *slog.Logger, sinks ...Sink) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{sinks: sinks, logger: logger}
}

// Emit stamps and delivers the event.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for i, sink := range p.sinks {
		if err := sink.Append(ctx, event); err != nil {
			if i == 0 {
				return err
			}
			p.logger.ErrorContext(ctx, "audit sink append failed",
				"run_id", event.RunID,
				"action", event.Action,
				"error", err,
			)
		}
	}
	return nil
}
