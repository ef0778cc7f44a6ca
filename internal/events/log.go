package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to the structured logger.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher constructs a logging publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	if p == nil || p.logger == nil {
		return nil
	}
	p.logger.Info("ledger event",
		"event_id", event.ID,
		"kind", event.Kind,
		"tx_id", event.TxID,
		"account", event.Account,
		"amount", event.Amount,
		"reference", event.Reference,
		"at", event.At,
	)
	return nil
}
