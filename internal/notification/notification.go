package notification

import (
	"context"
	"log/slog"
)

const (
	// KindCreditApplied indicates value arriving in an account.
	KindCreditApplied = "credit_applied"
)

// Event describes a balance event worth surfacing to downstream systems.
type Event struct {
	Kind    string
	ChainID string
	Owner   string
	Amount  string
}

// Notifier delivers balance events to downstream systems.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// LoggerNotifier is a stub implementation that writes events to the logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Notify writes the event to the structured logger.
func (n *LoggerNotifier) Notify(_ context.Context, event Event) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification", "kind", event.Kind, "chain", event.ChainID, "owner", event.Owner, "amount", event.Amount)
	return nil
}
