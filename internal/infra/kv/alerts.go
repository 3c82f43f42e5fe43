package kv

import (
	"context"
	"encoding/json"
	"log/slog"

	"menucost/internal/usecase"
)

// AlertPublisher emits cascade outcomes on a pub/sub channel for the alert
// collaborator to consume independently. Fire-and-forget: publish failures
// are logged and never fail the cascade that produced the event.
type AlertPublisher struct {
	client  Client
	channel string
	logger  *slog.Logger
}

func NewAlertPublisher(client Client, channel string, logger *slog.Logger) *AlertPublisher {
	return &AlertPublisher{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (p *AlertPublisher) CostsRecalculated(ctx context.Context, e usecase.CostsRecalculatedEvent) {
	payload, err := json.Marshal(e)
	if err != nil {
		p.logger.Warn("failed to marshal alert event", "tenant_id", e.TenantID, "error", err)
		return
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.logger.Warn("failed to publish alert event", "tenant_id", e.TenantID, "error", err)
	}
}
