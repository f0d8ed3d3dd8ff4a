package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "mentalmaps/contexts/mapping/mental-maps/application"
	"mentalmaps/contexts/mapping/mental-maps/ports"
	"mentalmaps/internal/shared/events"
)

// DefaultTopic carries every mental-maps domain event.
const DefaultTopic = "mentalmaps.events"

// OutboxRelay publishes pending outbox rows and marks them sent. A row that
// fails to publish stays pending and is retried on the next run.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}
	topic := r.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("mental maps outbox list failed",
			"event", "mentalmaps_outbox_list_failed",
			"module", "mapping/mental-maps",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var envelope events.Envelope
		if err := json.Unmarshal(row.Payload, &envelope); err != nil {
			logger.Error("mental maps outbox payload decode failed",
				"event", "mentalmaps_outbox_decode_failed",
				"module", "mapping/mental-maps",
				"layer", "worker",
				"outbox_id", row.ID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Publisher.Publish(ctx, topic, envelope); err != nil {
			logger.Error("mental maps outbox publish failed",
				"event", "mentalmaps_outbox_publish_failed",
				"module", "mapping/mental-maps",
				"layer", "worker",
				"outbox_id", row.ID,
				"event_type", row.EventType,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxSent(ctx, row.ID, now); err != nil {
			return err
		}
	}
	if len(pending) > 0 {
		logger.Debug("mental maps outbox batch relayed",
			"event", "mentalmaps_outbox_relayed",
			"module", "mapping/mental-maps",
			"layer", "worker",
			"count", len(pending),
		)
	}
	return nil
}

// Run polls until ctx is cancelled. Failed batches are logged by RunOnce and
// retried after the next tick.
func (r OutboxRelay) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		_ = r.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
