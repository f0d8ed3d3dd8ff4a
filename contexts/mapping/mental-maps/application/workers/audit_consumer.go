package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	application "mentalmaps/contexts/mapping/mental-maps/application"
	"mentalmaps/contexts/mapping/mental-maps/ports"
	"mentalmaps/internal/shared/events"
)

const auditConsumerGroup = "mental-maps-audit"

// AuditConsumer writes an audit log line for every mental-maps domain event.
type AuditConsumer struct {
	Subscriber ports.EventSubscriber
	Topic      string
	Logger     *slog.Logger
}

func (c AuditConsumer) Start(ctx context.Context) error {
	topic := c.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	return c.Subscriber.Subscribe(ctx, topic, auditConsumerGroup, c.Handle)
}

func (c AuditConsumer) Handle(_ context.Context, envelope events.Envelope) error {
	logger := application.ResolveLogger(c.Logger)
	switch envelope.EventType {
	case events.TypeMapDeleted:
		var data struct {
			MapID            string   `json:"mapId"`
			OwnerID          string   `json:"ownerId"`
			ElementsRemoved  int      `json:"elementsRemoved"`
			ReportIDsRemoved []string `json:"reportIdsRemoved"`
		}
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return err
		}
		logger.Info("audit: map deleted",
			"event", "mentalmaps_audit_map_deleted",
			"module", "mapping/mental-maps",
			"layer", "worker",
			"event_id", envelope.EventID,
			"map_id", data.MapID,
			"owner_id", data.OwnerID,
			"elements_removed", data.ElementsRemoved,
			"report_ids_removed", data.ReportIDsRemoved,
		)
	case events.TypeReportCreated:
		var data struct {
			ReportID string `json:"reportId"`
			MapID    string `json:"mapId"`
			AuthorID string `json:"authorId"`
			Reason   string `json:"reason"`
		}
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return err
		}
		logger.Info("audit: report created",
			"event", "mentalmaps_audit_report_created",
			"module", "mapping/mental-maps",
			"layer", "worker",
			"event_id", envelope.EventID,
			"report_id", data.ReportID,
			"map_id", data.MapID,
			"author_id", data.AuthorID,
			"reason", data.Reason,
		)
	default:
		logger.Debug("audit: unknown event type ignored",
			"event", "mentalmaps_audit_event_ignored",
			"module", "mapping/mental-maps",
			"layer", "worker",
			"event_id", envelope.EventID,
			"event_type", envelope.EventType,
		)
	}
	return nil
}
