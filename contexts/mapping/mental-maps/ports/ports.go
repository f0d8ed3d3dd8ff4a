package ports

import (
	"context"
	"time"

	"mentalmaps/contexts/mapping/mental-maps/domain/entities"
	"mentalmaps/internal/shared/events"
	"mentalmaps/internal/shared/outbox"
)

// Clock allows deterministic testing of timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator issues resource identifiers such as "map_1a2b3c4d".
type IDGenerator interface {
	NewID(ctx context.Context, prefix string) (string, error)
}

// CascadeResult describes everything removed together with a map.
type CascadeResult struct {
	MapID            string
	OwnerID          string
	ElementsRemoved  int
	ReportIDsRemoved []string
}

// MapRepository is the authoritative map storage.
type MapRepository interface {
	CreateMap(ctx context.Context, m entities.Map) error
	GetMap(ctx context.Context, mapID string) (entities.Map, error)
	// ListMapsByOwner returns the owner's maps in creation order.
	ListMapsByOwner(ctx context.Context, ownerID string) ([]entities.Map, error)
	UpdateMap(ctx context.Context, m entities.Map) error
	// DeleteMapCascade must remove the map, its elements, every report that
	// references it and record the outbox event in one atomic step.
	DeleteMapCascade(ctx context.Context, event MapDeletedEvent) (CascadeResult, error)
}

// ElementRepository stores elements per map in insertion order. Every write
// also moves the parent map's UpdatedAt to touchedAt in the same step.
type ElementRepository interface {
	ListElements(ctx context.Context, mapID string) ([]entities.Element, error)
	GetElement(ctx context.Context, mapID string, elementID string) (entities.Element, error)
	AddElement(ctx context.Context, element entities.Element, touchedAt time.Time) error
	UpdateElement(ctx context.Context, element entities.Element, touchedAt time.Time) error
	DeleteElement(ctx context.Context, mapID string, elementID string, touchedAt time.Time) error
}

// ReportRepository keeps reports plus a newest-first index used for listing.
type ReportRepository interface {
	// CreateReportWithOutbox fails with ErrReportMapNotFound when the map
	// disappeared; the report and its outbox event are written together.
	CreateReportWithOutbox(ctx context.Context, report entities.Report, event ReportCreatedEvent) error
	GetReport(ctx context.Context, reportID string) (entities.Report, error)
	// ListReports returns reports newest first.
	ListReports(ctx context.Context) ([]entities.Report, error)
	UpdateReport(ctx context.Context, report entities.Report) error
	DeleteReport(ctx context.Context, reportID string) error
}

// IdempotencyRecord captures a replayable creation response.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	Payload     []byte
	ExpiresAt   time.Time
}

// IdempotencyStore abstracts idempotency persistence with TTL handling.
// A reserved record has no payload until Complete stores one.
type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	// Reserve claims record.Key atomically. When a live record already holds
	// the key it is returned with reserved=false.
	Reserve(ctx context.Context, record IdempotencyRecord, now time.Time) (existing IdempotencyRecord, reserved bool, err error)
	Complete(ctx context.Context, key string, payload []byte) error
	Release(ctx context.Context, key string) error
}

// OutboxRepository models relay-side polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

// EventPublisher publishes envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// EventSubscriber registers a topic consumer callback.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, events.Envelope) error,
	) error
}
