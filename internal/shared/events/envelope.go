package events

import (
	"encoding/json"
	"time"
)

// Envelope is the event shape shared by the outbox, the relay and the bus.
// Fields are append-only; consumers must ignore unknown event types.
type Envelope struct {
	EventID        string          `json:"event_id"`
	EventType      string          `json:"event_type"`
	SourceService  string          `json:"source_service"`
	OccurredAt     time.Time       `json:"occurred_at"`
	EntityType     string          `json:"entity_type"`
	EntityID       string          `json:"entity_id"`
	PayloadVersion int             `json:"payload_version"`
	Data           json.RawMessage `json:"data"`
}

const (
	TypeMapDeleted    = "mentalmaps.map.deleted"
	TypeReportCreated = "mentalmaps.report.created"
)
