package ports

import (
	"encoding/json"
	"time"

	"mentalmaps/internal/shared/events"
)

const sourceService = "mental-maps-api"

// MapDeletedEvent is recorded by DeleteMapCascade together with the deletion.
type MapDeletedEvent struct {
	EventID    string
	MapID      string
	OwnerID    string
	OccurredAt time.Time
}

// Envelope renders the event once the cascade outcome is known.
func (e MapDeletedEvent) Envelope(result CascadeResult) (events.Envelope, error) {
	removed := result.ReportIDsRemoved
	if removed == nil {
		removed = []string{}
	}
	data, err := json.Marshal(map[string]any{
		"mapId":            e.MapID,
		"ownerId":          e.OwnerID,
		"elementsRemoved":  result.ElementsRemoved,
		"reportIdsRemoved": removed,
	})
	if err != nil {
		return events.Envelope{}, err
	}
	return events.Envelope{
		EventID:        e.EventID,
		EventType:      events.TypeMapDeleted,
		SourceService:  sourceService,
		OccurredAt:     e.OccurredAt.UTC(),
		EntityType:     "map",
		EntityID:       e.MapID,
		PayloadVersion: 1,
		Data:           data,
	}, nil
}

// ReportCreatedEvent is recorded by CreateReportWithOutbox.
type ReportCreatedEvent struct {
	EventID    string
	ReportID   string
	MapID      string
	AuthorID   string
	Reason     string
	OccurredAt time.Time
}

func (e ReportCreatedEvent) Envelope() (events.Envelope, error) {
	data, err := json.Marshal(map[string]string{
		"reportId": e.ReportID,
		"mapId":    e.MapID,
		"authorId": e.AuthorID,
		"reason":   e.Reason,
	})
	if err != nil {
		return events.Envelope{}, err
	}
	return events.Envelope{
		EventID:        e.EventID,
		EventType:      events.TypeReportCreated,
		SourceService:  sourceService,
		OccurredAt:     e.OccurredAt.UTC(),
		EntityType:     "report",
		EntityID:       e.ReportID,
		PayloadVersion: 1,
		Data:           data,
	}, nil
}
