package postgresadapter

import (
	"encoding/json"
	"time"

	"mentalmaps/contexts/mapping/mental-maps/domain/entities"
	"mentalmaps/contexts/mapping/mental-maps/ports"
	"mentalmaps/internal/shared/outbox"
)

type mapModel struct {
	MapID       string    `gorm:"column:map_id;primaryKey"`
	OwnerID     string    `gorm:"column:owner_id;index"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	Visibility  string    `gorm:"column:visibility"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (mapModel) TableName() string {
	return "mental_maps"
}

func mapModelFromEntity(m entities.Map) mapModel {
	return mapModel{
		MapID:       m.MapID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: m.Description,
		Visibility:  string(m.Visibility),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func (m mapModel) toEntity() entities.Map {
	return entities.Map{
		MapID:       m.MapID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: m.Description,
		Visibility:  entities.Visibility(m.Visibility),
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

// elementModel keeps an explicit position so listing preserves insertion order.
type elementModel struct {
	ElementID string    `gorm:"column:element_id;primaryKey"`
	MapID     string    `gorm:"column:map_id;index:idx_map_elements_position,priority:1"`
	Position  int64     `gorm:"column:position;index:idx_map_elements_position,priority:2"`
	Type      string    `gorm:"column:type"`
	X         float64   `gorm:"column:x"`
	Y         float64   `gorm:"column:y"`
	Content   string    `gorm:"column:content"`
	Style     []byte    `gorm:"column:style;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (elementModel) TableName() string {
	return "mental_map_elements"
}

func elementModelFromEntity(element entities.Element, position int64) (elementModel, error) {
	style := element.Style
	if style == nil {
		style = map[string]any{}
	}
	raw, err := json.Marshal(style)
	if err != nil {
		return elementModel{}, err
	}
	return elementModel{
		ElementID: element.ElementID,
		MapID:     element.MapID,
		Position:  position,
		Type:      element.Type,
		X:         element.X,
		Y:         element.Y,
		Content:   element.Content,
		Style:     raw,
		CreatedAt: element.CreatedAt.UTC(),
	}, nil
}

func (m elementModel) toEntity() (entities.Element, error) {
	style := map[string]any{}
	if len(m.Style) > 0 {
		if err := json.Unmarshal(m.Style, &style); err != nil {
			return entities.Element{}, err
		}
	}
	return entities.Element{
		ElementID: m.ElementID,
		MapID:     m.MapID,
		Type:      m.Type,
		X:         m.X,
		Y:         m.Y,
		Content:   m.Content,
		Style:     style,
		CreatedAt: m.CreatedAt.UTC(),
	}, nil
}

type reportModel struct {
	ReportID  string    `gorm:"column:report_id;primaryKey"`
	MapID     string    `gorm:"column:map_id;index"`
	AuthorID  string    `gorm:"column:author_id"`
	Reason    string    `gorm:"column:reason"`
	Comment   string    `gorm:"column:comment"`
	Status    string    `gorm:"column:status;index"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
}

func (reportModel) TableName() string {
	return "mental_map_reports"
}

func reportModelFromEntity(report entities.Report) reportModel {
	return reportModel{
		ReportID:  report.ReportID,
		MapID:     report.MapID,
		AuthorID:  report.AuthorID,
		Reason:    report.Reason,
		Comment:   report.Comment,
		Status:    string(report.Status),
		CreatedAt: report.CreatedAt.UTC(),
	}
}

func (m reportModel) toEntity() entities.Report {
	return entities.Report{
		ReportID:  m.ReportID,
		MapID:     m.MapID,
		AuthorID:  m.AuthorID,
		Reason:    m.Reason,
		Comment:   m.Comment,
		Status:    entities.ReportStatus(m.Status),
		CreatedAt: m.CreatedAt.UTC(),
	}
}

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	Payload     []byte    `gorm:"column:payload"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "mental_maps_idempotency"
}

func idempotencyModelFromPort(record ports.IdempotencyRecord) idempotencyModel {
	return idempotencyModel{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		Payload:     append([]byte(nil), record.Payload...),
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
}

func (m idempotencyModel) toPort() ports.IdempotencyRecord {
	return ports.IdempotencyRecord{
		Key:         m.Key,
		RequestHash: m.RequestHash,
		Payload:     append([]byte(nil), m.Payload...),
		ExpiresAt:   m.ExpiresAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID  string     `gorm:"column:outbox_id;primaryKey"`
	EventType string     `gorm:"column:event_type"`
	EntityID  string     `gorm:"column:entity_id"`
	Payload   []byte     `gorm:"column:payload"`
	Status    string     `gorm:"column:status;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	SentAt    *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "mental_maps_outbox"
}

func (m outboxModel) toMessage() outbox.Message {
	return outbox.Message{
		ID:        m.OutboxID,
		EventType: m.EventType,
		EntityID:  m.EntityID,
		Payload:   append([]byte(nil), m.Payload...),
		Status:    m.Status,
		CreatedAt: m.CreatedAt.UTC(),
		SentAt:    m.SentAt,
	}
}
