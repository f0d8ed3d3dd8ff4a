package entities

import "time"

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

func (v Visibility) IsValid() bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}

type Map struct {
	MapID       string
	OwnerID     string
	Title       string
	Description string
	Visibility  Visibility
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Touch moves UpdatedAt forward without ever letting it fall behind CreatedAt.
func (m *Map) Touch(at time.Time) {
	at = at.UTC()
	if at.Before(m.CreatedAt) {
		at = m.CreatedAt
	}
	m.UpdatedAt = at
}

type Element struct {
	ElementID string
	MapID     string
	Type      string
	X         float64
	Y         float64
	Content   string
	Style     map[string]any
	CreatedAt time.Time
}

// Clone returns a copy whose Style map can be mutated independently.
func (e Element) Clone() Element {
	style := make(map[string]any, len(e.Style))
	for key, value := range e.Style {
		style[key] = value
	}
	e.Style = style
	return e
}
