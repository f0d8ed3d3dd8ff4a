package outbox

import "time"

const (
	StatusPending = "pending"
	StatusSent    = "sent"
)

// Message is an outbox row persisted in the same store step as the state
// change it describes. The relay reads pending rows and publishes them.
type Message struct {
	ID        string
	EventType string
	EntityID  string
	Payload   []byte
	Status    string
	CreatedAt time.Time
	SentAt    *time.Time
}
