package amqp

import (
	"encoding/json"
	"time"
)

// MovementEvent announces that new activity landed on an account or
// card. The worker only needs the owner ID to drop stale cache
// entries; consumers refetch on the next request.
type MovementEvent struct {
	OwnerID   string    `json:"owner_id"`
	OwnerKind string    `json:"owner_kind"` // "account" or "card"
	Timestamp time.Time `json:"timestamp"`
}

func NewMovementEvent(ownerID, ownerKind string) *MovementEvent {
	return &MovementEvent{
		OwnerID:   ownerID,
		OwnerKind: ownerKind,
		Timestamp: time.Now(),
	}
}

func (m *MovementEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MovementEventFromJSON(data []byte) (*MovementEvent, error) {
	var msg MovementEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
