// Package events publishes ledger change notifications.
package events

import (
	"encoding/json"
	"time"
)

// Event types. They double as AMQP routing keys.
const (
	ParticipantCreated = "participant.created"
	CategoryCreated    = "category.created"
	ExpenseCreated     = "expense.created"
	ExpenseUpdated     = "expense.updated"
	ExpenseDeleted     = "expense.deleted"
	DepositCreated     = "deposit.created"
	DepositUpdated     = "deposit.updated"
	DepositDeleted     = "deposit.deleted"
)

// Event notifies other consumers that a ledger record changed.
type Event struct {
	Type     string `json:"type"`
	EntityID string `json:"entity_id"`
	// ParticipantIDs lists participants whose totals were touched.
	ParticipantIDs []string  `json:"participant_ids,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// New creates an event stamped with the current time. Duplicate and empty
// participant ids are dropped.
func New(eventType, entityID string, participantIDs ...string) Event {
	var ids []string
	seen := make(map[string]bool, len(participantIDs))
	for _, id := range participantIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return Event{
		Type:           eventType,
		EntityID:       entityID,
		ParticipantIDs: ids,
		OccurredAt:     time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON decodes an event.
func FromJSON(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}
