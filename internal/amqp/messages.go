package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// DataChangedMessage announces one applied store mutation. It carries the
// aggregate counts after the change, not the records themselves.
type DataChangedMessage struct {
	Op        string    `json:"op"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id,omitempty"`
	Members   int       `json:"members"`
	Donations int       `json:"donations"`
	FundTotal int64     `json:"fund_total"`
	Persisted bool      `json:"persisted"`
	Timestamp time.Time `json:"timestamp"`
}

// NewDataChangedMessage creates a message stamped with the current time.
func NewDataChangedMessage(op, entity, entityID string) *DataChangedMessage {
	return &DataChangedMessage{
		Op:        op,
		Entity:    entity,
		EntityID:  entityID,
		Persisted: true,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DataChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DataChangedMessageFromJSON parses and sanity checks a message body.
func DataChangedMessageFromJSON(data []byte) (*DataChangedMessage, error) {
	var msg DataChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Op == "" {
		return nil, errors.New("message has no op")
	}
	return &msg, nil
}
