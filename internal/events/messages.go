package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LedgerChangedMessage announces one persisted ledger mutation.
// TransactionID is zero for operations that do not target a record.
type LedgerChangedMessage struct {
	MessageID     string    `json:"message_id"`
	Operation     string    `json:"operation"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	Revision      uint64    `json:"revision"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(op string, txID int64, revision uint64) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		MessageID:     uuid.NewString(),
		Operation:     op,
		TransactionID: txID,
		Revision:      revision,
		Timestamp:     time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON creates a message from JSON bytes
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
