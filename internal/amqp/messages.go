package amqp

import (
	"encoding/json"
	"time"

	"ledgerd/internal/core"
)

// TransactionMessage carries a recorded transaction to the sync worker.
// The flat-file store keeps no sync bookkeeping, so the message holds the
// full transaction instead of a lookup key.
type TransactionMessage struct {
	Transaction core.Transaction `json:"transaction"`
	PublishedAt time.Time        `json:"published_at"`
}

func NewTransactionMessage(tx core.Transaction) *TransactionMessage {
	return &TransactionMessage{
		Transaction: tx,
		PublishedAt: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionMessageFromJSON creates a message from JSON bytes
func TransactionMessageFromJSON(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
