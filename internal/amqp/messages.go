package amqp

import (
	"encoding/json"
	"time"
)

// Collections a change message can refer to.
const (
	CollectionPlays  = "plays"
	CollectionLedger = "ledger"
)

// LedgerChangedMessage announces that a user's owned collections changed.
// It carries only the uid and which collection moved; the mirror worker
// fetches the full document from the store, so a lost or reordered message
// costs freshness, never correctness.
type LedgerChangedMessage struct {
	UID        string    `json:"uid"`
	Collection string    `json:"collection"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(uid, collection string) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		UID:        uid,
		Collection: collection,
		Timestamp:  time.Now(),
	}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
