package amqp

import (
	"encoding/json"
	"time"

	"hourtracker/internal/core"
)

// Message kinds carried on the sync queue.
const (
	KindEntryUpsert = "entry.upsert"
	KindEntryDelete = "entry.delete"
)

// EntrySyncMessage is a lightweight pointer to a local entry row. The worker
// fetches the full entry from the database, so the message only carries the
// local id and, for deletes, the remote id to remove.
type EntrySyncMessage struct {
	Kind      string    `json:"kind"`
	LocalID   int64     `json:"local_id"`
	RemoteID  core.ID   `json:"remote_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntryUpsertMessage points the worker at an entry waiting to be pushed.
func NewEntryUpsertMessage(localID int64) *EntrySyncMessage {
	return &EntrySyncMessage{
		Kind:      KindEntryUpsert,
		LocalID:   localID,
		Timestamp: time.Now(),
	}
}

// NewEntryDeleteMessage asks the worker to delete an entry on the remote
// service. RemoteID may be empty when the entry was never synced.
func NewEntryDeleteMessage(localID int64, remoteID core.ID) *EntrySyncMessage {
	return &EntrySyncMessage{
		Kind:      KindEntryDelete,
		LocalID:   localID,
		RemoteID:  remoteID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntrySyncMessageFromJSON creates a message from JSON bytes
func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
