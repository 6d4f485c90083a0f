package model

import "encoding/json"

// EventRecord is the JSON representation of a domain event written to the
// journal. Seq is a per-pool monotonic counter; Payload holds the typed
// event data for EventName.
type EventRecord struct {
	Seq       uint64          `json:"seq"`
	EventName string          `json:"event_name"`
	Actor     string          `json:"actor"`
	Timestamp uint64          `json:"timestamp"`
	EmittedAt string          `json:"emitted_at"`
	Payload   json.RawMessage `json:"payload"`
}
