package storage

import "poolEngine/internal/model"

// EventSink is a sink for domain event records.
type EventSink interface {
	PutEventBatch(events []model.EventRecord) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) PutEventBatch([]model.EventRecord) error { return nil }
