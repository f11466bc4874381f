// internal/domain/feed/feed.go

package feed

import (
	"context"
	"encoding/json"
	"fmt"
)

// Operation identifies the kind of row change a ChangeEvent describes. The
// codes match the storage layer's change-feed payload.
type Operation int

const (
	// OpInsert is a newly appended row
	OpInsert Operation = 0

	// OpUpdate is a modification of an existing row
	OpUpdate Operation = 1

	// OpDelete is a row removal
	OpDelete Operation = 2
)

// Item is the row snapshot carried by a change event.
type Item struct {
	TruckID   int     `json:"TruckID"`
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
	Timestamp string  `json:"Timestamp,omitempty"`
}

// ChangeEvent is one row-level change delivered by the change feed.
type ChangeEvent struct {
	Operation Operation `json:"Operation"`
	Item      Item      `json:"Item"`
}

// DecodeBatch parses a JSON array of change events.
func DecodeBatch(data []byte) ([]ChangeEvent, error) {
	var events []ChangeEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("error decoding change batch: %w", err)
	}
	return events, nil
}

// Handler reacts to an ordered batch of change events.
type Handler interface {
	// HandleBatch processes one delivered batch. A returned error means the
	// whole batch could not be evaluated and may be redelivered.
	HandleBatch(ctx context.Context, events []ChangeEvent) error
}

// Consumer delivers ordered change batches to a handler. The underlying
// delivery mechanism (log tailing, push, polling) is an implementation
// detail of the concrete consumer.
type Consumer interface {
	// Start begins delivering batches until the context is canceled or
	// Stop is called
	Start(ctx context.Context) error

	// Stop halts delivery and releases resources
	Stop(ctx context.Context) error
}

// Publisher emits change events for rows written through paths the storage
// layer's own feed does not cover.
type Publisher interface {
	// PublishInsert relays an insert event onto the change feed
	PublishInsert(ctx context.Context, item Item) error
}
