package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores processed webhook event IDs so that redelivered
// events can be detected and skipped. Every reconciliation transition is
// idempotent on its own; the store is defense in depth, not a correctness
// requirement.
type IdempotencyStore interface {
	// MarkProcessed marks an event as processed with a TTL.
	// Returns true if the event was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed checks if an event has already been processed
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Release forgets an event ID so a redelivery is processed again.
	// Called when processing failed after the ID was claimed.
	Release(ctx context.Context, eventID string) error

	// Close closes the store and releases resources
	Close() error
}
