package attendance

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEDGER INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Ledger persists attendance events.
//
// Implementations must make Append atomic with respect to the existence
// check: two concurrent appends for the same id must yield exactly one
// success and one ErrAlreadyMarked. On success the implementation fills
// e.RecordedAt with the store-assigned timestamp.
type Ledger interface {
	// Append stores a new event. Returns ErrAlreadyMarked when an event
	// with the same id already exists.
	Append(ctx context.Context, e *Event) error

	// Get returns the event with the given id, or ErrEventNotFound.
	Get(ctx context.Context, id EventID) (*Event, error)

	// Remove deletes the event with the given id. Removing an id that does
	// not exist is not an error: the outcome (no event) is the same either
	// way, so unmark stays idempotent.
	Remove(ctx context.Context, id EventID) error

	// ListByDay returns all events for one calendar day.
	ListByDay(ctx context.Context, day Day) ([]*Event, error)

	// ListRange returns all events with from <= date <= to. Bounds are
	// compared as strings, which for fixed-width dates equals chronological
	// comparison. The upper bound may be a month-end sentinel that is not a
	// real calendar date.
	ListRange(ctx context.Context, from, to Day) ([]*Event, error)

	// ListForStudent returns one student's events in the range, newest
	// date first.
	ListForStudent(ctx context.Context, studentID string, from, to Day) ([]*Event, error)

	// CountDistinctDays returns the number of distinct dates carrying at
	// least one event of any student in the range. This is the class-days
	// denominator for monthly statistics.
	CountDistinctDays(ctx context.Context, from, to Day) (int, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// SHEET CACHE INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// SheetCache is an optional short-lived cache of per-day sheets. The ledger
// is the source of truth; mutations invalidate the affected day, and a cache
// failure is never allowed to fail the operation that triggered it.
type SheetCache interface {
	// GetDay returns the cached sheet for a day, or shared.ErrNotFound on miss.
	GetDay(ctx context.Context, day Day) ([]*Event, error)

	// SetDay caches the sheet for a day with the given TTL.
	SetDay(ctx context.Context, day Day, events []*Event, ttl time.Duration) error

	// InvalidateDay drops the cached sheet for a day.
	InvalidateDay(ctx context.Context, day Day) error
}
