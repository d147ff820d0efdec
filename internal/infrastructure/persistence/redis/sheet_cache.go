package redis

import (
	"context"
	"errors"
	"time"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/attendance"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// SHEET CACHE IMPLEMENTATION
// Caches one day's attendance events under a single key. The ledger stays
// the source of truth; marks and unmarks invalidate the day.
// ══════════════════════════════════════════════════════════════════════════════

// cachedEvent is the JSON shape of one event in a cached sheet.
type cachedEvent struct {
	EventID     string    `json:"event_id"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	StudentBelt string    `json:"student_belt"`
	Date        string    `json:"date"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// SheetCache implements attendance.SheetCache backed by Redis.
type SheetCache struct {
	cache *Cache
}

// NewSheetCache creates a new SheetCache.
func NewSheetCache(cache *Cache) *SheetCache {
	return &SheetCache{cache: cache}
}

// GetDay returns the cached sheet for a day. A miss maps to
// shared.ErrNotFound so callers can use the usual not-found check.
func (c *SheetCache) GetDay(ctx context.Context, day attendance.Day) ([]*attendance.Event, error) {
	var cached []cachedEvent
	err := c.cache.Get(ctx, SheetKey(string(day)), &cached)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	events := make([]*attendance.Event, 0, len(cached))
	for _, ce := range cached {
		events = append(events, &attendance.Event{
			ID:        attendance.EventID(ce.EventID),
			StudentID: ce.StudentID,
			Student: attendance.Snapshot{
				Name: ce.StudentName,
				Belt: student.Belt(ce.StudentBelt),
			},
			Date:       attendance.Day(ce.Date),
			RecordedAt: ce.RecordedAt,
		})
	}

	return events, nil
}

// SetDay caches the sheet for a day.
func (c *SheetCache) SetDay(ctx context.Context, day attendance.Day, events []*attendance.Event, ttl time.Duration) error {
	cached := make([]cachedEvent, 0, len(events))
	for _, e := range events {
		cached = append(cached, cachedEvent{
			EventID:     string(e.ID),
			StudentID:   e.StudentID,
			StudentName: e.Student.Name,
			StudentBelt: string(e.Student.Belt),
			Date:        string(e.Date),
			RecordedAt:  e.RecordedAt,
		})
	}

	return c.cache.Set(ctx, SheetKey(string(day)), cached, ttl)
}

// InvalidateDay drops the cached sheet for a day.
func (c *SheetCache) InvalidateDay(ctx context.Context, day attendance.Day) error {
	return c.cache.Delete(ctx, SheetKey(string(day)))
}

// InvalidateAll drops every cached daily sheet.
func (c *SheetCache) InvalidateAll(ctx context.Context) error {
	return c.cache.DeleteByPattern(ctx, PrefixSheet+"*")
}
