// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/attendance"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
	"github.com/enlystreetwear-png/AR-karate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ATTENDANCE SHEET QUERY
// The sheet is the list of everyone marked present on one calendar day, in
// the order they were recorded. This is what a teacher sees during class.
// ══════════════════════════════════════════════════════════════════════════════

// sheetCacheTTL keeps cached sheets short-lived. Mutations invalidate the day
// anyway; the TTL only bounds staleness if an invalidation is lost.
const sheetCacheTTL = 30 * time.Second

// GetAttendanceSheetQuery requests the sheet for one day.
type GetAttendanceSheetQuery struct {
	// Date is the calendar day in YYYY-MM-DD form. Empty means today (UTC).
	Date string
}

// SheetEntry is one row of the daily sheet.
type SheetEntry struct {
	EventID     attendance.EventID
	StudentID   string
	StudentName string
	Belt        string
	RecordedAt  time.Time
}

// AttendanceSheetResult is the sheet for one day.
type AttendanceSheetResult struct {
	Date    attendance.Day
	Entries []SheetEntry
}

// GetAttendanceSheetHandler handles the GetAttendanceSheetQuery.
type GetAttendanceSheetHandler struct {
	ledger attendance.Ledger
	cache  attendance.SheetCache
	log    *logger.Logger
}

// NewGetAttendanceSheetHandler creates a new GetAttendanceSheetHandler.
// cache may be nil when caching is disabled.
func NewGetAttendanceSheetHandler(
	ledger attendance.Ledger,
	cache attendance.SheetCache,
	log *logger.Logger,
) *GetAttendanceSheetHandler {
	return &GetAttendanceSheetHandler{
		ledger: ledger,
		cache:  cache,
		log:    log,
	}
}

// Handle executes the query.
func (h *GetAttendanceSheetHandler) Handle(ctx context.Context, q GetAttendanceSheetQuery) (*AttendanceSheetResult, error) {
	day := attendance.Today()
	if q.Date != "" {
		parsed, err := attendance.ParseDay(q.Date)
		if err != nil {
			return nil, shared.WrapError("attendance", "GetSheet", shared.ErrValidation, "invalid date", err)
		}
		day = parsed
	}

	events, err := h.loadDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("get_attendance_sheet: %w", err)
	}

	// Order by mark time so the sheet reads in arrival order.
	sort.Slice(events, func(i, j int) bool {
		return events[i].RecordedAt.Before(events[j].RecordedAt)
	})

	entries := make([]SheetEntry, 0, len(events))
	for _, e := range events {
		entries = append(entries, SheetEntry{
			EventID:     e.ID,
			StudentID:   e.StudentID,
			StudentName: e.Student.Name,
			Belt:        e.Student.Belt.String(),
			RecordedAt:  e.RecordedAt,
		})
	}

	return &AttendanceSheetResult{Date: day, Entries: entries}, nil
}

// loadDay reads the day's events, consulting the cache first. Cache errors
// fall back to the ledger; a failed cache fill is logged and ignored.
func (h *GetAttendanceSheetHandler) loadDay(ctx context.Context, day attendance.Day) ([]*attendance.Event, error) {
	if h.cache != nil {
		cached, err := h.cache.GetDay(ctx, day)
		if err == nil {
			return cached, nil
		}
		if !shared.IsNotFound(err) {
			h.log.Warn(ctx, "sheet cache read failed",
				logger.Date(string(day)),
				logger.Err(err),
			)
		}
	}

	events, err := h.ledger.ListByDay(ctx, day)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.SetDay(ctx, day, events, sheetCacheTTL); err != nil {
			h.log.Warn(ctx, "sheet cache fill failed",
				logger.Date(string(day)),
				logger.Err(err),
			)
		}
	}

	return events, nil
}
