package query

import (
	"context"
	"fmt"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/attendance"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
	"github.com/enlystreetwear-png/AR-karate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET MONTHLY STATS QUERY
// Per-student attendance summary for one calendar month: how many classes the
// student attended, out of how many class days the school held, plus the most
// recent individual records for display.
// ══════════════════════════════════════════════════════════════════════════════

// recentRecordsLimit caps the per-month record list. A month has at most 31
// days and the ledger holds at most one event per student per day, so the cap
// can never truncate a real month.
const recentRecordsLimit = 31

// timeOfDayFormat renders the mark time for display.
const timeOfDayFormat = "15:04"

// timeUnknownPlaceholder stands in for events persisted without a timestamp.
const timeUnknownPlaceholder = "—"

// GetMonthlyStatsQuery requests one student's stats for one month.
type GetMonthlyStatsQuery struct {
	// StudentID identifies the student.
	StudentID string

	// Month is the calendar month in YYYY-MM form. Empty means the current
	// month (UTC).
	Month string
}

// AttendanceRecord is one attended day, reduced to display form.
type AttendanceRecord struct {
	// Date is the attended day, YYYY-MM-DD.
	Date attendance.Day

	// Time is the mark time as HH:MM, or a placeholder when unknown.
	Time string
}

// MonthlyStatsResult is the per-student monthly summary.
type MonthlyStatsResult struct {
	StudentID string
	Month     attendance.Month

	// PresentCount is the number of days the student attended in the month.
	PresentCount int

	// TotalClassDays is the number of distinct days in the month on which
	// anyone at all attended. It is the denominator for an attendance rate:
	// a day nobody attended is not a class day.
	TotalClassDays int

	// RecentRecords lists the student's attended days, newest first.
	RecentRecords []AttendanceRecord
}

// GetMonthlyStatsHandler handles the GetMonthlyStatsQuery.
type GetMonthlyStatsHandler struct {
	ledger attendance.Ledger
	log    *logger.Logger
}

// NewGetMonthlyStatsHandler creates a new GetMonthlyStatsHandler.
func NewGetMonthlyStatsHandler(ledger attendance.Ledger, log *logger.Logger) *GetMonthlyStatsHandler {
	return &GetMonthlyStatsHandler{ledger: ledger, log: log}
}

// Handle executes the query.
//
// An unknown student id is not an error here: it simply has no events, and
// the result reports zero attendance against the school's class days.
func (h *GetMonthlyStatsHandler) Handle(ctx context.Context, q GetMonthlyStatsQuery) (*MonthlyStatsResult, error) {
	if q.StudentID == "" {
		return nil, shared.NewDomainError("attendance", "GetMonthlyStats", shared.ErrValidation, "student_id is required")
	}

	month := attendance.ThisMonth()
	if q.Month != "" {
		parsed, err := attendance.ParseMonth(q.Month)
		if err != nil {
			return nil, shared.WrapError("attendance", "GetMonthlyStats", shared.ErrValidation, "invalid month", err)
		}
		month = parsed
	}

	from, to := month.Start(), month.End()

	events, err := h.ledger.ListForStudent(ctx, q.StudentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get_monthly_stats: student events: %w", err)
	}

	classDays, err := h.ledger.CountDistinctDays(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("get_monthly_stats: class days: %w", err)
	}

	records := make([]AttendanceRecord, 0, len(events))
	for _, e := range events {
		if len(records) == recentRecordsLimit {
			break
		}
		t := timeUnknownPlaceholder
		if !e.RecordedAt.IsZero() {
			t = e.RecordedAt.Format(timeOfDayFormat)
		}
		records = append(records, AttendanceRecord{Date: e.Date, Time: t})
	}

	return &MonthlyStatsResult{
		StudentID:      q.StudentID,
		Month:          month,
		PresentCount:   len(events),
		TotalClassDays: classDays,
		RecentRecords:  records,
	}, nil
}
