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
// GET ATTENDANCE REPORT QUERY
// A report covers a date range across all students: every event whose date
// falls inside the inclusive bounds, grouped by day for display.
// ══════════════════════════════════════════════════════════════════════════════

// GetAttendanceReportQuery requests all events in an inclusive date range.
type GetAttendanceReportQuery struct {
	// Start is the first day of the range, YYYY-MM-DD.
	Start string

	// End is the last day of the range, YYYY-MM-DD. Inclusive.
	End string
}

// Validate validates the query.
func (q GetAttendanceReportQuery) Validate() error {
	start, err := attendance.ParseDay(q.Start)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	end, err := attendance.ParseDay(q.End)
	if err != nil {
		return fmt.Errorf("end: %w", err)
	}
	if end.Before(start) {
		return attendance.ErrInvalidRange
	}
	return nil
}

// ReportRow is one event in the report.
type ReportRow struct {
	EventID     attendance.EventID
	StudentID   string
	StudentName string
	Belt        string
	Date        attendance.Day
	RecordedAt  time.Time
}

// ReportDay groups a report's rows by calendar day.
type ReportDay struct {
	Date attendance.Day
	Rows []ReportRow
}

// AttendanceReportResult is the report over a range.
type AttendanceReportResult struct {
	Start attendance.Day
	End   attendance.Day

	// Days lists the class days in the range, oldest first. Days with no
	// events do not appear.
	Days []ReportDay

	// TotalEvents is the number of events across all days.
	TotalEvents int
}

// GetAttendanceReportHandler handles the GetAttendanceReportQuery.
type GetAttendanceReportHandler struct {
	ledger attendance.Ledger
	log    *logger.Logger
}

// NewGetAttendanceReportHandler creates a new GetAttendanceReportHandler.
func NewGetAttendanceReportHandler(ledger attendance.Ledger, log *logger.Logger) *GetAttendanceReportHandler {
	return &GetAttendanceReportHandler{ledger: ledger, log: log}
}

// Handle executes the query.
func (h *GetAttendanceReportHandler) Handle(ctx context.Context, q GetAttendanceReportQuery) (*AttendanceReportResult, error) {
	if err := q.Validate(); err != nil {
		return nil, shared.WrapError("attendance", "GetReport", shared.ErrValidation, "invalid range", err)
	}

	start := attendance.Day(q.Start)
	end := attendance.Day(q.End)

	events, err := h.ledger.ListRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("get_attendance_report: %w", err)
	}

	byDay := make(map[attendance.Day][]ReportRow)
	for _, e := range events {
		byDay[e.Date] = append(byDay[e.Date], ReportRow{
			EventID:     e.ID,
			StudentID:   e.StudentID,
			StudentName: e.Student.Name,
			Belt:        e.Student.Belt.String(),
			Date:        e.Date,
			RecordedAt:  e.RecordedAt,
		})
	}

	days := make([]ReportDay, 0, len(byDay))
	for date, rows := range byDay {
		sort.Slice(rows, func(i, j int) bool {
			return rows[i].RecordedAt.Before(rows[j].RecordedAt)
		})
		days = append(days, ReportDay{Date: date, Rows: rows})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})

	return &AttendanceReportResult{
		Start:       start,
		End:         end,
		Days:        days,
		TotalEvents: len(events),
	}, nil
}
