// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/attendance"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/student"
	"github.com/enlystreetwear-png/AR-karate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK ATTENDANCE COMMAND
// Records a student as present on a calendar day. At most one event can exist
// per student per day; a repeated mark is rejected, not overwritten.
// ══════════════════════════════════════════════════════════════════════════════

// MarkAttendanceCommand contains the data to mark attendance.
type MarkAttendanceCommand struct {
	// StudentID is the id of the student being marked present.
	StudentID string

	// Date is the calendar day in YYYY-MM-DD form. Empty means today (UTC).
	Date string
}

// Validate validates the command.
func (c MarkAttendanceCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("mark_attendance: student_id is required")
	}
	if c.Date != "" {
		if _, err := attendance.ParseDay(c.Date); err != nil {
			return fmt.Errorf("mark_attendance: %w", err)
		}
	}
	return nil
}

// MarkAttendanceResult contains the result of marking attendance.
type MarkAttendanceResult struct {
	// EventID is the id of the created event.
	EventID attendance.EventID

	// StudentName is the name recorded in the event's snapshot.
	StudentName string

	// Date is the day the student was marked present on.
	Date attendance.Day

	// RecordedAt is the store-assigned write timestamp.
	RecordedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// MarkAttendanceHandler handles the MarkAttendanceCommand.
type MarkAttendanceHandler struct {
	studentRepo student.Repository
	ledger      attendance.Ledger
	sheetCache  attendance.SheetCache
	log         *logger.Logger
}

// NewMarkAttendanceHandler creates a new MarkAttendanceHandler.
// sheetCache may be nil when caching is disabled.
func NewMarkAttendanceHandler(
	studentRepo student.Repository,
	ledger attendance.Ledger,
	sheetCache attendance.SheetCache,
	log *logger.Logger,
) *MarkAttendanceHandler {
	return &MarkAttendanceHandler{
		studentRepo: studentRepo,
		ledger:      ledger,
		sheetCache:  sheetCache,
		log:         log,
	}
}

// Handle executes the mark attendance command.
//
// The flow is: resolve the student (unknown student fails the mark with no
// write), freeze a profile snapshot into the event, then append. The append
// itself is the only duplicate check; the store's atomic create closes the
// race between two concurrent marks for the same student and day.
func (h *MarkAttendanceHandler) Handle(ctx context.Context, cmd MarkAttendanceCommand) (*MarkAttendanceResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("attendance", "Mark", shared.ErrValidation, "invalid command", err)
	}

	day := attendance.Today()
	if cmd.Date != "" {
		day = attendance.Day(cmd.Date)
	}

	stud, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("mark_attendance: resolve student: %w", err)
	}

	event, err := attendance.NewEvent(stud.ID, attendance.SnapshotOf(stud), day)
	if err != nil {
		return nil, shared.WrapError("attendance", "Mark", shared.ErrValidation, "invalid event", err)
	}

	if err := h.ledger.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("mark_attendance: %w", err)
	}

	h.invalidateSheet(ctx, day)

	h.log.Info(ctx, "attendance marked",
		logger.StudentID(stud.ID),
		logger.EventID(string(event.ID)),
		logger.Date(string(day)),
	)

	return &MarkAttendanceResult{
		EventID:     event.ID,
		StudentName: event.Student.Name,
		Date:        day,
		RecordedAt:  event.RecordedAt,
	}, nil
}

// invalidateSheet drops the cached sheet for the day. Cache trouble is
// logged and swallowed: the ledger write already succeeded.
func (h *MarkAttendanceHandler) invalidateSheet(ctx context.Context, day attendance.Day) {
	if h.sheetCache == nil {
		return
	}
	if err := h.sheetCache.InvalidateDay(ctx, day); err != nil {
		h.log.Warn(ctx, "sheet cache invalidation failed",
			logger.Date(string(day)),
			logger.Err(err),
		)
	}
}
