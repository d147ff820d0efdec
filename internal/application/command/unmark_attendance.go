package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/attendance"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
	"github.com/enlystreetwear-png/AR-karate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNMARK ATTENDANCE COMMAND
// Removes an attendance event by its id. Idempotent: unmarking an event that
// does not exist succeeds, because the desired end state (no event) holds.
// ══════════════════════════════════════════════════════════════════════════════

// UnmarkAttendanceCommand contains the data to remove an attendance event.
type UnmarkAttendanceCommand struct {
	// EventID is the composite id of the event to remove.
	EventID string
}

// Validate validates the command.
func (c UnmarkAttendanceCommand) Validate() error {
	if c.EventID == "" {
		return errors.New("unmark_attendance: event_id is required")
	}
	if _, err := attendance.ParseEventID(c.EventID); err != nil {
		return fmt.Errorf("unmark_attendance: %w", err)
	}
	return nil
}

// UnmarkAttendanceResult contains the result of removing an event.
type UnmarkAttendanceResult struct {
	// EventID is the id that was removed (or already absent).
	EventID attendance.EventID

	// Date is the day the event covered.
	Date attendance.Day
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// UnmarkAttendanceHandler handles the UnmarkAttendanceCommand.
type UnmarkAttendanceHandler struct {
	ledger     attendance.Ledger
	sheetCache attendance.SheetCache
	log        *logger.Logger
}

// NewUnmarkAttendanceHandler creates a new UnmarkAttendanceHandler.
// sheetCache may be nil when caching is disabled.
func NewUnmarkAttendanceHandler(
	ledger attendance.Ledger,
	sheetCache attendance.SheetCache,
	log *logger.Logger,
) *UnmarkAttendanceHandler {
	return &UnmarkAttendanceHandler{
		ledger:     ledger,
		sheetCache: sheetCache,
		log:        log,
	}
}

// Handle executes the unmark attendance command.
func (h *UnmarkAttendanceHandler) Handle(ctx context.Context, cmd UnmarkAttendanceCommand) (*UnmarkAttendanceResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("attendance", "Unmark", shared.ErrValidation, "invalid command", err)
	}

	id := attendance.EventID(cmd.EventID)
	_, day, err := id.Split()
	if err != nil {
		return nil, shared.WrapError("attendance", "Unmark", shared.ErrValidation, "invalid event id", err)
	}

	if err := h.ledger.Remove(ctx, id); err != nil {
		return nil, fmt.Errorf("unmark_attendance: %w", err)
	}

	if h.sheetCache != nil {
		if err := h.sheetCache.InvalidateDay(ctx, day); err != nil {
			h.log.Warn(ctx, "sheet cache invalidation failed",
				logger.Date(string(day)),
				logger.Err(err),
			)
		}
	}

	h.log.Info(ctx, "attendance unmarked",
		logger.EventID(string(id)),
		logger.Date(string(day)),
	)

	return &UnmarkAttendanceResult{EventID: id, Date: day}, nil
}
