package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/attendance"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/student"
)

func TestGetMonthlyStats(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()

	at := func(day int, hour, min int) time.Time {
		return time.Date(2026, 2, day, hour, min, 0, 0, time.UTC)
	}

	// Two class days for Aruzhan, three class days school-wide.
	ledger.seed("S-1001", "Aruzhan", student.BeltGreen, "2026-02-05", at(5, 18, 30))
	ledger.seed("S-1001", "Aruzhan", student.BeltGreen, "2026-02-12", at(12, 18, 45))
	ledger.seed("S-2002", "Miras", student.BeltWhite, "2026-02-05", at(5, 18, 31))
	ledger.seed("S-2002", "Miras", student.BeltWhite, "2026-02-20", at(20, 19, 0))

	// Noise outside the month must not count.
	ledger.seed("S-1001", "Aruzhan", student.BeltGreen, "2026-01-31", at(1, 18, 0))
	ledger.seed("S-1001", "Aruzhan", student.BeltGreen, "2026-03-01", at(1, 18, 0))

	handler := NewGetMonthlyStatsHandler(ledger, testLogger())

	res, err := handler.Handle(ctx, GetMonthlyStatsQuery{StudentID: "S-1001", Month: "2026-02"})
	assert.NoError(t, err)
	assert.Equal(t, "S-1001", res.StudentID)
	assert.Equal(t, attendance.Month("2026-02"), res.Month)
	assert.Equal(t, 2, res.PresentCount)
	assert.Equal(t, 3, res.TotalClassDays, "class days count every student's distinct dates")

	// Records come back newest first with display times.
	assert.Len(t, res.RecentRecords, 2)
	assert.Equal(t, attendance.Day("2026-02-12"), res.RecentRecords[0].Date)
	assert.Equal(t, "18:45", res.RecentRecords[0].Time)
	assert.Equal(t, attendance.Day("2026-02-05"), res.RecentRecords[1].Date)
	assert.Equal(t, "18:30", res.RecentRecords[1].Time)
}

func TestGetMonthlyStats_MissingTimestampGetsPlaceholder(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	ledger.seed("S-1001", "Aruzhan", student.BeltGreen, "2026-02-05", time.Time{})

	handler := NewGetMonthlyStatsHandler(ledger, testLogger())

	res, err := handler.Handle(ctx, GetMonthlyStatsQuery{StudentID: "S-1001", Month: "2026-02"})
	assert.NoError(t, err)
	assert.Len(t, res.RecentRecords, 1)
	assert.Equal(t, "—", res.RecentRecords[0].Time)
}

func TestGetMonthlyStats_UnknownStudentReportsZero(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	ledger.seed("S-2002", "Miras", student.BeltWhite, "2026-02-05", time.Date(2026, 2, 5, 18, 0, 0, 0, time.UTC))

	handler := NewGetMonthlyStatsHandler(ledger, testLogger())

	// An id with no events is not an error; it just attended nothing.
	res, err := handler.Handle(ctx, GetMonthlyStatsQuery{StudentID: "ghost", Month: "2026-02"})
	assert.NoError(t, err)
	assert.Equal(t, 0, res.PresentCount)
	assert.Equal(t, 1, res.TotalClassDays)
	assert.Empty(t, res.RecentRecords)
}

func TestGetMonthlyStats_MonthEndIsInclusive(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	ledger.seed("S-1001", "Aruzhan", student.BeltGreen, "2026-02-28", time.Date(2026, 2, 28, 18, 0, 0, 0, time.UTC))
	ledger.seed("S-1001", "Aruzhan", student.BeltGreen, "2026-12-31", time.Date(2026, 12, 31, 18, 0, 0, 0, time.UTC))

	handler := NewGetMonthlyStatsHandler(ledger, testLogger())

	res, err := handler.Handle(ctx, GetMonthlyStatsQuery{StudentID: "S-1001", Month: "2026-02"})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.PresentCount, "the last day of a short month is still inside the month")

	// A 31st is caught by the month's own upper bound.
	res, err = handler.Handle(ctx, GetMonthlyStatsQuery{StudentID: "S-1001", Month: "2026-12"})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.PresentCount)
}

func TestGetMonthlyStats_Validation(t *testing.T) {
	ctx := context.Background()
	handler := NewGetMonthlyStatsHandler(newFakeLedger(), testLogger())

	_, err := handler.Handle(ctx, GetMonthlyStatsQuery{StudentID: "", Month: "2026-02"})
	assert.True(t, shared.IsValidation(err))

	_, err = handler.Handle(ctx, GetMonthlyStatsQuery{StudentID: "S-1001", Month: "02/2026"})
	assert.ErrorIs(t, err, attendance.ErrInvalidMonth)
}
