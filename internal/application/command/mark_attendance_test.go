package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/attendance"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/student"
)

func TestMarkAttendance(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	repo := newFakeStudentRepo(mustStudent("S-1001", "Aruzhan", student.BeltGreen))
	handler := NewMarkAttendanceHandler(repo, ledger, nil, testLogger())

	res, err := handler.Handle(ctx, MarkAttendanceCommand{StudentID: "S-1001", Date: "2026-02-05"})
	assert.NoError(t, err)
	assert.Equal(t, attendance.EventID("S-1001-2026-02-05"), res.EventID)
	assert.Equal(t, "Aruzhan", res.StudentName)
	assert.Equal(t, attendance.Day("2026-02-05"), res.Date)
	assert.False(t, res.RecordedAt.IsZero(), "store timestamp is surfaced")

	stored, err := ledger.Get(ctx, res.EventID)
	assert.NoError(t, err)
	assert.Equal(t, student.BeltGreen, stored.Student.Belt)
}

func TestMarkAttendance_DuplicateSameDay(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	repo := newFakeStudentRepo(mustStudent("S-1001", "Aruzhan", student.BeltGreen))
	handler := NewMarkAttendanceHandler(repo, ledger, nil, testLogger())

	cmd := MarkAttendanceCommand{StudentID: "S-1001", Date: "2026-02-05"}

	_, err := handler.Handle(ctx, cmd)
	assert.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)
	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)

	// A different day for the same student is fine.
	_, err = handler.Handle(ctx, MarkAttendanceCommand{StudentID: "S-1001", Date: "2026-02-06"})
	assert.NoError(t, err)
}

func TestMarkAttendance_UnknownStudent(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	handler := NewMarkAttendanceHandler(newFakeStudentRepo(), ledger, nil, testLogger())

	_, err := handler.Handle(ctx, MarkAttendanceCommand{StudentID: "ghost", Date: "2026-02-05"})
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
	assert.Equal(t, 0, ledger.appends, "a failed resolve must not touch the ledger")
}

func TestMarkAttendance_SnapshotFrozenAtMarkTime(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	stud := mustStudent("S-1001", "Aruzhan", student.BeltGreen)
	repo := newFakeStudentRepo(stud)
	handler := NewMarkAttendanceHandler(repo, ledger, nil, testLogger())

	res, err := handler.Handle(ctx, MarkAttendanceCommand{StudentID: "S-1001", Date: "2026-02-05"})
	assert.NoError(t, err)

	// Promote the student after the mark; the event keeps the old belt.
	assert.NoError(t, stud.Promote(student.BeltBlue))
	assert.NoError(t, repo.Update(ctx, stud))

	stored, err := ledger.Get(ctx, res.EventID)
	assert.NoError(t, err)
	assert.Equal(t, student.BeltGreen, stored.Student.Belt)
}

func TestMarkAttendance_StoreFailureStaysUpstream(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	ledger.appendErr = shared.Upstream("attendance", "Append",
		errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))
	repo := newFakeStudentRepo(mustStudent("S-1001", "Aruzhan", student.BeltGreen))
	handler := NewMarkAttendanceHandler(repo, ledger, nil, testLogger())

	_, err := handler.Handle(ctx, MarkAttendanceCommand{StudentID: "S-1001", Date: "2026-02-05"})
	assert.Error(t, err)
	assert.True(t, shared.IsUpstream(err), "store failures keep their upstream classification")
}

func TestMarkAttendance_Validation(t *testing.T) {
	ctx := context.Background()
	handler := NewMarkAttendanceHandler(newFakeStudentRepo(), newFakeLedger(), nil, testLogger())

	_, err := handler.Handle(ctx, MarkAttendanceCommand{})
	assert.Error(t, err)

	_, err = handler.Handle(ctx, MarkAttendanceCommand{StudentID: "S-1001", Date: "05.02.2026"})
	assert.ErrorIs(t, err, attendance.ErrInvalidDay)
}
