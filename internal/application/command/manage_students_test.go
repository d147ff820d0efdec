package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/student"
)

func TestRegisterStudent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStudentRepo()
	handler := NewManageStudentsHandler(repo, nil, testLogger())

	res, err := handler.Register(ctx, RegisterStudentCommand{
		ID:           "S-1001",
		Name:         "Aruzhan Bekova",
		Belt:         "green",
		Age:          12,
		GuardianName: "Dana Bekova",
	})
	assert.NoError(t, err)
	assert.Equal(t, "S-1001", res.Student.ID)
	assert.Equal(t, student.BeltGreen, res.Student.Belt)

	stored, err := repo.GetByID(ctx, "S-1001")
	assert.NoError(t, err)
	assert.Equal(t, "Aruzhan Bekova", stored.Name)
}

func TestRegisterStudent_DuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStudentRepo(mustStudent("S-1001", "Aruzhan", student.BeltGreen))
	handler := NewManageStudentsHandler(repo, nil, testLogger())

	_, err := handler.Register(ctx, RegisterStudentCommand{ID: "S-1001", Name: "Other", Belt: "white"})
	assert.ErrorIs(t, err, student.ErrStudentAlreadyExists)
}

func TestRegisterStudent_InvalidBelt(t *testing.T) {
	ctx := context.Background()
	handler := NewManageStudentsHandler(newFakeStudentRepo(), nil, testLogger())

	_, err := handler.Register(ctx, RegisterStudentCommand{ID: "S-1001", Name: "Aruzhan", Belt: "crimson"})
	assert.ErrorIs(t, err, student.ErrInvalidBelt)
}

func TestUpdateStudent_PartialPatch(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStudentRepo(mustStudent("S-1001", "Aruzhan", student.BeltGreen))
	handler := NewManageStudentsHandler(repo, nil, testLogger())

	belt := "blue"
	res, err := handler.Update(ctx, UpdateStudentCommand{ID: "S-1001", Belt: &belt})
	assert.NoError(t, err)
	assert.Equal(t, student.BeltBlue, res.Student.Belt)
	assert.Equal(t, "Aruzhan", res.Student.Name, "unset fields stay unchanged")

	stored, err := repo.GetByID(ctx, "S-1001")
	assert.NoError(t, err)
	assert.Equal(t, student.BeltBlue, stored.Belt)
}

func TestUpdateStudent_UnknownStudent(t *testing.T) {
	ctx := context.Background()
	handler := NewManageStudentsHandler(newFakeStudentRepo(), nil, testLogger())

	name := "Someone"
	_, err := handler.Update(ctx, UpdateStudentCommand{ID: "ghost", Name: &name})
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
}

func TestRemoveStudent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeStudentRepo(mustStudent("S-1001", "Aruzhan", student.BeltGreen))
	handler := NewManageStudentsHandler(repo, nil, testLogger())

	assert.NoError(t, handler.Remove(ctx, RemoveStudentCommand{ID: "S-1001"}))

	_, err := repo.GetByID(ctx, "S-1001")
	assert.ErrorIs(t, err, student.ErrStudentNotFound)

	assert.ErrorIs(t, handler.Remove(ctx, RemoveStudentCommand{ID: "S-1001"}), student.ErrStudentNotFound)
}

func TestRemoveStudent_KeepsLedgerHistory(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	repo := newFakeStudentRepo(mustStudent("S-1001", "Aruzhan", student.BeltGreen))
	mark := NewMarkAttendanceHandler(repo, ledger, nil, testLogger())
	manage := NewManageStudentsHandler(repo, nil, testLogger())

	marked, err := mark.Handle(ctx, MarkAttendanceCommand{StudentID: "S-1001", Date: "2026-02-05"})
	assert.NoError(t, err)

	assert.NoError(t, manage.Remove(ctx, RemoveStudentCommand{ID: "S-1001"}))

	// The event survives with its own snapshot of the profile.
	stored, err := ledger.Get(ctx, marked.EventID)
	assert.NoError(t, err)
	assert.Equal(t, "Aruzhan", stored.Student.Name)
	assert.Equal(t, student.BeltGreen, stored.Student.Belt)
}
