package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/student"
	"github.com/enlystreetwear-png/AR-karate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT MANAGEMENT COMMANDS
// Enroll, update, and remove students. Students are reference data for the
// ledger; removing a student leaves their historical events untouched, because
// events carry their own name and belt snapshots.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentCommand contains the data to enroll a student.
type RegisterStudentCommand struct {
	// ID is the externally assigned enrollment id.
	ID string

	// Name is the student's display name.
	Name string

	// Belt is the starting belt rank.
	Belt string

	// Optional enrollment paperwork fields.
	DateOfBirth  string
	Age          int
	WeightKG     float64
	GovernmentID string
	GuardianName string
	ContactPhone string
	PhotoURL     string
}

// RegisterStudentResult contains the enrolled student.
type RegisterStudentResult struct {
	Student *student.Student
}

// UpdateStudentCommand contains the fields to change on a student.
// Nil pointers mean "leave unchanged".
type UpdateStudentCommand struct {
	// ID identifies the student to update.
	ID string

	Name         *string
	Belt         *string
	DateOfBirth  *string
	Age          *int
	WeightKG     *float64
	GovernmentID *string
	GuardianName *string
	ContactPhone *string
	PhotoURL     *string
}

// Validate validates the update command.
func (c UpdateStudentCommand) Validate() error {
	if c.ID == "" {
		return errors.New("update_student: id is required")
	}
	return nil
}

// UpdateStudentResult contains the updated student.
type UpdateStudentResult struct {
	Student *student.Student
}

// RemoveStudentCommand identifies the student to remove.
type RemoveStudentCommand struct {
	ID string
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ManageStudentsHandler handles student enrollment lifecycle commands.
type ManageStudentsHandler struct {
	studentRepo student.Repository
	cache       student.Cache
	log         *logger.Logger
}

// NewManageStudentsHandler creates a new ManageStudentsHandler.
// cache may be nil when caching is disabled.
func NewManageStudentsHandler(
	studentRepo student.Repository,
	cache student.Cache,
	log *logger.Logger,
) *ManageStudentsHandler {
	return &ManageStudentsHandler{
		studentRepo: studentRepo,
		cache:       cache,
		log:         log,
	}
}

// Register enrolls a new student.
func (h *ManageStudentsHandler) Register(ctx context.Context, cmd RegisterStudentCommand) (*RegisterStudentResult, error) {
	stud, err := student.NewStudent(student.NewStudentParams{
		ID:           cmd.ID,
		Name:         cmd.Name,
		Belt:         student.Belt(cmd.Belt),
		DateOfBirth:  cmd.DateOfBirth,
		Age:          cmd.Age,
		WeightKG:     cmd.WeightKG,
		GovernmentID: cmd.GovernmentID,
		GuardianName: cmd.GuardianName,
		ContactPhone: cmd.ContactPhone,
		PhotoURL:     cmd.PhotoURL,
	})
	if err != nil {
		return nil, shared.WrapError("student", "Register", shared.ErrValidation, "invalid student", err)
	}

	if err := h.studentRepo.Create(ctx, stud); err != nil {
		return nil, fmt.Errorf("register_student: %w", err)
	}

	h.log.Info(ctx, "student registered",
		logger.StudentID(stud.ID),
		logger.F("belt", stud.Belt.String()),
	)

	return &RegisterStudentResult{Student: stud}, nil
}

// Update changes a student's mutable fields. Historical attendance events
// are not rewritten: they keep the snapshot taken at mark time.
func (h *ManageStudentsHandler) Update(ctx context.Context, cmd UpdateStudentCommand) (*UpdateStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("student", "Update", shared.ErrValidation, "invalid command", err)
	}

	stud, err := h.studentRepo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, fmt.Errorf("update_student: %w", err)
	}

	if cmd.Name != nil {
		if err := stud.Rename(*cmd.Name); err != nil {
			return nil, shared.WrapError("student", "Update", shared.ErrValidation, "invalid name", err)
		}
	}
	if cmd.Belt != nil {
		if err := stud.Promote(student.Belt(*cmd.Belt)); err != nil {
			return nil, shared.WrapError("student", "Update", shared.ErrValidation, "invalid belt", err)
		}
	}
	if cmd.DateOfBirth != nil {
		stud.DateOfBirth = *cmd.DateOfBirth
	}
	if cmd.Age != nil {
		stud.Age = *cmd.Age
	}
	if cmd.WeightKG != nil {
		stud.WeightKG = *cmd.WeightKG
	}
	if cmd.GovernmentID != nil {
		stud.GovernmentID = *cmd.GovernmentID
	}
	if cmd.GuardianName != nil {
		stud.GuardianName = *cmd.GuardianName
	}
	if cmd.ContactPhone != nil {
		stud.ContactPhone = *cmd.ContactPhone
	}
	if cmd.PhotoURL != nil {
		stud.PhotoURL = *cmd.PhotoURL
	}

	if err := h.studentRepo.Update(ctx, stud); err != nil {
		return nil, fmt.Errorf("update_student: %w", err)
	}

	h.invalidate(ctx, stud.ID)

	h.log.Info(ctx, "student updated", logger.StudentID(stud.ID))

	return &UpdateStudentResult{Student: stud}, nil
}

// Remove deletes a student. Attendance history for the student stays in the
// ledger with its snapshots intact.
func (h *ManageStudentsHandler) Remove(ctx context.Context, cmd RemoveStudentCommand) error {
	if cmd.ID == "" {
		return shared.NewDomainError("student", "Remove", shared.ErrValidation, "id is required")
	}

	if err := h.studentRepo.Delete(ctx, cmd.ID); err != nil {
		return fmt.Errorf("remove_student: %w", err)
	}

	h.invalidate(ctx, cmd.ID)

	h.log.Info(ctx, "student removed", logger.StudentID(cmd.ID))

	return nil
}

// invalidate drops the student's cache entry. Cache trouble is logged and
// swallowed: the store write already succeeded.
func (h *ManageStudentsHandler) invalidate(ctx context.Context, studentID string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(ctx, studentID); err != nil {
		h.log.Warn(ctx, "student cache invalidation failed",
			logger.StudentID(studentID),
			logger.Err(err),
		)
	}
}
