package query

import (
	"context"
	"fmt"
	"time"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/student"
	"github.com/enlystreetwear-png/AR-karate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// studentCacheTTL bounds staleness of cached student profiles.
const studentCacheTTL = 5 * time.Minute

// GetStudentHandler returns a single student, reading through the cache.
type GetStudentHandler struct {
	studentRepo student.Repository
	cache       student.Cache
	log         *logger.Logger
}

// NewGetStudentHandler creates a new GetStudentHandler.
// cache may be nil when caching is disabled.
func NewGetStudentHandler(studentRepo student.Repository, cache student.Cache, log *logger.Logger) *GetStudentHandler {
	return &GetStudentHandler{studentRepo: studentRepo, cache: cache, log: log}
}

// Handle returns the student with the given id.
func (h *GetStudentHandler) Handle(ctx context.Context, id string) (*student.Student, error) {
	if id == "" {
		return nil, shared.NewDomainError("student", "Get", shared.ErrValidation, "id is required")
	}

	if h.cache != nil {
		cached, err := h.cache.Get(ctx, id)
		if err == nil {
			return cached, nil
		}
		if !shared.IsNotFound(err) {
			h.log.Warn(ctx, "student cache read failed",
				logger.StudentID(id),
				logger.Err(err),
			)
		}
	}

	stud, err := h.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get_student: %w", err)
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, stud, studentCacheTTL); err != nil {
			h.log.Warn(ctx, "student cache fill failed",
				logger.StudentID(id),
				logger.Err(err),
			)
		}
	}

	return stud, nil
}

// ListStudentsQuery requests a page of the roster.
type ListStudentsQuery struct {
	// Search filters by name or id substring when non-empty.
	Search string

	// Offset and Limit paginate the result. Zero Limit means the default.
	Offset int
	Limit  int
}

// ListStudentsResult is one page of the roster.
type ListStudentsResult struct {
	Students []*student.Student

	// Total is the roster size irrespective of pagination.
	Total int
}

// ListStudentsHandler returns pages of the roster.
type ListStudentsHandler struct {
	studentRepo student.Repository
	log         *logger.Logger
}

// NewListStudentsHandler creates a new ListStudentsHandler.
func NewListStudentsHandler(studentRepo student.Repository, log *logger.Logger) *ListStudentsHandler {
	return &ListStudentsHandler{studentRepo: studentRepo, log: log}
}

// Handle executes the query.
func (h *ListStudentsHandler) Handle(ctx context.Context, q ListStudentsQuery) (*ListStudentsResult, error) {
	opts := student.DefaultListOptions().WithOffset(q.Offset).WithLimit(q.Limit)

	var (
		students []*student.Student
		err      error
	)
	if q.Search != "" {
		students, err = h.studentRepo.Search(ctx, q.Search, opts)
	} else {
		students, err = h.studentRepo.GetAll(ctx, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("list_students: %w", err)
	}

	total, err := h.studentRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_students: count: %w", err)
	}

	return &ListStudentsResult{Students: students, Total: total}, nil
}
