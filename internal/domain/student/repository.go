package student

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// These interfaces define the contract for the student store.
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines CRUD operations over student reference data.
type Repository interface {
	// Create creates a new student.
	// Returns ErrStudentAlreadyExists if the id is taken.
	Create(ctx context.Context, student *Student) error

	// GetByID returns a student by id.
	// Returns ErrStudentNotFound if the student does not exist.
	GetByID(ctx context.Context, id string) (*Student, error)

	// Update overwrites a student's mutable fields.
	// Returns ErrStudentNotFound if the student does not exist.
	Update(ctx context.Context, student *Student) error

	// Delete removes a student.
	// Returns ErrStudentNotFound if the student does not exist.
	Delete(ctx context.Context, id string) error

	// GetAll returns all students with pagination.
	GetAll(ctx context.Context, opts ListOptions) ([]*Student, error)

	// Search finds students whose name or id matches the query.
	Search(ctx context.Context, query string, opts ListOptions) ([]*Student, error)

	// Exists checks existence without fetching the full record.
	Exists(ctx context.Context, id string) (bool, error)

	// Count returns the total number of students.
	Count(ctx context.Context) (int, error)
}

// ListOptions contains pagination and ordering parameters.
type ListOptions struct {
	// Offset for pagination.
	Offset int

	// Limit is the maximum number of records to return.
	Limit int

	// SortBy is the field to order by ("name", "belt", "created_at").
	SortBy string

	// SortDesc orders descending when true.
	SortDesc bool
}

// DefaultListOptions returns the default pagination parameters.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Offset: 0,
		Limit:  100,
		SortBy: "name",
	}
}

// WithOffset sets the offset. Negative values are clamped to zero.
func (o ListOptions) WithOffset(offset int) ListOptions {
	if offset < 0 {
		offset = 0
	}
	o.Offset = offset
	return o
}

// WithLimit sets the limit. Values below one keep the current limit.
func (o ListOptions) WithLimit(limit int) ListOptions {
	if limit < 1 {
		return o
	}
	o.Limit = limit
	return o
}

// ══════════════════════════════════════════════════════════════════════════════
// CACHE INTERFACE
// Implemented with Redis in infrastructure/persistence/redis.
// ══════════════════════════════════════════════════════════════════════════════

// Cache defines read-through caching of student reference data.
type Cache interface {
	// Get fetches a student from cache.
	Get(ctx context.Context, studentID string) (*Student, error)

	// Set stores a student in cache.
	Set(ctx context.Context, student *Student, ttl time.Duration) error

	// Invalidate removes a student's cache entries.
	Invalidate(ctx context.Context, studentID string) error
}
