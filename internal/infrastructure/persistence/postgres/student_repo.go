package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// studentColumns is the canonical column list, kept in one place so every
// query scans the same shape.
const studentColumns = `id, name, belt, dob, age, weight_kg, government_id,
	   guardian_name, contact_phone, photo_url, created_at, updated_at`

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new student.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (
			id, name, belt, dob, age, weight_kg, government_id,
			guardian_name, contact_phone, photo_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.Name,
		string(s.Belt),
		s.DateOfBirth,
		s.Age,
		s.WeightKG,
		s.GovernmentID,
		s.GuardianName,
		s.ContactPhone,
		s.PhotoURL,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return student.ErrStudentAlreadyExists
		}
		return shared.Upstream("student", "Create", err)
	}

	return nil
}

// GetByID returns a student by id.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanStudent(row)
}

// Update overwrites a student's mutable fields.
func (r *StudentRepository) Update(ctx context.Context, s *student.Student) error {
	query := `
		UPDATE students SET
			name = $1,
			belt = $2,
			dob = $3,
			age = $4,
			weight_kg = $5,
			government_id = $6,
			guardian_name = $7,
			contact_phone = $8,
			photo_url = $9,
			updated_at = $10
		WHERE id = $11
	`

	result, err := r.conn.Exec(ctx, query,
		s.Name,
		string(s.Belt),
		s.DateOfBirth,
		s.Age,
		s.WeightKG,
		s.GovernmentID,
		s.GuardianName,
		s.ContactPhone,
		s.PhotoURL,
		time.Now().UTC(),
		s.ID,
	)
	if err != nil {
		return shared.Upstream("student", "Update", err)
	}

	if result.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}

	return nil
}

// Delete removes a student. Attendance events are unaffected: the ledger
// keeps its own name and belt snapshots, so history survives the roster.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return shared.Upstream("student", "Delete", err)
	}

	if result.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing & Search
// ─────────────────────────────────────────────────────────────────────────────

// GetAll returns all students with pagination.
func (r *StudentRepository) GetAll(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM students
		ORDER BY %s
		LIMIT $1 OFFSET $2
	`, studentColumns, orderClause(opts))

	rows, err := r.conn.Query(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, shared.Upstream("student", "GetAll", err)
	}
	defer rows.Close()

	return r.scanStudents(rows)
}

// Search finds students whose name or id matches the query.
func (r *StudentRepository) Search(ctx context.Context, search string, opts student.ListOptions) ([]*student.Student, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM students
		WHERE name ILIKE $1 OR id ILIKE $1
		ORDER BY %s
		LIMIT $2 OFFSET $3
	`, studentColumns, orderClause(opts))

	rows, err := r.conn.Query(ctx, query, "%"+search+"%", opts.Limit, opts.Offset)
	if err != nil {
		return nil, shared.Upstream("student", "Search", err)
	}
	defer rows.Close()

	return r.scanStudents(rows)
}

// Exists checks existence without fetching the full record.
func (r *StudentRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, shared.Upstream("student", "Exists", err)
	}
	return exists, nil
}

// Count returns the total number of students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, shared.Upstream("student", "Count", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning helpers
// ─────────────────────────────────────────────────────────────────────────────

// orderClause maps ListOptions to a known ORDER BY clause. The sort column
// is whitelisted, never interpolated from user input.
func orderClause(opts student.ListOptions) string {
	column := "name"
	switch opts.SortBy {
	case "belt":
		column = "belt"
	case "created_at":
		column = "created_at"
	}
	if opts.SortDesc {
		return column + " DESC"
	}
	return column + " ASC"
}

func (r *StudentRepository) scanStudent(row pgx.Row) (*student.Student, error) {
	var s student.Student
	var belt string

	err := row.Scan(
		&s.ID,
		&s.Name,
		&belt,
		&s.DateOfBirth,
		&s.Age,
		&s.WeightKG,
		&s.GovernmentID,
		&s.GuardianName,
		&s.ContactPhone,
		&s.PhotoURL,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, student.ErrStudentNotFound
		}
		return nil, shared.Upstream("student", "Scan", err)
	}

	s.Belt = student.Belt(belt)
	return &s, nil
}

func (r *StudentRepository) scanStudents(rows pgx.Rows) ([]*student.Student, error) {
	students := make([]*student.Student, 0)
	for rows.Next() {
		s, err := r.scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
