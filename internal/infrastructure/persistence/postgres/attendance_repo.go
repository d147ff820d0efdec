package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/attendance"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE LEDGER IMPLEMENTATION
// The one-event-per-student-per-day invariant is enforced here: event_id is
// the primary key, so a second insert for the same student and day fails with
// a unique violation no matter how the requests interleave.
// ══════════════════════════════════════════════════════════════════════════════

const eventColumns = `event_id, student_id, student_name, student_belt, event_date, recorded_at`

// AttendanceRepository implements attendance.Ledger for PostgreSQL.
type AttendanceRepository struct {
	conn *Connection
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(conn *Connection) *AttendanceRepository {
	return &AttendanceRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// Writes
// ─────────────────────────────────────────────────────────────────────────────

// Append stores a new event. The database assigns recorded_at so that
// same-day ordering doesn't depend on application clocks.
func (r *AttendanceRepository) Append(ctx context.Context, e *attendance.Event) error {
	query := `
		INSERT INTO attendance_events (
			event_id, student_id, student_name, student_belt, event_date
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING recorded_at
	`

	err := r.conn.QueryRow(ctx, query,
		string(e.ID),
		e.StudentID,
		e.Student.Name,
		string(e.Student.Belt),
		string(e.Date),
	).Scan(&e.RecordedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return attendance.ErrAlreadyMarked
		}
		return shared.Upstream("attendance", "Append", err)
	}

	return nil
}

// Remove deletes an event. A zero row count is success: the event is gone
// either way, which keeps unmark idempotent.
func (r *AttendanceRepository) Remove(ctx context.Context, id attendance.EventID) error {
	_, err := r.conn.Exec(ctx,
		`DELETE FROM attendance_events WHERE event_id = $1`, string(id),
	)
	if err != nil {
		return shared.Upstream("attendance", "Remove", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Reads
// ─────────────────────────────────────────────────────────────────────────────

// Get returns the event with the given id.
func (r *AttendanceRepository) Get(ctx context.Context, id attendance.EventID) (*attendance.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM attendance_events WHERE event_id = $1`, eventColumns)

	row := r.conn.QueryRow(ctx, query, string(id))
	return r.scanEvent(row)
}

// ListByDay returns all events for one calendar day.
func (r *AttendanceRepository) ListByDay(ctx context.Context, day attendance.Day) ([]*attendance.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM attendance_events
		WHERE event_date = $1
		ORDER BY recorded_at ASC
	`, eventColumns)

	rows, err := r.conn.Query(ctx, query, string(day))
	if err != nil {
		return nil, shared.Upstream("attendance", "ListByDay", err)
	}
	defer rows.Close()

	return r.scanEvents(rows)
}

// ListRange returns all events with from <= event_date <= to. The bounds
// compare as text; the upper bound may be a month-end sentinel rather than a
// real date, which is why event_date is a TEXT column.
func (r *AttendanceRepository) ListRange(ctx context.Context, from, to attendance.Day) ([]*attendance.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM attendance_events
		WHERE event_date >= $1 AND event_date <= $2
		ORDER BY event_date ASC, recorded_at ASC
	`, eventColumns)

	rows, err := r.conn.Query(ctx, query, string(from), string(to))
	if err != nil {
		return nil, shared.Upstream("attendance", "ListRange", err)
	}
	defer rows.Close()

	return r.scanEvents(rows)
}

// ListForStudent returns one student's events in the range, newest date first.
func (r *AttendanceRepository) ListForStudent(ctx context.Context, studentID string, from, to attendance.Day) ([]*attendance.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM attendance_events
		WHERE student_id = $1 AND event_date >= $2 AND event_date <= $3
		ORDER BY event_date DESC
	`, eventColumns)

	rows, err := r.conn.Query(ctx, query, studentID, string(from), string(to))
	if err != nil {
		return nil, shared.Upstream("attendance", "ListForStudent", err)
	}
	defer rows.Close()

	return r.scanEvents(rows)
}

// CountDistinctDays returns the number of distinct dates in the range with
// at least one event from any student.
func (r *AttendanceRepository) CountDistinctDays(ctx context.Context, from, to attendance.Day) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `
		SELECT COUNT(DISTINCT event_date) FROM attendance_events
		WHERE event_date >= $1 AND event_date <= $2
	`, string(from), string(to)).Scan(&count)
	if err != nil {
		return 0, shared.Upstream("attendance", "CountDistinctDays", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *AttendanceRepository) scanEvent(row pgx.Row) (*attendance.Event, error) {
	var e attendance.Event
	var id, date, belt string

	err := row.Scan(
		&id,
		&e.StudentID,
		&e.Student.Name,
		&belt,
		&date,
		&e.RecordedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, attendance.ErrEventNotFound
		}
		return nil, shared.Upstream("attendance", "Scan", err)
	}

	e.ID = attendance.EventID(id)
	e.Date = attendance.Day(date)
	e.Student.Belt = student.Belt(belt)
	return &e, nil
}

func (r *AttendanceRepository) scanEvents(rows pgx.Rows) ([]*attendance.Event, error) {
	events := make([]*attendance.Event, 0)
	for rows.Next() {
		e, err := r.scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
