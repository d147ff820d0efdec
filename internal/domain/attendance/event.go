// Package attendance contains the attendance ledger domain model.
//
// The ledger guarantees one attendance event per student per calendar day.
// The guarantee rests on a single mechanism: the event id is a deterministic
// composite of student id and calendar date, and the store refuses a second
// write for the same key. Everything else (daily sheets, monthly statistics)
// is derived from the event set, never from separate counters.
package attendance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS: CALENDAR DATES
// ══════════════════════════════════════════════════════════════════════════════

// dayFormat is the fixed-width, zero-padded calendar date layout.
// The format is chosen so that lexicographic comparison of Day values
// equals chronological comparison, and range queries can use plain
// string bounds.
const dayFormat = "2006-01-02"

// Day is a calendar date in YYYY-MM-DD form.
type Day string

// ParseDay validates and returns a Day.
func ParseDay(s string) (Day, error) {
	if len(s) != len(dayFormat) {
		return "", ErrInvalidDay
	}
	if _, err := time.Parse(dayFormat, s); err != nil {
		return "", ErrInvalidDay
	}
	return Day(s), nil
}

// DayOf returns the Day for the given instant, normalized to UTC.
func DayOf(t time.Time) Day {
	return Day(t.UTC().Format(dayFormat))
}

// Today returns the current calendar date in UTC.
func Today() Day {
	return DayOf(time.Now())
}

// IsValid reports whether the day is a real calendar date.
func (d Day) IsValid() bool {
	_, err := ParseDay(string(d))
	return err == nil
}

// Before reports whether d sorts before other.
func (d Day) Before(other Day) bool {
	return d < other
}

// String returns the string representation of the day.
func (d Day) String() string {
	return string(d)
}

// Month is a calendar month in YYYY-MM form.
type Month string

const monthFormat = "2006-01"

// ParseMonth validates and returns a Month.
func ParseMonth(s string) (Month, error) {
	if len(s) != len(monthFormat) {
		return "", ErrInvalidMonth
	}
	if _, err := time.Parse(monthFormat, s); err != nil {
		return "", ErrInvalidMonth
	}
	return Month(s), nil
}

// MonthOf returns the Month for the given instant, normalized to UTC.
func MonthOf(t time.Time) Month {
	return Month(t.UTC().Format(monthFormat))
}

// ThisMonth returns the current calendar month in UTC.
func ThisMonth() Month {
	return MonthOf(time.Now())
}

// Start returns the first day of the month.
func (m Month) Start() Day {
	return Day(string(m) + "-01")
}

// End returns the upper range bound for the month.
//
// The bound is the sentinel day "31", which sorts at or above every real
// day-of-month regardless of the month's actual length. It is a string
// bound only and must never be parsed as a calendar date. The sentinel is
// safe while day-of-month stays two digits; it would break if the date
// format ever changed.
func (m Month) End() Day {
	return Day(string(m) + "-31")
}

// String returns the string representation of the month.
func (m Month) String() string {
	return string(m)
}

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECT: EVENT ID
// ══════════════════════════════════════════════════════════════════════════════

// keySeparator joins student id and date in an event id.
const keySeparator = "-"

// EventID is the deterministic composite key of an attendance event:
// student id, separator, calendar date. At most one event can exist per
// id, which is what enforces one-mark-per-student-per-day.
type EventID string

// NewEventID builds the composite key for a student and day.
func NewEventID(studentID string, day Day) EventID {
	return EventID(studentID + keySeparator + string(day))
}

// ParseEventID validates an event id string.
func ParseEventID(s string) (EventID, error) {
	id := EventID(s)
	if _, _, err := id.Split(); err != nil {
		return "", err
	}
	return id, nil
}

// Split decomposes the id into student id and day.
//
// The date occupies a fixed-width suffix, so the id is decomposed from the
// right. Student ids may themselves contain the separator character without
// ambiguity.
func (id EventID) Split() (string, Day, error) {
	s := string(id)
	// student id (>=1) + separator + fixed-width date
	if len(s) < 1+len(keySeparator)+len(dayFormat) {
		return "", "", ErrInvalidEventID
	}

	datePart := s[len(s)-len(dayFormat):]
	sepPart := s[len(s)-len(dayFormat)-len(keySeparator) : len(s)-len(dayFormat)]
	studentPart := s[:len(s)-len(dayFormat)-len(keySeparator)]

	if sepPart != keySeparator {
		return "", "", ErrInvalidEventID
	}

	day, err := ParseDay(datePart)
	if err != nil {
		return "", "", ErrInvalidEventID
	}

	return studentPart, day, nil
}

// String returns the string representation of the event id.
func (id EventID) String() string {
	return string(id)
}

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT & EVENT
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot is the student profile frozen at mark time. Profile edits after
// the mark do not retroactively change historical events; the ledger keeps
// what was true on the day, for audit fidelity.
type Snapshot struct {
	// Name is the student's name at mark time.
	Name string

	// Belt is the student's belt rank at mark time.
	Belt student.Belt
}

// SnapshotOf freezes the relevant fields of a student profile.
func SnapshotOf(s *student.Student) Snapshot {
	return Snapshot{
		Name: s.Name,
		Belt: s.Belt,
	}
}

// Event is the ledger's unit of record: one student present on one day.
// Events are created by the mark operation, deleted by the unmark
// operation, and never updated in place.
type Event struct {
	// ID is the composite key. Immutable.
	ID EventID

	// StudentID references the student. Immutable.
	StudentID string

	// Student is the profile snapshot taken at mark time.
	Student Snapshot

	// Date is the calendar day the event represents. Immutable.
	Date Day

	// RecordedAt is the store-assigned write timestamp. It is used only for
	// display ordering of same-day records, never for identity. Zero until
	// the event has been persisted.
	RecordedAt time.Time
}

// NewEvent creates an attendance event for the given student and day.
func NewEvent(studentID string, snap Snapshot, day Day) (*Event, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, ErrMissingStudentID
	}
	if strings.TrimSpace(snap.Name) == "" {
		return nil, ErrMissingName
	}
	if !snap.Belt.IsValid() {
		return nil, ErrMissingBelt
	}
	if !day.IsValid() {
		return nil, ErrInvalidDay
	}

	return &Event{
		ID:        NewEventID(studentID, day),
		StudentID: studentID,
		Student:   snap,
		Date:      day,
	}, nil
}

// String returns a string representation for logging.
func (e *Event) String() string {
	return fmt.Sprintf("Event{ID: %s, Student: %s, Date: %s}", e.ID, e.Student.Name, e.Date)
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrAlreadyMarked - an event already exists for this student and day.
	ErrAlreadyMarked = errors.New("attendance already marked today")

	// ErrEventNotFound - the event does not exist.
	ErrEventNotFound = errors.New("attendance event not found")

	// ErrInvalidDay - the date is not a valid YYYY-MM-DD calendar date.
	ErrInvalidDay = errors.New("invalid date: must be YYYY-MM-DD")

	// ErrInvalidMonth - the month is not a valid YYYY-MM calendar month.
	ErrInvalidMonth = errors.New("invalid month: must be YYYY-MM")

	// ErrInvalidEventID - the event id is not a valid composite key.
	ErrInvalidEventID = errors.New("invalid attendance event id")

	// ErrInvalidRange - the range bounds are reversed or malformed.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrMissingStudentID - an event requires a student id.
	ErrMissingStudentID = errors.New("attendance event requires a student id")

	// ErrMissingName - an event requires the student's name.
	ErrMissingName = errors.New("attendance event requires a student name")

	// ErrMissingBelt - an event requires a valid belt rank.
	ErrMissingBelt = errors.New("attendance event requires a belt rank")
)
