package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/student"
)

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2026-02-28")
	assert.NoError(t, err)
	assert.Equal(t, Day("2026-02-28"), day)

	for _, bad := range []string{
		"",
		"2026-2-5",
		"2026/02/05",
		"2026-02-30",
		"2026-13-01",
		"not-a-date",
		"2026-02-05T10:00",
	} {
		_, err := ParseDay(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestDayOf_NormalizesToUTC(t *testing.T) {
	// 23:30 on Feb 5 in UTC+5 is still Feb 5 in that zone, but Feb 5 18:30 UTC.
	loc := time.FixedZone("UTC+5", 5*3600)
	instant := time.Date(2026, 2, 5, 23, 30, 0, 0, loc)
	assert.Equal(t, Day("2026-02-05"), DayOf(instant))

	// 02:00 on Feb 6 in UTC+5 is Feb 5 21:00 UTC: the UTC date wins.
	instant = time.Date(2026, 2, 6, 2, 0, 0, 0, loc)
	assert.Equal(t, Day("2026-02-05"), DayOf(instant))
}

func TestDayOrdering(t *testing.T) {
	assert.True(t, Day("2026-02-05").Before(Day("2026-02-12")))
	assert.True(t, Day("2026-02-28").Before(Day("2026-03-01")))
	assert.False(t, Day("2026-03-01").Before(Day("2026-02-28")))
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2026-02")
	assert.NoError(t, err)
	assert.Equal(t, Month("2026-02"), m)

	for _, bad := range []string{"", "2026", "2026-13", "2026-2", "2026-02-05"} {
		_, err := ParseMonth(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestMonthBounds(t *testing.T) {
	m := Month("2026-02")
	assert.Equal(t, Day("2026-02-01"), m.Start())
	assert.Equal(t, Day("2026-02-31"), m.End())

	// The sentinel upper bound sorts at or above every real day of the
	// month and below the next month's first day.
	assert.True(t, Day("2026-02-28").Before(m.End()) || Day("2026-02-28") == m.End())
	assert.True(t, m.End().Before(Day("2026-03-01")))

	// December's sentinel still sorts below January of the next year.
	dec := Month("2026-12")
	assert.True(t, dec.End().Before(Day("2027-01-01")))
}

func TestEventID_RoundTrip(t *testing.T) {
	id := NewEventID("S-1001", Day("2026-02-05"))
	assert.Equal(t, EventID("S-1001-2026-02-05"), id)

	studentID, day, err := id.Split()
	assert.NoError(t, err)
	assert.Equal(t, "S-1001", studentID)
	assert.Equal(t, Day("2026-02-05"), day)
}

func TestEventID_StudentIDContainingSeparator(t *testing.T) {
	// The student id may contain the separator; the date suffix has a fixed
	// width, so decomposition stays unambiguous.
	id := NewEventID("abc-def-123", Day("2026-02-05"))

	studentID, day, err := id.Split()
	assert.NoError(t, err)
	assert.Equal(t, "abc-def-123", studentID)
	assert.Equal(t, Day("2026-02-05"), day)
}

func TestEventID_Invalid(t *testing.T) {
	for _, bad := range []string{
		"",
		"2026-02-05",     // no student id
		"-2026-02-05",    // empty student id
		"s1_2026-02-05",  // wrong separator
		"s1-2026-02-30",  // impossible date
		"s1-not-a-date!", // garbage suffix
		"short",          // too short to hold a date
	} {
		_, err := ParseEventID(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestNewEvent(t *testing.T) {
	snap := Snapshot{Name: "Aruzhan", Belt: student.BeltGreen}

	e, err := NewEvent("S-1001", snap, Day("2026-02-05"))
	assert.NoError(t, err)
	assert.Equal(t, EventID("S-1001-2026-02-05"), e.ID)
	assert.Equal(t, "S-1001", e.StudentID)
	assert.Equal(t, "Aruzhan", e.Student.Name)
	assert.Equal(t, student.BeltGreen, e.Student.Belt)
	assert.True(t, e.RecordedAt.IsZero(), "RecordedAt is assigned by the store")
}

func TestNewEvent_Validation(t *testing.T) {
	snap := Snapshot{Name: "Aruzhan", Belt: student.BeltGreen}

	_, err := NewEvent("", snap, Day("2026-02-05"))
	assert.ErrorIs(t, err, ErrMissingStudentID)

	_, err = NewEvent("S-1001", Snapshot{Belt: student.BeltGreen}, Day("2026-02-05"))
	assert.ErrorIs(t, err, ErrMissingName)

	_, err = NewEvent("S-1001", Snapshot{Name: "Aruzhan", Belt: "crimson"}, Day("2026-02-05"))
	assert.ErrorIs(t, err, ErrMissingBelt)

	_, err = NewEvent("S-1001", snap, Day("2026-02-30"))
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestSnapshotOf(t *testing.T) {
	s, err := student.NewStudent(student.NewStudentParams{
		ID:   "S-1001",
		Name: "Aruzhan",
		Belt: student.BeltGreen,
	})
	assert.NoError(t, err)

	snap := SnapshotOf(s)
	assert.Equal(t, "Aruzhan", snap.Name)
	assert.Equal(t, student.BeltGreen, snap.Belt)

	// Promoting the student afterwards doesn't touch the snapshot.
	assert.NoError(t, s.Promote(student.BeltBlue))
	assert.Equal(t, student.BeltGreen, snap.Belt)
}
