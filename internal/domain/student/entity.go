// Package student contains the domain model for karate school students.
// This is reference data for the attendance ledger: students are addressed by
// their externally assigned id, and the ledger snapshots name and belt at mark
// time. The package has zero external dependencies.
package student

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Belt represents a student's belt rank.
type Belt string

const (
	BeltWhite  Belt = "white"
	BeltYellow Belt = "yellow"
	BeltOrange Belt = "orange"
	BeltGreen  Belt = "green"
	BeltBlue   Belt = "blue"
	BeltBrown  Belt = "brown"
	BeltBlack  Belt = "black"
)

// IsValid reports whether the belt is one of the known ranks.
func (b Belt) IsValid() bool {
	switch b {
	case BeltWhite, BeltYellow, BeltOrange, BeltGreen, BeltBlue, BeltBrown, BeltBlack:
		return true
	default:
		return false
	}
}

// String returns the string representation of the belt.
func (b Belt) String() string {
	return string(b)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student is a person whose attendance is tracked.
// The id is assigned externally (enrollment number) and never changes.
type Student struct {
	// ID is the stable, externally assigned identifier.
	ID string

	// Name is the student's display name.
	Name string

	// Belt is the current belt rank.
	Belt Belt

	// Extension fields carried over from enrollment paperwork.
	// All optional; the ledger never reads them.
	DateOfBirth  string
	Age          int
	WeightKG     float64
	GovernmentID string
	GuardianName string
	ContactPhone string
	PhotoURL     string

	// CreatedAt is when the record was created.
	CreatedAt time.Time

	// UpdatedAt is when the record was last updated.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidStudentID - a student id is required and must not contain whitespace.
	ErrInvalidStudentID = errors.New("invalid student id: must be 1-50 chars without whitespace")

	// ErrInvalidName - a display name is required.
	ErrInvalidName = errors.New("invalid student name: must be 1-100 chars")

	// ErrInvalidBelt - the belt rank is not one of the known ranks.
	ErrInvalidBelt = errors.New("invalid belt rank")

	// ErrStudentNotFound - the student does not exist.
	ErrStudentNotFound = errors.New("student not found")

	// ErrStudentAlreadyExists - a student with this id already exists.
	ErrStudentAlreadyExists = errors.New("student already exists")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewStudentParams contains the parameters for enrolling a new student.
type NewStudentParams struct {
	ID           string
	Name         string
	Belt         Belt
	DateOfBirth  string
	Age          int
	WeightKG     float64
	GovernmentID string
	GuardianName string
	ContactPhone string
	PhotoURL     string
}

// NewStudent creates a new student, validating the required fields.
func NewStudent(params NewStudentParams) (*Student, error) {
	id := strings.TrimSpace(params.ID)
	if len(id) == 0 || len(id) > 50 || strings.ContainsAny(id, " \t\n\r") {
		return nil, ErrInvalidStudentID
	}

	name := strings.TrimSpace(params.Name)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidName
	}

	if !params.Belt.IsValid() {
		return nil, ErrInvalidBelt
	}

	now := time.Now().UTC()

	return &Student{
		ID:           id,
		Name:         name,
		Belt:         params.Belt,
		DateOfBirth:  params.DateOfBirth,
		Age:          params.Age,
		WeightKG:     params.WeightKG,
		GovernmentID: params.GovernmentID,
		GuardianName: params.GuardianName,
		ContactPhone: params.ContactPhone,
		PhotoURL:     params.PhotoURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// Rename changes the student's display name.
func (s *Student) Rename(name string) error {
	name = strings.TrimSpace(name)
	if len(name) == 0 || len(name) > 100 {
		return ErrInvalidName
	}
	s.Name = name
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Promote changes the student's belt rank.
// Historical attendance events keep the belt they were marked with.
func (s *Student) Promote(belt Belt) error {
	if !belt.IsValid() {
		return ErrInvalidBelt
	}
	s.Belt = belt
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// String returns a string representation for logging.
func (s *Student) String() string {
	return fmt.Sprintf("Student{ID: %s, Name: %s, Belt: %s}", s.ID, s.Name, s.Belt)
}

// Clone creates a copy of the student.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}
