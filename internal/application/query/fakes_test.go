package query

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/enlystreetwear-png/AR-karate/internal/domain/attendance"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/student"
	"github.com/enlystreetwear-png/AR-karate/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})
}

// ──────────────────────────────────────────────────────────────────────────────
// In-memory ledger
// ──────────────────────────────────────────────────────────────────────────────

type fakeLedger struct {
	mu     sync.Mutex
	events map[attendance.EventID]*attendance.Event
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{events: make(map[attendance.EventID]*attendance.Event)}
}

// seed stores an event directly, bypassing Append semantics. at may be the
// zero time to model legacy rows without a recorded timestamp.
func (l *fakeLedger) seed(studentID, name string, belt student.Belt, day attendance.Day, at time.Time) *attendance.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := &attendance.Event{
		ID:         attendance.NewEventID(studentID, day),
		StudentID:  studentID,
		Student:    attendance.Snapshot{Name: name, Belt: belt},
		Date:       day,
		RecordedAt: at,
	}
	l.events[e.ID] = e
	return e
}

func (l *fakeLedger) Append(_ context.Context, e *attendance.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.events[e.ID]; ok {
		return attendance.ErrAlreadyMarked
	}
	e.RecordedAt = time.Now().UTC()
	cp := *e
	l.events[e.ID] = &cp
	return nil
}

func (l *fakeLedger) Get(_ context.Context, id attendance.EventID) (*attendance.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.events[id]
	if !ok {
		return nil, attendance.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}

func (l *fakeLedger) Remove(_ context.Context, id attendance.EventID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.events, id)
	return nil
}

func (l *fakeLedger) ListByDay(_ context.Context, day attendance.Day) ([]*attendance.Event, error) {
	return l.list(func(e *attendance.Event) bool { return e.Date == day }), nil
}

func (l *fakeLedger) ListRange(_ context.Context, from, to attendance.Day) ([]*attendance.Event, error) {
	return l.list(func(e *attendance.Event) bool {
		return string(e.Date) >= string(from) && string(e.Date) <= string(to)
	}), nil
}

func (l *fakeLedger) ListForStudent(_ context.Context, studentID string, from, to attendance.Day) ([]*attendance.Event, error) {
	out := l.list(func(e *attendance.Event) bool {
		return e.StudentID == studentID &&
			string(e.Date) >= string(from) && string(e.Date) <= string(to)
	})
	sort.Slice(out, func(i, j int) bool { return string(out[i].Date) > string(out[j].Date) })
	return out, nil
}

func (l *fakeLedger) CountDistinctDays(_ context.Context, from, to attendance.Day) (int, error) {
	days := make(map[attendance.Day]struct{})
	for _, e := range l.list(func(e *attendance.Event) bool {
		return string(e.Date) >= string(from) && string(e.Date) <= string(to)
	}) {
		days[e.Date] = struct{}{}
	}
	return len(days), nil
}

func (l *fakeLedger) list(keep func(*attendance.Event) bool) []*attendance.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*attendance.Event
	for _, e := range l.events {
		if keep(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return string(out[i].Date) < string(out[j].Date)
		}
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// In-memory sheet cache
// ──────────────────────────────────────────────────────────────────────────────

type fakeSheetCache struct {
	mu     sync.Mutex
	days   map[attendance.Day][]*attendance.Event
	getErr error
	hits   int
	fills  int
}

func newFakeSheetCache() *fakeSheetCache {
	return &fakeSheetCache{days: make(map[attendance.Day][]*attendance.Event)}
}

func (c *fakeSheetCache) GetDay(_ context.Context, day attendance.Day) ([]*attendance.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	events, ok := c.days[day]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c.hits++
	return events, nil
}

func (c *fakeSheetCache) SetDay(_ context.Context, day attendance.Day, events []*attendance.Event, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fills++
	c.days[day] = events
	return nil
}

func (c *fakeSheetCache) InvalidateDay(_ context.Context, day attendance.Day) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.days, day)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// In-memory student repository
// ──────────────────────────────────────────────────────────────────────────────

type fakeStudentRepo struct {
	mu       sync.Mutex
	students map[string]*student.Student
}

func newFakeStudentRepo(seed ...*student.Student) *fakeStudentRepo {
	r := &fakeStudentRepo{students: make(map[string]*student.Student)}
	for _, s := range seed {
		r.students[s.ID] = s.Clone()
	}
	return r
}

func (r *fakeStudentRepo) Create(_ context.Context, s *student.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[s.ID]; ok {
		return student.ErrStudentAlreadyExists
	}
	r.students[s.ID] = s.Clone()
	return nil
}

func (r *fakeStudentRepo) GetByID(_ context.Context, id string) (*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[id]
	if !ok {
		return nil, student.ErrStudentNotFound
	}
	return s.Clone(), nil
}

func (r *fakeStudentRepo) Update(_ context.Context, s *student.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[s.ID]; !ok {
		return student.ErrStudentNotFound
	}
	r.students[s.ID] = s.Clone()
	return nil
}

func (r *fakeStudentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[id]; !ok {
		return student.ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}

func (r *fakeStudentRepo) GetAll(_ context.Context, opts student.ListOptions) ([]*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*student.Student
	for _, s := range r.students {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, opts), nil
}

func (r *fakeStudentRepo) Search(_ context.Context, query string, opts student.ListOptions) ([]*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	var out []*student.Student
	for _, s := range r.students {
		if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(s.ID), q) {
			out = append(out, s.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, opts), nil
}

func (r *fakeStudentRepo) Exists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.students[id]
	return ok, nil
}

func (r *fakeStudentRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.students), nil
}

func paginate(students []*student.Student, opts student.ListOptions) []*student.Student {
	if opts.Offset >= len(students) {
		return nil
	}
	students = students[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(students) {
		students = students[:opts.Limit]
	}
	return students
}

// ──────────────────────────────────────────────────────────────────────────────
// In-memory student cache
// ──────────────────────────────────────────────────────────────────────────────

type fakeStudentCache struct {
	mu       sync.Mutex
	students map[string]*student.Student
	hits     int
}

func newFakeStudentCache() *fakeStudentCache {
	return &fakeStudentCache{students: make(map[string]*student.Student)}
}

func (c *fakeStudentCache) Get(_ context.Context, id string) (*student.Student, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.students[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	c.hits++
	return s.Clone(), nil
}

func (c *fakeStudentCache) Set(_ context.Context, s *student.Student, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.students[s.ID] = s.Clone()
	return nil
}

func (c *fakeStudentCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.students, id)
	return nil
}

func mustStudent(id, name string, belt student.Belt) *student.Student {
	s, err := student.NewStudent(student.NewStudentParams{ID: id, Name: name, Belt: belt})
	if err != nil {
		panic(err)
	}
	return s
}
