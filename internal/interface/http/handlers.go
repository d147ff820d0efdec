package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/enlystreetwear-png/AR-karate/internal/application/command"
	"github.com/enlystreetwear-png/AR-karate/internal/application/query"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/attendance"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/identity"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/shared"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/student"
	"github.com/enlystreetwear-png/AR-karate/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// writeDomainError translates domain errors into HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, attendance.ErrAlreadyMarked):
		writeJSONError(w, http.StatusConflict, "already_marked", attendance.ErrAlreadyMarked.Error())
	case errors.Is(err, student.ErrStudentAlreadyExists) ||
		errors.Is(err, identity.ErrEmailTaken) ||
		shared.IsConflict(err):
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, student.ErrStudentNotFound) ||
		errors.Is(err, attendance.ErrEventNotFound) ||
		errors.Is(err, identity.ErrAccountNotFound) ||
		shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, identity.ErrBadCredentials):
		writeJSONError(w, http.StatusUnauthorized, "bad_credentials", identity.ErrBadCredentials.Error())
	case shared.IsValidation(err) ||
		errors.Is(err, attendance.ErrInvalidDay) ||
		errors.Is(err, attendance.ErrInvalidMonth) ||
		errors.Is(err, attendance.ErrInvalidEventID) ||
		errors.Is(err, attendance.ErrInvalidRange) ||
		errors.Is(err, student.ErrInvalidStudentID) ||
		errors.Is(err, student.ErrInvalidName) ||
		errors.Is(err, student.ErrInvalidBelt):
		writeJSONError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case shared.IsUpstream(err):
		writeJSONError(w, http.StatusBadGateway, "upstream_failure", "A backing store is unavailable")
	default:
		s.logger.Error(r.Context(), "unhandled error", logger.Err(err), logger.String("path", r.URL.Path))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return false
	}
	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Unknown endpoint")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"service": "karate-attendance",
		"version": "v1",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": s.Uptime().String(),
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := s.deps.HealthChecker.CheckHealth(ctx); err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "not_ready", err.Error())
			return
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH
// ══════════════════════════════════════════════════════════════════════════════

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
	Route     string `json:"route"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.LoginHandler.Handle(r.Context(), command.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, loginResponse{
		AccountID: result.AccountID.String(),
		Role:      result.Role.String(),
		Route:     result.Route,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

type studentResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Belt         string    `json:"belt"`
	DateOfBirth  string    `json:"dob,omitempty"`
	Age          int       `json:"age,omitempty"`
	WeightKG     float64   `json:"weight_kg,omitempty"`
	GovernmentID string    `json:"government_id,omitempty"`
	GuardianName string    `json:"guardian_name,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toStudentResponse(s *student.Student) studentResponse {
	return studentResponse{
		ID:           s.ID,
		Name:         s.Name,
		Belt:         s.Belt.String(),
		DateOfBirth:  s.DateOfBirth,
		Age:          s.Age,
		WeightKG:     s.WeightKG,
		GovernmentID: s.GovernmentID,
		GuardianName: s.GuardianName,
		ContactPhone: s.ContactPhone,
		PhotoURL:     s.PhotoURL,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

type registerStudentRequest struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Belt         string  `json:"belt"`
	DateOfBirth  string  `json:"dob"`
	Age          int     `json:"age"`
	WeightKG     float64 `json:"weight_kg"`
	GovernmentID string  `json:"government_id"`
	GuardianName string  `json:"guardian_name"`
	ContactPhone string  `json:"contact_phone"`
	PhotoURL     string  `json:"photo_url"`
}

func (s *Server) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req registerStudentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.StudentsHandler.Register(r.Context(), command.RegisterStudentCommand{
		ID:           req.ID,
		Name:         req.Name,
		Belt:         req.Belt,
		DateOfBirth:  req.DateOfBirth,
		Age:          req.Age,
		WeightKG:     req.WeightKG,
		GovernmentID: req.GovernmentID,
		GuardianName: req.GuardianName,
		ContactPhone: req.ContactPhone,
		PhotoURL:     req.PhotoURL,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toStudentResponse(result.Student))
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	stud, err := s.deps.GetStudentHandler.Handle(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toStudentResponse(stud))
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListStudentsHandler.Handle(r.Context(), query.ListStudentsQuery{
		Search: r.URL.Query().Get("search"),
		Offset: getQueryParamInt(r, "offset", 0),
		Limit:  getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	students := make([]studentResponse, 0, len(result.Students))
	for _, stud := range result.Students {
		students = append(students, toStudentResponse(stud))
	}

	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"students": students,
		"total":    result.Total,
	})
}

type updateStudentRequest struct {
	Name         *string  `json:"name"`
	Belt         *string  `json:"belt"`
	DateOfBirth  *string  `json:"dob"`
	Age          *int     `json:"age"`
	WeightKG     *float64 `json:"weight_kg"`
	GovernmentID *string  `json:"government_id"`
	GuardianName *string  `json:"guardian_name"`
	ContactPhone *string  `json:"contact_phone"`
	PhotoURL     *string  `json:"photo_url"`
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	var req updateStudentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.StudentsHandler.Update(r.Context(), command.UpdateStudentCommand{
		ID:           r.PathValue("id"),
		Name:         req.Name,
		Belt:         req.Belt,
		DateOfBirth:  req.DateOfBirth,
		Age:          req.Age,
		WeightKG:     req.WeightKG,
		GovernmentID: req.GovernmentID,
		GuardianName: req.GuardianName,
		ContactPhone: req.ContactPhone,
		PhotoURL:     req.PhotoURL,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toStudentResponse(result.Student))
}

func (s *Server) handleRemoveStudent(w http.ResponseWriter, r *http.Request) {
	err := s.deps.StudentsHandler.Remove(r.Context(), command.RemoveStudentCommand{
		ID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "removed"})
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

type markAttendanceRequest struct {
	StudentID string `json:"student_id"`
	Date      string `json:"date"`
}

func (s *Server) handleMarkAttendance(w http.ResponseWriter, r *http.Request) {
	var req markAttendanceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.MarkHandler.Handle(r.Context(), command.MarkAttendanceCommand{
		StudentID: req.StudentID,
		Date:      req.Date,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, map[string]interface{}{
		"event_id":     string(result.EventID),
		"student_name": result.StudentName,
		"date":         string(result.Date),
		"recorded_at":  result.RecordedAt,
	})
}

func (s *Server) handleUnmarkAttendance(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.UnmarkHandler.Handle(r.Context(), command.UnmarkAttendanceCommand{
		EventID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{
		"event_id": string(result.EventID),
		"status":   "removed",
	})
}

func (s *Server) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.SheetHandler.Handle(r.Context(), query.GetAttendanceSheetQuery{
		Date: r.URL.Query().Get("date"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	entries := make([]map[string]interface{}, 0, len(result.Entries))
	for _, e := range result.Entries {
		entries = append(entries, map[string]interface{}{
			"event_id":     string(e.EventID),
			"student_id":   e.StudentID,
			"student_name": e.StudentName,
			"belt":         e.Belt,
			"recorded_at":  e.RecordedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"date":    string(result.Date),
		"entries": entries,
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ReportHandler.Handle(r.Context(), query.GetAttendanceReportQuery{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	days := make([]map[string]interface{}, 0, len(result.Days))
	for _, d := range result.Days {
		rows := make([]map[string]interface{}, 0, len(d.Rows))
		for _, row := range d.Rows {
			rows = append(rows, map[string]interface{}{
				"event_id":     string(row.EventID),
				"student_id":   row.StudentID,
				"student_name": row.StudentName,
				"belt":         row.Belt,
				"recorded_at":  row.RecordedAt,
			})
		}
		days = append(days, map[string]interface{}{
			"date": string(d.Date),
			"rows": rows,
		})
	}

	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"start":        string(result.Start),
		"end":          string(result.End),
		"days":         days,
		"total_events": result.TotalEvents,
	})
}

func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.MonthlyStatsHandler.Handle(r.Context(), query.GetMonthlyStatsQuery{
		StudentID: r.PathValue("id"),
		Month:     r.URL.Query().Get("month"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	records := make([]map[string]string, 0, len(result.RecentRecords))
	for _, rec := range result.RecentRecords {
		records = append(records, map[string]string{
			"date": string(rec.Date),
			"time": rec.Time,
		})
	}

	writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"student_id":       result.StudentID,
		"month":            string(result.Month),
		"present_count":    result.PresentCount,
		"total_class_days": result.TotalClassDays,
		"recent_records":   records,
	})
}
