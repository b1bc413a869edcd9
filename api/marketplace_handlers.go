package api

import (
	"net/http"
	"time"

	"credmarket/api/httpx"
)

type createCourseRequest struct {
	TeacherID   int64  `json:"teacher_id" validate:"required,gt=0"`
	IsTeacher   bool   `json:"is_teacher"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Duration    string `json:"duration" validate:"max=50"`
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	course, err := s.marketplace.CreateCourse(r.Context(), req.TeacherID, req.IsTeacher, req.Title, req.Description, req.Price, req.Duration)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, course)
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.marketplace.ListCourses(r.Context(), queryInt(r, "limit", 50, 200))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, courses)
}

type joinRequest struct {
	UserID         int64  `json:"user_id" validate:"required,gt=0"`
	IdempotencyKey string `json:"idempotency_key" validate:"max=128"`
}

func (s *Server) handleJoinCourse(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.marketplace.JoinCourse(r.Context(), req.UserID, urlID(r, "courseID"), req.IdempotencyKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toTransferResponse(result))
}

type hostSessionRequest struct {
	HostID          int64     `json:"host_id" validate:"required,gt=0"`
	IsTeacher       bool      `json:"is_teacher"`
	Title           string    `json:"title" validate:"required,max=255"`
	Description     string    `json:"description"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"gt=0,lte=1440"`
	CreditCost      int64     `json:"credit_cost" validate:"required,gt=0"`
	MaxAttendees    *int      `json:"max_attendees" validate:"omitempty,gt=0"`
}

func (s *Server) handleHostSession(w http.ResponseWriter, r *http.Request) {
	var req hostSessionRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := s.marketplace.HostSession(r.Context(), req.HostID, req.IsTeacher, req.Title, req.Description, req.ScheduledAt, req.DurationMinutes, req.CreditCost, req.MaxAttendees)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.marketplace.ListSessions(r.Context(), queryInt(r, "limit", 50, 200))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, sessions)
}

func (s *Server) handleJoinSession(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.marketplace.JoinSession(r.Context(), req.UserID, urlID(r, "sessionID"), req.IdempotencyKey)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toTransferResponse(result))
}

type cancelSessionRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	var req cancelSessionRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.marketplace.CancelSession(r.Context(), req.UserID, urlID(r, "sessionID")); err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
