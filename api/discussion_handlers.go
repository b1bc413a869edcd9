package api

import (
	"net/http"
	"strconv"

	"credmarket/api/httpx"
	"credmarket/models"
)

type createThreadRequest struct {
	AuthorID int64  `json:"author_id" validate:"required,gt=0"`
	Title    string `json:"title" validate:"required,max=300"`
	Content  string `json:"content" validate:"required"`
}

func (s *Server) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req createThreadRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	thread, err := s.content.CreateThread(r.Context(), req.AuthorID, req.Title, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, thread)
}

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	sort := models.ThreadSort(r.URL.Query().Get("sort"))
	if sort == "" {
		sort = models.ThreadSortNew
	}

	threads, err := s.content.ListThreads(r.Context(), sort, queryInt(r, "limit", 25, 100))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, threads)
}

type threadDetailResponse struct {
	Thread   *models.Thread    `json:"thread"`
	Comments []*models.Comment `json:"comments"`
}

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request) {
	thread, comments, err := s.content.GetThread(r.Context(), urlID(r, "threadID"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, threadDetailResponse{Thread: thread, Comments: comments})
}

type createCommentRequest struct {
	AuthorID int64  `json:"author_id" validate:"required,gt=0"`
	Content  string `json:"content" validate:"required"`
	ParentID *int64 `json:"parent_id" validate:"omitempty,gt=0"`
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := s.content.CreateComment(r.Context(), req.AuthorID, urlID(r, "threadID"), req.Content, req.ParentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, comment)
}

type castVoteRequest struct {
	UserID     int64             `json:"user_id" validate:"required,gt=0"`
	TargetType models.TargetType `json:"target_type" validate:"required"`
	TargetID   int64             `json:"target_id" validate:"required,gt=0"`
	Value      int16             `json:"value" validate:"required,oneof=-1 1"`
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	target := models.TargetRef{Type: req.TargetType, ID: req.TargetID}
	result, err := s.votes.CastVote(r.Context(), req.UserID, target, req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, result)
}

func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseInt(r.URL.Query().Get("target_id"), 10, 64)
	if err != nil || targetID <= 0 {
		httpx.Error(w, http.StatusBadRequest, "target_id must be a positive integer")
		return
	}
	target := models.TargetRef{
		Type: models.TargetType(r.URL.Query().Get("target_type")),
		ID:   targetID,
	}

	score, err := s.votes.GetScore(r.Context(), target)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]int64{"score": score})
}

type fileReportRequest struct {
	UserID     int64             `json:"user_id" validate:"required,gt=0"`
	TargetType models.TargetType `json:"target_type" validate:"required"`
	TargetID   int64             `json:"target_id" validate:"required,gt=0"`
	Reason     string            `json:"reason" validate:"required,max=2000"`
}

func (s *Server) handleFileReport(w http.ResponseWriter, r *http.Request) {
	var req fileReportRequest
	if !httpx.Decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	target := models.TargetRef{Type: req.TargetType, ID: req.TargetID}
	report, err := s.votes.FileReport(r.Context(), req.UserID, target, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, report)
}
