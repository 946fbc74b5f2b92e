package handler

import (
	"log/slog"
	"net/http"

	"loom/internal/domain/models"
	"loom/internal/domain/services"
	"loom/internal/httputil"
)

// FeedbackHandler handles chat feedback HTTP requests.
type FeedbackHandler struct {
	feedbackService services.FeedbackService
	logger          *slog.Logger
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(feedbackService services.FeedbackService, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		logger:          logger,
	}
}

type updateFeedbackStatusRequest struct {
	Status models.FeedbackStatus `json:"status"`
}

// CreateFeedback records a thumbs-up or thumbs-down on a chat.
// POST /api/v1/feedbacks
func (h *FeedbackHandler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req services.CreateFeedbackRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	req.UserID = ident.UserID

	feedback, err := h.feedbackService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, feedback)
}

// ListFeedbacks returns the caller's feedback entries, newest first.
// GET /api/v1/feedbacks
func (h *FeedbackHandler) ListFeedbacks(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	feedbacks, err := h.feedbackService.ListByUser(r.Context(), ident.UserID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, feedbacks)
}

// UpdateFeedbackStatus moves a feedback entry between PENDING and RESOLVED.
// Moderator only.
// PATCH /api/v1/feedbacks/{id}/status
func (h *FeedbackHandler) UpdateFeedbackStatus(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	feedbackID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	var req updateFeedbackStatusRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	feedback, err := h.feedbackService.UpdateStatus(r.Context(), feedbackID, req.Status, ident)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, feedback)
}
