package handler

import (
	"log/slog"
	"net/http"

	"loom/internal/domain/models"
	"loom/internal/domain/services"
	"loom/internal/httputil"
)

const threadPageSize = 20

// ThreadHandler handles thread HTTP requests.
type ThreadHandler struct {
	threadService services.ThreadService
	chatService   services.ChatService
	logger        *slog.Logger
}

// NewThreadHandler creates a new thread handler.
func NewThreadHandler(threadService services.ThreadService, chatService services.ChatService, logger *slog.Logger) *ThreadHandler {
	return &ThreadHandler{
		threadService: threadService,
		chatService:   chatService,
		logger:        logger,
	}
}

// threadDetailResponse is a thread with its full chat history.
type threadDetailResponse struct {
	models.Thread
	Chats []models.Chat `json:"chats"`
}

// chatPageResponse is one page of thread history plus the thread's total
// chat count.
type chatPageResponse struct {
	Chats []models.Chat `json:"chats"`
	Total int64         `json:"total"`
}

// ListThreads returns the caller's threads, newest activity first.
// Moderators see every user's threads.
// GET /api/v1/threads?page=&size=
func (h *ThreadHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	page := httputil.ParsePage(r, threadPageSize)
	threads, err := h.threadService.ListThreads(r.Context(), ident, page)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, threads)
}

// GetThread returns one thread with its full history, oldest first.
// GET /api/v1/threads/{id}
func (h *ThreadHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	threadID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	thread, err := h.threadService.GetThread(r.Context(), threadID, ident)
	if err != nil {
		handleError(w, r, err)
		return
	}

	chats, err := h.chatService.GetThreadHistory(r.Context(), threadID, ident)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, threadDetailResponse{
		Thread: *thread,
		Chats:  chats,
	})
}

// GetThreadChats returns a page of thread history, newest first.
// GET /api/v1/threads/{id}/chats?page=&size=
func (h *ThreadHandler) GetThreadChats(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	threadID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	page := httputil.ParsePage(r, threadPageSize)
	chats, total, err := h.chatService.GetThreadHistoryPage(r.Context(), threadID, ident, page)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chatPageResponse{
		Chats: chats,
		Total: total,
	})
}

// ActivateThread resolves or creates the caller's active thread.
// POST /api/v1/threads/activate
func (h *ThreadHandler) ActivateThread(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	thread, err := h.threadService.ResolveActiveThread(r.Context(), ident.UserID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, thread)
}

// DeleteThread removes a thread and its chats.
// DELETE /api/v1/threads/{id}
func (h *ThreadHandler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	threadID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.threadService.DeleteThread(r.Context(), threadID, ident); err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
