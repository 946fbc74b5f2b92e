package handler

import (
	"log/slog"
	"net/http"

	"loom/internal/domain"
	"loom/internal/domain/services"
	"loom/internal/httputil"
)

// ChatHandler handles chat HTTP requests. Handlers only talk to services,
// never repositories.
type ChatHandler struct {
	chatService services.ChatService
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService services.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// CreateChat sends a user message and returns the generated exchange.
// POST /api/v1/chats
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req services.CreateChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, r, http.StatusBadRequest, domain.CodeInvalidRequest, "invalid request body")
		return
	}

	chat, err := h.chatService.CreateChat(r.Context(), ident, &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, chat)
}

// ListChats returns every chat of the caller, newest first.
// GET /api/v1/chats
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	chats, err := h.chatService.ListUserChats(r.Context(), ident.UserID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chats)
}

// GetChat retrieves a single chat by ID.
// GET /api/v1/chats/{id}
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	chatID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	chat, err := h.chatService.GetChat(r.Context(), chatID, ident)
	if err != nil {
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chat)
}

// DeleteChat removes a single chat by ID.
// DELETE /api/v1/chats/{id}
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	chatID, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.chatService.DeleteChat(r.Context(), chatID, ident); err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
