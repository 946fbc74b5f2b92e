package handler

import (
	"log/slog"
	"net/http"

	"loom/internal/domain"
	"loom/internal/domain/models"
	"loom/internal/domain/services"
	"loom/internal/httputil"
)

// TokenIssuer signs a bearer token for an authenticated user.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

// AuthHandler handles signup and login.
type AuthHandler struct {
	userService services.UserService
	tokens      TokenIssuer
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(userService services.UserService, tokens TokenIssuer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
		logger:      logger,
	}
}

// authResponse is returned by both signup and login.
type authResponse struct {
	Token string      `json:"token"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new account and returns a bearer token.
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req services.SignupRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, r, http.StatusBadRequest, domain.CodeInvalidRequest, "invalid request body")
		return
	}

	user, err := h.userService.Signup(r.Context(), &req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, user)
}

// Login authenticates an existing account and returns a bearer token.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, r, http.StatusBadRequest, domain.CodeInvalidRequest, "invalid request body")
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("token issue failed", "user_id", user.ID, "error", err)
		handleError(w, r, err)
		return
	}

	httputil.RespondJSON(w, status, authResponse{
		Token: token,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	})
}
