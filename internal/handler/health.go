package handler

import (
	"net/http"
	"time"

	"loom/internal/httputil"
)

// HealthCheck is a simple health check endpoint.
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now(),
	})
}
