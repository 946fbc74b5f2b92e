package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"loom/internal/domain"
	"loom/internal/domain/repositories"
)

// ParseJSON decodes JSON from the request body into dest, capping the body
// at 1MB. Chat payloads are small; anything larger is abuse.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: invalid JSON: %w", domain.ErrValidation, err)
	}

	return nil
}

// ParsePage reads ?page and ?size query parameters into a repository Page.
// page is zero-based; invalid or absent values fall back to defaults.
func ParsePage(r *http.Request, defaultSize int) repositories.Page {
	size := defaultSize
	if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && v > 0 && v <= 100 {
		size = v
	}

	var offset int
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		offset = v * size
	}

	return repositories.Page{Limit: size, Offset: offset}
}
