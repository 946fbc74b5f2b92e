package httputil

import (
	"encoding/json"
	"net/http"
	"time"
)

// RespondJSON writes a JSON response with the given status code. The body
// is marshaled first so an encoding failure never produces a partial
// response after headers are sent.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// ErrorResponse is the structured error body returned on every failure.
type ErrorResponse struct {
	Status      int          `json:"status"`
	Code        string       `json:"code"`
	Message     string       `json:"message"`
	Path        string       `json:"path"`
	Timestamp   time.Time    `json:"timestamp"`
	FieldErrors []FieldError `json:"field_errors,omitempty"`
}

// FieldError reports a validation failure on one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RespondError writes a structured error body.
func RespondError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	RespondErrorWithFields(w, r, status, code, message, nil)
}

// RespondErrorWithFields writes a structured error body including
// per-field validation errors.
func RespondErrorWithFields(w http.ResponseWriter, r *http.Request, status int, code, message string, fields []FieldError) {
	body := ErrorResponse{
		Status:      status,
		Code:        code,
		Message:     message,
		Path:        r.URL.Path,
		Timestamp:   time.Now().UTC(),
		FieldErrors: fields,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}
