package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"loom/internal/domain"
	"loom/internal/domain/models"
	"loom/internal/httputil"
)

// handleError converts domain errors to HTTP responses with the structured
// error body. Unknown errors become an opaque 500.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondErrorWithFields(w, r, http.StatusBadRequest, code, err.Error(), fieldErrors(err))
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, r, http.StatusNotFound, code, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, r, http.StatusUnauthorized, code, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, r, http.StatusForbidden, code, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, r, http.StatusConflict, code, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		httputil.RespondError(w, r, http.StatusTooManyRequests, code, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		httputil.RespondError(w, r, http.StatusBadGateway, code, err.Error())
	default:
		httputil.RespondError(w, r, http.StatusInternalServerError,
			domain.CodeInternalError, "internal server error")
	}
}

// fieldErrors extracts per-field messages from an ozzo validation error.
func fieldErrors(err error) []httputil.FieldError {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make([]httputil.FieldError, 0, len(verrs))
	for field, ferr := range verrs {
		fields = append(fields, httputil.FieldError{Field: field, Message: ferr.Error()})
	}
	return fields
}

// requireIdentity extracts the authenticated caller, responding 401 for
// anonymous requests.
func requireIdentity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	ident := httputil.GetIdentity(r)
	if ident.IsAnonymous() {
		httputil.RespondError(w, r, http.StatusUnauthorized,
			domain.CodeUnauthorized, "authentication required")
		return models.Identity{}, false
	}
	return ident, true
}

// pathParam reads a path segment, responding 400 when it is empty.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := r.PathValue(name)
	if value == "" {
		httputil.RespondError(w, r, http.StatusBadRequest,
			domain.CodeInvalidRequest, name+" is required")
		return "", false
	}
	return value, true
}
