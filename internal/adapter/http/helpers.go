package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mindhq/mindcore/internal/domain"
	"github.com/mindhq/mindcore/internal/port/interpreter"
)

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

// readJSON decodes a JSON request body with a size limit.
func readJSON[T any](w http.ResponseWriter, r *http.Request, bodyLimit int64) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		if err.Error() == "http: request body too large" {
			writeError(w, http.StatusRequestEntityTooLarge, "validation_error", "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		}
		return v, false
	}
	return v, true
}

// decodeOptionalJSON decodes a JSON body when one is present. An empty body
// is not an error.
func decodeOptionalJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// urlParam is a short alias for chi.URLParam.
func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// requesterID extracts the caller identity from the requester_id query
// parameter, falling back to the X-Requester-ID header. Identity verification
// is out of scope; the value is trusted as-is.
func requesterID(r *http.Request) string {
	if id := strings.TrimSpace(r.URL.Query().Get("requester_id")); id != "" {
		return id
	}
	return strings.TrimSpace(r.Header.Get("X-Requester-ID"))
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

type errorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{ErrorCode: code, Message: message})
}

// writeDomainError maps domain and gateway sentinels to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", fallbackMsg)
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "task belongs to another requester")
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusConflict, "invalid_state", trimSentinel(err, domain.ErrInvalidState))
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation_error", trimSentinel(err, domain.ErrValidation))
	case errors.Is(err, interpreter.ErrInvalidCredentials):
		writeError(w, http.StatusBadGateway, "invalid_credentials", "language gateway rejected the configured credentials")
	case errors.Is(err, interpreter.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "rate_limited", "language gateway rate limit exceeded, retry later")
	case errors.Is(err, interpreter.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "gateway_unavailable", "language gateway is unavailable, retry later")
	default:
		slog.Error("unhandled domain error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// trimSentinel strips the wrapped sentinel suffix from an error message so
// clients see the specific part only.
func trimSentinel(err error, sentinel error) string {
	return strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
}
