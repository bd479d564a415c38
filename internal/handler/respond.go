package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/pixelskins/internal/apperr"
)

// maxBodyBytes caps JSON request bodies. Prompts and image URLs are short.
const maxBodyBytes = 1 << 20

func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func renderError(w http.ResponseWriter, status int, message string) {
	renderJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// renderAppError maps err onto the response envelope. Storage failures and
// unclassified errors only ever show fallback.
func renderAppError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.KindStorage {
		slog.Error(fallback, "error", err, "path", r.URL.Path)
		renderError(w, http.StatusInternalServerError, fallback)
		return
	}

	switch e.Kind {
	case apperr.KindUpstream:
		slog.Error("upstream failure", "error", err, "upstream_status", e.UpstreamStatus, "path", r.URL.Path)
	case apperr.KindNotFound:
		slog.Info("not found", "error", err, "path", r.URL.Path)
	}

	renderError(w, e.Status, e.Message)
}

// decodeJSON reads a single JSON object from the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(body).Decode(v)
	if errors.Is(err, io.EOF) {
		return apperr.NewValidation("Request body is required")
	}
	if err != nil {
		return apperr.NewValidation("Invalid request body")
	}
	return nil
}
