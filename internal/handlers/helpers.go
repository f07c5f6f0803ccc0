package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/slideforge/slideforge-backend/internal/models"
	"github.com/slideforge/slideforge-backend/internal/repository"
	"github.com/slideforge/slideforge-backend/internal/services"
)

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var storeErr *repository.StoreError
	if errors.As(err, &storeErr) {
		writeJSON(w, http.StatusInternalServerError, errorResp(string(storeErr.Kind), "History store operation failed", r))
		return
	}

	var ingestErr *services.IngestionError
	if errors.As(err, &ingestErr) {
		status := http.StatusUnprocessableEntity
		if ingestErr.Kind == services.IngestTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		lang := requestLanguage(r)
		writeJSON(w, status, errorResp(string(ingestErr.Kind), services.UserMessage(ingestErr, lang), r))
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
}

// requestLanguage resolves the UI language for localized messages:
// explicit ?lang= first, then Accept-Language, defaulting to English.
func requestLanguage(r *http.Request) string {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = r.Header.Get("Accept-Language")
	}
	if len(lang) >= 2 && lang[:2] == "zh" {
		return "zh"
	}
	return "en"
}
