package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/slideforge/slideforge-backend/internal/models"
	"github.com/slideforge/slideforge-backend/internal/repository"
)

type HistoryHandler struct {
	historyRepo *repository.HistoryRepo
}

func NewHistoryHandler(historyRepo *repository.HistoryRepo) *HistoryHandler {
	return &HistoryHandler{historyRepo: historyRepo}
}

// Save appends one snapshot. Re-saving the same deck creates a new
// record; there is no dedup by title or content.
func (h *HistoryHandler) Save(w http.ResponseWriter, r *http.Request) {
	var p models.Presentation
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	record, err := h.historyRepo.Save(r.Context(), p)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// List returns all snapshots, most recent first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.historyRepo.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if records == nil {
		records = []models.HistoryRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid record ID", r))
		return
	}

	if err := h.historyRepo.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
