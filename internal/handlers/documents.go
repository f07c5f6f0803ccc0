package handlers

import (
	"net/http"
	"sync"

	"github.com/slideforge/slideforge-backend/internal/models"
	"github.com/slideforge/slideforge-backend/internal/services"
)

type DocumentHandler struct {
	normalizer *services.Normalizer

	mu       sync.Mutex
	sessions map[string]*services.IngestState
}

func NewDocumentHandler(normalizer *services.Normalizer) *DocumentHandler {
	return &DocumentHandler{
		normalizer: normalizer,
		sessions:   make(map[string]*services.IngestState),
	}
}

// session resolves the caller's ingest state; anonymous callers share
// one slot, which matches the single-editing-session model.
func (h *DocumentHandler) session(r *http.Request) *services.IngestState {
	id := r.Header.Get("X-Session-ID")
	if id == "" {
		id = "default"
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	st, ok := h.sessions[id]
	if !ok {
		st = services.NewIngestState()
		h.sessions[id] = st
	}
	return st
}

// Normalize accepts a multipart upload and installs the canonical
// input payload as the session's current source. A newer upload
// supersedes a slower in-flight one; the stale result is discarded.
func (h *DocumentHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > services.MaxUploadBytes {
		lang := requestLanguage(r)
		tooLarge := &services.IngestionError{Kind: services.IngestTooLarge}
		writeJSON(w, http.StatusRequestEntityTooLarge,
			errorResp(string(services.IngestTooLarge), services.UserMessage(tooLarge, lang), r))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
		return
	}
	defer file.Close()

	st := h.session(r)
	seq := st.Next()

	src, err := h.normalizer.Normalize(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	st.Apply(seq, src)

	// Respond with whatever is current: the fresh result, or the
	// winner if this upload was superseded mid-flight.
	h.writeInputSource(w, r, st.Current())
}

// Current returns the session's active input source.
func (h *DocumentHandler) Current(w http.ResponseWriter, r *http.Request) {
	h.writeInputSource(w, r, h.session(r).Current())
}

// Clear resets the session to an empty text input. In-flight uploads
// started before the clear will be discarded when they resolve.
func (h *DocumentHandler) Clear(w http.ResponseWriter, r *http.Request) {
	st := h.session(r)
	st.Clear()
	h.writeInputSource(w, r, st.Current())
}

func (h *DocumentHandler) writeInputSource(w http.ResponseWriter, r *http.Request, src models.InputSource) {
	out, err := models.MarshalInputSource(src)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}
