package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/slideforge/slideforge-backend/internal/models"
	"github.com/slideforge/slideforge-backend/internal/services"
)

// Generator is the slice of GeminiService the proxy endpoint needs;
// tests substitute a stub.
type Generator interface {
	PlanPresentation(ctx context.Context, input models.InputSource, cfg models.PresentationConfig) (*models.Presentation, error)
	GenerateSlideImage(ctx context.Context, slide models.Slide, deckTitle string, cfg models.PresentationConfig) (string, error)
	OptimizeContent(ctx context.Context, text string) (string, error)
	Close()
}

// GeneratorFactory builds a Generator for one request's credential and
// optional model override; an empty model means the configured default.
type GeneratorFactory func(ctx context.Context, apiKey, model string) (Generator, error)

type GenerateHandler struct {
	factory     GeneratorFactory
	fallbackKey string
}

func NewGenerateHandler(factory GeneratorFactory, fallbackKey string) *GenerateHandler {
	return &GenerateHandler{factory: factory, fallbackKey: fallbackKey}
}

// Generate is the single proxy endpoint: one envelope, three actions.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeEnvelopeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Action == "" || len(req.Payload) == 0 {
		writeEnvelopeError(w, http.StatusBadRequest, "Missing action or payload")
		return
	}

	// Priority: 1. Request header, 2. Server fallback credential
	apiKey := r.Header.Get("X-API-Key")
	if apiKey == "" {
		apiKey = h.fallbackKey
	}
	if apiKey == "" {
		writeEnvelopeError(w, http.StatusUnauthorized, "API key not configured. Supply X-API-Key or set GEMINI_API_KEY.")
		return
	}

	// Clients may pin a specific model per call.
	var meta struct {
		Model string `json:"model"`
	}
	_ = json.Unmarshal(req.Payload, &meta)

	gen, err := h.factory(r.Context(), apiKey, meta.Model)
	if err != nil {
		log.Printf("generator init failed: %v", err)
		writeEnvelopeError(w, http.StatusInternalServerError, "Failed to initialize model client")
		return
	}
	defer gen.Close()

	var content string
	switch req.Action {
	case models.ActionPlanPresentation:
		content, err = h.planPresentation(r.Context(), gen, req.Payload)
	case models.ActionGenerateImage:
		content, err = h.generateImage(r.Context(), gen, req.Payload)
	case models.ActionOptimizeContent:
		content, err = h.optimizeContent(r.Context(), gen, req.Payload)
	default:
		writeEnvelopeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown action: %s", req.Action))
		return
	}

	if err != nil {
		status, msg := gatewayStatus(err)
		log.Printf("action %s failed: %v", req.Action, err)
		writeEnvelopeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, models.ActionResponse{
		Success: true,
		Data:    &models.ActionData{Content: content},
	})
}

func (h *GenerateHandler) planPresentation(ctx context.Context, gen Generator, payload json.RawMessage) (string, error) {
	var p models.PlanPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", malformed("Invalid plan payload")
	}
	if len(p.Input) == 0 {
		return "", malformed("Missing input")
	}

	input, err := models.UnmarshalInputSource(p.Input)
	if err != nil {
		return "", malformed(err.Error())
	}

	plan, err := gen.PlanPresentation(ctx, input, p.Config)
	if err != nil {
		return "", err
	}

	out, err := json.Marshal(plan)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (h *GenerateHandler) generateImage(ctx context.Context, gen Generator, payload json.RawMessage) (string, error) {
	var p models.ImagePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", malformed("Invalid image payload")
	}
	if p.Slide.VisualDescription == "" {
		return "", malformed("Missing slide visual description")
	}

	return gen.GenerateSlideImage(ctx, p.Slide, p.DeckTitle, p.Config)
}

func (h *GenerateHandler) optimizeContent(ctx context.Context, gen Generator, payload json.RawMessage) (string, error) {
	var p models.OptimizePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", malformed("Invalid optimize payload")
	}
	if p.Text == "" {
		return "", malformed("Missing text")
	}

	return gen.OptimizeContent(ctx, p.Text)
}

func malformed(msg string) error {
	return &services.GatewayError{Kind: services.GatewayMalformedRequest, Message: msg}
}

func gatewayStatus(err error) (int, string) {
	var gwErr *services.GatewayError
	if errors.As(err, &gwErr) {
		switch gwErr.Kind {
		case services.GatewayMalformedRequest:
			return http.StatusBadRequest, gwErr.Message
		case services.GatewayAuthMissing:
			return http.StatusUnauthorized, gwErr.Message
		default:
			return http.StatusInternalServerError, gwErr.Message
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

func writeEnvelopeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ActionResponse{Success: false, Error: msg})
}
