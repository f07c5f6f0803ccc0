package models

import "encoding/json"

// Actions accepted by the generation proxy endpoint.
const (
	ActionPlanPresentation = "plan-presentation"
	ActionGenerateImage    = "generate-image"
	ActionOptimizeContent  = "optimize-content"
)

type ActionRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

type PlanPayload struct {
	Input  json.RawMessage    `json:"input"` // tagged InputSource
	Config PresentationConfig `json:"config"`
	Model  string             `json:"model,omitempty"` // optional per-request model override
}

type ImagePayload struct {
	Slide     Slide              `json:"slide"`
	DeckTitle string             `json:"deckTitle"`
	Config    PresentationConfig `json:"config"`
	Model     string             `json:"model,omitempty"`
}

type OptimizePayload struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

type ActionData struct {
	Content string `json:"content"`
}

type ActionResponse struct {
	Success bool        `json:"success"`
	Data    *ActionData `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
