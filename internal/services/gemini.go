package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/slideforge/slideforge-backend/internal/models"
)

// maxDocumentChars bounds the text handed to the planner.
const maxDocumentChars = 30000

type GeminiService struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

func NewGeminiService(ctx context.Context, apiKey, textModel, imageModel string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, gatewayErr(GatewayAuthMissing, "no API key supplied", nil)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{
		client:     client,
		textModel:  textModel,
		imageModel: imageModel,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// PlanPresentation asks the model to split the source material into a
// structured slide deck. Text input is truncated to the document
// budget; binary documents (PDF) go to the model as-is.
func (s *GeminiService) PlanPresentation(ctx context.Context, input models.InputSource, cfg models.PresentationConfig) (*models.Presentation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, gatewayErr(GatewayMalformedRequest, err.Error(), nil)
	}

	model := s.client.GenerativeModel(s.textModel)
	model.SetTemperature(0.3)
	model.SetTopP(0.95)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(buildPlanInstruction(cfg))},
	}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = planResponseSchema()

	var part genai.Part
	switch v := input.(type) {
	case models.TextInput:
		part = genai.Text("Input Text:\n" + truncate(v.Content, maxDocumentChars))
	case models.FileInput:
		raw, err := base64.StdEncoding.DecodeString(v.Data)
		if err != nil {
			return nil, gatewayErr(GatewayMalformedRequest, "file data is not valid base64", err)
		}
		part = genai.Blob{MIMEType: v.MimeType, Data: raw}
	default:
		return nil, gatewayErr(GatewayMalformedRequest, "missing document or text input", nil)
	}

	resp, err := model.GenerateContent(ctx, part)
	if err != nil {
		return nil, gatewayErr(GatewayPlanningFailed, "Gemini API error", err)
	}

	rawText := stripJSONFences(extractText(resp))
	if rawText == "" {
		return nil, gatewayErr(GatewayPlanningFailed, "no response from AI", nil)
	}

	var plan models.Presentation
	if err := json.Unmarshal([]byte(rawText), &plan); err != nil {
		// Try to extract the JSON object
		start := strings.Index(rawText, "{")
		end := strings.LastIndex(rawText, "}")
		if start < 0 || end <= start {
			return nil, gatewayErr(GatewayPlanningFailed, "malformed plan response", err)
		}
		if err := json.Unmarshal([]byte(rawText[start:end+1]), &plan); err != nil {
			return nil, gatewayErr(GatewayPlanningFailed, "malformed plan response", err)
		}
	}

	plan.Slides = validateSlides(plan.Slides)
	if plan.Title == "" || len(plan.Slides) == 0 {
		return nil, gatewayErr(GatewayPlanningFailed, "plan response missing title or slides", nil)
	}

	return &plan, nil
}

// GenerateSlideImage renders one slide and returns it as a data URL.
func (s *GeminiService) GenerateSlideImage(ctx context.Context, slide models.Slide, deckTitle string, cfg models.PresentationConfig) (string, error) {
	model := s.client.GenerativeModel(s.imageModel)

	prompt := buildImagePrompt(slide, deckTitle, cfg)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", gatewayErr(GatewayImageGenerationFailed, "Gemini API error", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if blob, ok := part.(genai.Blob); ok {
				mime := blob.MIMEType
				if mime == "" {
					mime = "image/png"
				}
				return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(blob.Data)), nil
			}
		}
	}

	return "", gatewayErr(GatewayImageGenerationFailed, "no image generated", nil)
}

// OptimizeContent rewrites free text for clarity. An empty rewrite is
// a valid result, not an error.
func (s *GeminiService) OptimizeContent(ctx context.Context, text string) (string, error) {
	model := s.client.GenerativeModel(s.textModel)

	prompt := "优化以下演示文稿内容，使其更加清晰、专业和吸引人：\n\n" + text

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", gatewayErr(GatewayRefinementFailed, "Gemini API error", err)
	}

	return extractText(resp), nil
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// truncate caps s at max characters, never splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

func planResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {Type: genai.TypeString},
			"slides": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":             {Type: genai.TypeString},
						"bulletPoints":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
						"visualDescription": {Type: genai.TypeString},
					},
					Required: []string{"title", "bulletPoints", "visualDescription"},
				},
			},
		},
		Required: []string{"title", "slides"},
	}
}

func buildPlanInstruction(cfg models.PresentationConfig) string {
	var b strings.Builder

	b.WriteString("You are an expert presentation designer.\n")
	b.WriteString(fmt.Sprintf("Analyze the provided input (text or document) and split it into a %d-page presentation.\n", cfg.PageCount))
	b.WriteString(fmt.Sprintf("Output Language: %s.\n", cfg.Language))
	b.WriteString(planStyleText(cfg))
	b.WriteString("\n")

	if cfg.AdditionalPrompt != "" {
		b.WriteString(fmt.Sprintf("Important Additional Instructions from User: %s\n", cfg.AdditionalPrompt))
	}

	b.WriteString(`
Return a JSON object with a 'title' for the whole deck and an array of 'slides'.
For each slide, provide:
1. 'title': The slide headline.
2. 'bulletPoints': 3-5 key points (text only).
3. 'visualDescription': A highly detailed, artistic description of how the slide should look visually.
`)

	return b.String()
}

func planStyleText(cfg models.PresentationConfig) string {
	switch cfg.Style {
	case models.StyleCustom:
		return fmt.Sprintf("Custom Style: %s", cfg.CustomStyleDescription)
	case models.StyleMinimal:
		return "Style: Minimalist, high impact, few words"
	default:
		return "Style: Detailed, educational, comprehensive"
	}
}

func imageStyleText(cfg models.PresentationConfig) string {
	switch cfg.Style {
	case models.StyleCustom:
		return cfg.CustomStyleDescription
	case models.StyleMinimal:
		return "Modern, clean, lots of whitespace, corporate memphis or swiss style"
	default:
		return "Professional, structured, grid layout, academic or technical style"
	}
}

func buildImagePrompt(slide models.Slide, deckTitle string, cfg models.PresentationConfig) string {
	var b strings.Builder

	b.WriteString("Design a professional presentation slide.\n\n")
	b.WriteString("Context:\n")
	b.WriteString(fmt.Sprintf("Presentation Title: %s\n", deckTitle))
	b.WriteString(fmt.Sprintf("Slide Title: %s\n", slide.Title))
	b.WriteString(fmt.Sprintf("Style Guide: %s\n", imageStyleText(cfg)))

	if cfg.AdditionalPrompt != "" {
		b.WriteString(fmt.Sprintf("Additional Style Requirements: %s\n", cfg.AdditionalPrompt))
	}

	b.WriteString("\nVisual Instructions:\n")
	b.WriteString(slide.VisualDescription)
	b.WriteString(`

Important:
- Create a high-quality slide design.
- Ensure the layout has clear space for text overlay.
- Aspect Ratio 16:9.
`)

	return b.String()
}

func validateSlides(slides []models.Slide) []models.Slide {
	var valid []models.Slide
	for _, s := range slides {
		if s.Title == "" || len(s.BulletPoints) == 0 {
			continue
		}
		if len(s.BulletPoints) > 5 {
			s.BulletPoints = s.BulletPoints[:5]
		}
		valid = append(valid, s)
	}
	return valid
}
