package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/slideforge/slideforge-backend/internal/models"
)

func TestBuildPlanInstruction(t *testing.T) {
	cfg := models.PresentationConfig{
		PageCount:        8,
		Language:         "de-DE",
		Style:            models.StyleMinimal,
		AdditionalPrompt: "use nautical metaphors",
	}

	got := buildPlanInstruction(cfg)

	for _, want := range []string{
		"8-page presentation",
		"Output Language: de-DE.",
		"Style: Minimalist, high impact, few words",
		"Important Additional Instructions from User: use nautical metaphors",
		"'bulletPoints': 3-5 key points",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("instruction missing %q:\n%s", want, got)
		}
	}
}

func TestBuildPlanInstruction_CustomStyle(t *testing.T) {
	cfg := models.PresentationConfig{
		PageCount:              3,
		Language:               "en",
		Style:                  models.StyleCustom,
		CustomStyleDescription: "hand-drawn chalkboard",
	}

	got := buildPlanInstruction(cfg)
	if !strings.Contains(got, "Custom Style: hand-drawn chalkboard") {
		t.Errorf("expected custom style text in instruction:\n%s", got)
	}
}

func TestImageStyleText(t *testing.T) {
	tests := []struct {
		name     string
		cfg      models.PresentationConfig
		expected string
	}{
		{"minimal", models.PresentationConfig{Style: models.StyleMinimal},
			"Modern, clean, lots of whitespace, corporate memphis or swiss style"},
		{"detailed", models.PresentationConfig{Style: models.StyleDetailed},
			"Professional, structured, grid layout, academic or technical style"},
		{"custom", models.PresentationConfig{Style: models.StyleCustom, CustomStyleDescription: "vaporwave"},
			"vaporwave"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := imageStyleText(tc.cfg); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestBuildImagePrompt(t *testing.T) {
	slide := models.Slide{
		Title:             "Ocean Currents",
		VisualDescription: "A swirling map of deep blue currents",
	}
	cfg := models.PresentationConfig{Style: models.StyleDetailed, AdditionalPrompt: "muted palette"}

	got := buildImagePrompt(slide, "Marine Science 101", cfg)

	for _, want := range []string{
		"Presentation Title: Marine Science 101",
		"Slide Title: Ocean Currents",
		"A swirling map of deep blue currents",
		"Additional Style Requirements: muted palette",
		"Aspect Ratio 16:9",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripJSONFences(tc.in); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abcd" {
		t.Errorf("expected abcd, got %q", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Errorf("expected abc untouched, got %q", got)
	}
}

func TestTruncate_CountsCharactersNotBytes(t *testing.T) {
	if got := truncate(strings.Repeat("文", 4), 4); got != "文文文文" {
		t.Errorf("4 characters fit a 4-character budget, got %q", got)
	}
	got := truncate(strings.Repeat("文", 5), 4)
	if got != "文文文文" {
		t.Errorf("expected first 4 characters, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated text is not valid UTF-8: %q", got)
	}
	if mixed := truncate("ab文字cd", 3); mixed != "ab文" {
		t.Errorf("expected rune-boundary cut, got %q", mixed)
	}
}

func TestValidateSlides(t *testing.T) {
	slides := []models.Slide{
		{Title: "Keep", BulletPoints: []string{"a", "b", "c"}, VisualDescription: "v"},
		{Title: "", BulletPoints: []string{"a"}, VisualDescription: "v"},
		{Title: "No bullets", VisualDescription: "v"},
		{Title: "Clamped", BulletPoints: []string{"1", "2", "3", "4", "5", "6", "7"}, VisualDescription: "v"},
	}

	got := validateSlides(slides)
	if len(got) != 2 {
		t.Fatalf("expected 2 valid slides, got %d", len(got))
	}
	if got[0].Title != "Keep" {
		t.Errorf("expected first valid slide to be kept, got %q", got[0].Title)
	}
	if len(got[1].BulletPoints) != 5 {
		t.Errorf("expected bullets clamped to 5, got %d", len(got[1].BulletPoints))
	}
}
