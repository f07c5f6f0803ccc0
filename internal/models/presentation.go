package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SlideStyle string

const (
	StyleMinimal  SlideStyle = "MINIMAL"
	StyleDetailed SlideStyle = "DETAILED"
	StyleCustom   SlideStyle = "CUSTOM"
)

type PresentationConfig struct {
	PageCount              int        `json:"pageCount"`
	Language               string     `json:"language"`
	Style                  SlideStyle `json:"style"`
	CustomStyleDescription string     `json:"customStyleDescription,omitempty"`
	AdditionalPrompt       string     `json:"additionalPrompt,omitempty"`
}

func (c PresentationConfig) Validate() error {
	if c.PageCount < 1 {
		return fmt.Errorf("pageCount must be positive, got %d", c.PageCount)
	}
	switch c.Style {
	case StyleMinimal, StyleDetailed:
	case StyleCustom:
		if c.CustomStyleDescription == "" {
			return fmt.Errorf("customStyleDescription is required for style %s", StyleCustom)
		}
	default:
		return fmt.Errorf("unknown style: %q", c.Style)
	}
	return nil
}

type Slide struct {
	Title             string   `json:"title"`
	BulletPoints      []string `json:"bulletPoints"`
	VisualDescription string   `json:"visualDescription"`
	ImageURL          string   `json:"imageUrl,omitempty"`
}

type Presentation struct {
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
}

// Clone returns a deep copy so later edits to the live deck never leak
// into a stored snapshot.
func (p Presentation) Clone() Presentation {
	out := Presentation{Title: p.Title, Slides: make([]Slide, len(p.Slides))}
	for i, s := range p.Slides {
		cp := s
		cp.BulletPoints = append([]string(nil), s.BulletPoints...)
		out.Slides[i] = cp
	}
	return out
}

// Thumbnail returns the first slide's rendered image, if any.
func (p Presentation) Thumbnail() *string {
	if len(p.Slides) == 0 || p.Slides[0].ImageURL == "" {
		return nil
	}
	url := p.Slides[0].ImageURL
	return &url
}

type HistoryRecord struct {
	ID           uuid.UUID    `json:"id"`
	Timestamp    int64        `json:"timestamp"` // epoch millis
	Presentation Presentation `json:"presentation"`
	Thumbnail    *string      `json:"thumbnail,omitempty"`
}

func (r HistoryRecord) CreatedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// MarshalPresentation renders the embedded snapshot for storage.
func (r HistoryRecord) MarshalPresentation() ([]byte, error) {
	return json.Marshal(r.Presentation)
}
