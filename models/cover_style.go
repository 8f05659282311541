package models

import (
	"encoding/json"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	CoverTypeGradient = "gradient"
	CoverTypeImage    = "image"
)

// CoverStyle is the display configuration for an article's cover art.
// It is stored as an opaque JSON string on the article.
type CoverStyle struct {
	Type       string   `json:"type"`
	Color1     string   `json:"color1,omitempty"`
	Color2     string   `json:"color2,omitempty"`
	ImageURL   string   `json:"imageUrl,omitempty"`
	Blur       *float64 `json:"blur,omitempty"`
	Grayscale  *float64 `json:"grayscale,omitempty"`
	Brightness *float64 `json:"brightness,omitempty"`
	Grain      *float64 `json:"grain,omitempty"`
	ShowTitle  *bool    `json:"showTitle,omitempty"`
}

func DefaultCoverStyle() CoverStyle {
	show := true
	return CoverStyle{
		Type:      CoverTypeGradient,
		Color1:    "#3b82f6",
		Color2:    "#1e40af",
		ShowTitle: &show,
	}
}

func (s CoverStyle) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Type, validation.Required, validation.In(CoverTypeGradient, CoverTypeImage)),
		validation.Field(&s.Blur, validation.Min(0.0), validation.Max(20.0)),
		validation.Field(&s.Grayscale, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&s.Brightness, validation.Min(0.0), validation.Max(200.0)),
		validation.Field(&s.Grain, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&s.ImageURL, validation.When(s.Type == CoverTypeImage, validation.Required)),
	)
}

// TitleVisible defaults to true when showTitle was never set.
func (s CoverStyle) TitleVisible() bool {
	return s.ShowTitle == nil || *s.ShowTitle
}

func (s CoverStyle) Value(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// ParseCoverStyle decodes a stored cover style. Anything that does not decode to
// a valid style yields nil so callers fall back to no custom style.
func ParseCoverStyle(raw *string) *CoverStyle {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	var s CoverStyle
	if err := json.Unmarshal([]byte(*raw), &s); err != nil {
		return nil
	}
	if err := s.Validate(); err != nil {
		return nil
	}
	return &s
}
