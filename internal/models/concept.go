package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Theme selects the video template and the theme-specific fields of a concept.
type Theme string

const (
	ThemeFeature  Theme = "feature"
	ThemeRefactor Theme = "refactor"
	ThemeBug      Theme = "bug"
)

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	switch t {
	case ThemeFeature, ThemeRefactor, ThemeBug:
		return true
	}
	return false
}

// ThemeDetails carries the fields that only apply to one theme. It is implemented by
// FeatureDetails, RefactorDetails and BugDetails.
type ThemeDetails interface {
	Theme() Theme
	isThemeDetails()
}

type FeatureDetails struct {
	ScreenshotURL string
}

type RefactorDetails struct {
	BeforeCode       string
	AfterCode        string
	SpeedImprovement float64
}

type BugDetails struct {
	BugDescription string
}

func (FeatureDetails) Theme() Theme  { return ThemeFeature }
func (RefactorDetails) Theme() Theme { return ThemeRefactor }
func (BugDetails) Theme() Theme      { return ThemeBug }

func (FeatureDetails) isThemeDetails()  {}
func (RefactorDetails) isThemeDetails() {}
func (BugDetails) isThemeDetails()      {}

// VideoConcept is the structured result of analysing a PR or repository.
// Details is nil when Theme is not a known theme.
type VideoConcept struct {
	Theme           Theme
	Title           string
	VoiceoverScript string
	DurationSeconds float64
	PrimaryColor    string
	HighlightCode   string
	Details         ThemeDetails
}

// NewVideoConcept returns a concept whose Details match theme, with empty fields.
func NewVideoConcept(theme Theme) VideoConcept {
	c := VideoConcept{Theme: theme}
	c.Details = emptyDetails(theme)
	return c
}

func emptyDetails(theme Theme) ThemeDetails {
	switch theme {
	case ThemeFeature:
		return FeatureDetails{}
	case ThemeRefactor:
		return RefactorDetails{}
	case ThemeBug:
		return BugDetails{}
	}
	return nil
}

// conceptWire is the flat JSON shape shared with model providers and stored records.
type conceptWire struct {
	Theme            Theme       `json:"theme"`
	Title            string      `json:"title"`
	HighlightCode    string      `json:"highlightCode,omitempty"`
	VoiceoverScript  string      `json:"voiceoverScript"`
	DurationSeconds  *flexNumber `json:"durationSeconds,omitempty"`
	PrimaryColor     string      `json:"primaryColor"`
	BeforeCode       *string     `json:"beforeCode,omitempty"`
	AfterCode        *string     `json:"afterCode,omitempty"`
	SpeedImprovement *flexNumber `json:"speedImprovement,omitempty"`
	BugDescription   *string     `json:"bugDescription,omitempty"`
	ScreenshotURL    *string     `json:"screenshotUrl,omitempty"`
}

func (c VideoConcept) MarshalJSON() ([]byte, error) {
	w := conceptWire{
		Theme:           c.Theme,
		Title:           c.Title,
		HighlightCode:   c.HighlightCode,
		VoiceoverScript: c.VoiceoverScript,
		PrimaryColor:    c.PrimaryColor,
	}
	if c.DurationSeconds != 0 {
		d := flexNumber(c.DurationSeconds)
		w.DurationSeconds = &d
	}

	switch d := c.Details.(type) {
	case FeatureDetails:
		w.ScreenshotURL = &d.ScreenshotURL
	case RefactorDetails:
		speed := flexNumber(d.SpeedImprovement)
		w.BeforeCode = &d.BeforeCode
		w.AfterCode = &d.AfterCode
		w.SpeedImprovement = &speed
	case BugDetails:
		w.BugDescription = &d.BugDescription
	}

	return json.Marshal(w)
}

// UnmarshalJSON reads the flat shape and keeps only the fields of the active theme.
func (c *VideoConcept) UnmarshalJSON(data []byte) error {
	var w conceptWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*c = VideoConcept{
		Theme:           Theme(strings.ToLower(strings.TrimSpace(string(w.Theme)))),
		Title:           w.Title,
		VoiceoverScript: w.VoiceoverScript,
		PrimaryColor:    w.PrimaryColor,
		HighlightCode:   w.HighlightCode,
	}
	if w.DurationSeconds != nil {
		c.DurationSeconds = float64(*w.DurationSeconds)
	}

	switch c.Theme {
	case ThemeFeature:
		c.Details = FeatureDetails{ScreenshotURL: deref(w.ScreenshotURL)}
	case ThemeRefactor:
		d := RefactorDetails{BeforeCode: deref(w.BeforeCode), AfterCode: deref(w.AfterCode)}
		if w.SpeedImprovement != nil {
			d.SpeedImprovement = float64(*w.SpeedImprovement)
		}
		c.Details = d
	case ThemeBug:
		c.Details = BugDetails{BugDescription: deref(w.BugDescription)}
	}
	return nil
}

// ConceptEdit is a partial update from the video editor. Theme cannot be edited;
// theme-specific fields are ignored unless they belong to the concept's theme.
type ConceptEdit struct {
	Title            *string  `json:"title,omitempty"`
	PrimaryColor     *string  `json:"primaryColor,omitempty"`
	VoiceoverScript  *string  `json:"voiceoverScript,omitempty"`
	ScreenshotURL    *string  `json:"screenshotUrl,omitempty"`
	BeforeCode       *string  `json:"beforeCode,omitempty"`
	AfterCode        *string  `json:"afterCode,omitempty"`
	SpeedImprovement *float64 `json:"speedImprovement,omitempty"`
	BugDescription   *string  `json:"bugDescription,omitempty"`
}

// Apply returns a copy of c with the edit applied.
func (e ConceptEdit) Apply(c VideoConcept) VideoConcept {
	if e.Title != nil {
		c.Title = *e.Title
	}
	if e.PrimaryColor != nil {
		c.PrimaryColor = *e.PrimaryColor
	}
	if e.VoiceoverScript != nil {
		c.VoiceoverScript = *e.VoiceoverScript
	}

	switch d := c.Details.(type) {
	case FeatureDetails:
		if e.ScreenshotURL != nil {
			d.ScreenshotURL = *e.ScreenshotURL
		}
		c.Details = d
	case RefactorDetails:
		if e.BeforeCode != nil {
			d.BeforeCode = *e.BeforeCode
		}
		if e.AfterCode != nil {
			d.AfterCode = *e.AfterCode
		}
		if e.SpeedImprovement != nil {
			d.SpeedImprovement = *e.SpeedImprovement
		}
		c.Details = d
	case BugDetails:
		if e.BugDescription != nil {
			d.BugDescription = *e.BugDescription
		}
		c.Details = d
	}
	return c
}

// flexNumber accepts JSON numbers and numeric strings such as "40" or "40%",
// which models return often enough for speedImprovement and durationSeconds.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = flexNumber(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected number, got %s", data)
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("expected number, got %q", s)
	}
	*n = flexNumber(f)
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
