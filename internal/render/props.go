// Package render maps video concepts onto the compositions of the render engine.
package render

import (
	"math"

	"github.com/thomas-vilte/motioner/internal/models"
)

const (
	DefaultTitle        = "Untitled"
	DefaultPrimaryColor = "#6366f1"
)

// ToRenderProps flattens a concept into composition input props. It reports false
// when the concept's theme has no composition.
func ToRenderProps(concept models.VideoConcept) (models.RenderProps, bool) {
	props := models.RenderProps{
		Title:        concept.Title,
		PrimaryColor: concept.PrimaryColor,
	}
	if props.Title == "" {
		props.Title = DefaultTitle
	}
	if props.PrimaryColor == "" {
		props.PrimaryColor = DefaultPrimaryColor
	}

	details := concept.Details
	if details == nil || details.Theme() != concept.Theme {
		return models.RenderProps{}, false
	}

	switch d := details.(type) {
	case models.FeatureDetails:
		props.ScreenshotURL = ptr(d.ScreenshotURL)
	case models.RefactorDetails:
		props.BeforeCode = ptr(d.BeforeCode)
		props.AfterCode = ptr(d.AfterCode)
		props.SpeedImprovement = ptr(toInt(d.SpeedImprovement))
	case models.BugDetails:
		props.BugDescription = ptr(d.BugDescription)
	default:
		return models.RenderProps{}, false
	}
	return props, true
}

// toInt truncates toward zero, the way the editor parses the field. Values outside
// the int range are clamped.
func toInt(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

func ptr[T any](v T) *T {
	return &v
}
