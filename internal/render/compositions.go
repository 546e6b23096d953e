package render

import (
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/models"
)

const (
	durationInFrames = 450
	fps              = 30
	size             = 1080
)

var compositions = []models.Composition{
	{
		ID:               "FeatureFlash",
		Theme:            models.ThemeFeature,
		DurationInFrames: durationInFrames,
		FPS:              fps,
		Width:            size,
		Height:           size,
		DefaultProps: models.RenderProps{
			Title:         "New Feature Released!",
			PrimaryColor:  "#6366f1",
			ScreenshotURL: ptr(""),
		},
	},
	{
		ID:               "RefactorSpeed",
		Theme:            models.ThemeRefactor,
		DurationInFrames: durationInFrames,
		FPS:              fps,
		Width:            size,
		Height:           size,
		DefaultProps: models.RenderProps{
			Title:            "Performance Improved",
			PrimaryColor:     "#10b981",
			BeforeCode:       ptr("const result = await db.query(key);"),
			AfterCode:        ptr("const result = await cache.get(key) || await db.query(key);"),
			SpeedImprovement: ptr(40),
		},
	},
	{
		ID:               "BugSquash",
		Theme:            models.ThemeBug,
		DurationInFrames: durationInFrames,
		FPS:              fps,
		Width:            size,
		Height:           size,
		DefaultProps: models.RenderProps{
			Title:          "Bug Fixed",
			PrimaryColor:   "#f59e0b",
			BugDescription: ptr("Fixed critical issue"),
		},
	},
}

// Compositions returns the registered compositions, one per theme.
func Compositions() []models.Composition {
	out := make([]models.Composition, len(compositions))
	copy(out, compositions)
	return out
}

// CompositionFor returns the composition that plays concepts of theme.
func CompositionFor(theme models.Theme) (models.Composition, error) {
	for _, c := range compositions {
		if c.Theme == theme {
			return c, nil
		}
	}
	return models.Composition{}, domainErrors.ErrNoComposition.WithContext("theme", string(theme))
}

// Input is what the render engine needs to play one video.
type Input struct {
	Composition models.Composition `json:"composition"`
	Props       models.RenderProps `json:"props"`
}

// InputFor resolves the composition and props for a concept.
func InputFor(concept models.VideoConcept) (Input, error) {
	comp, err := CompositionFor(concept.Theme)
	if err != nil {
		return Input{}, err
	}
	props, ok := ToRenderProps(concept)
	if !ok {
		return Input{}, domainErrors.ErrNoComposition.WithContext("theme", string(concept.Theme))
	}
	return Input{Composition: comp, Props: props}, nil
}
