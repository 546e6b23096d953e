package models

// RenderProps is the flattened input handed to a video composition. Only the fields
// of the concept's theme are set; the others stay nil and are omitted from JSON.
type RenderProps struct {
	Title            string  `json:"title"`
	PrimaryColor     string  `json:"primaryColor"`
	ScreenshotURL    *string `json:"screenshotUrl,omitempty"`
	BeforeCode       *string `json:"beforeCode,omitempty"`
	AfterCode        *string `json:"afterCode,omitempty"`
	SpeedImprovement *int    `json:"speedImprovement,omitempty"`
	BugDescription   *string `json:"bugDescription,omitempty"`
}

// Composition describes a video template the render engine knows how to play.
type Composition struct {
	ID               string      `json:"id"`
	Theme            Theme       `json:"theme"`
	DurationInFrames int         `json:"durationInFrames"`
	FPS              int         `json:"fps"`
	Width            int         `json:"width"`
	Height           int         `json:"height"`
	DefaultProps     RenderProps `json:"defaultProps"`
}
