package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/i18n"
	"github.com/thomas-vilte/motioner/internal/models"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Accent  = color.New(color.FgMagenta, color.Bold)
	Dim     = color.New(color.FgHiBlack)

	FilmEmoji    = "🎬"
	SuccessEmoji = Success.Sprint("✅")
	WarningEmoji = Warning.Sprint("⚠️")
	InfoEmoji    = Info.Sprint("ℹ️")
	RocketEmoji  = Accent.Sprint("🚀")
)

var activeSpinner *SmartSpinner

// SmartSpinner is a terminal spinner whose message follows the pipeline progress.
type SmartSpinner struct {
	spinner *spinner.Spinner
	out     io.Writer
}

func NewSmartSpinner(initialMessage string) *SmartSpinner {
	s := spinner.New(
		spinner.CharSets[14],
		100*time.Millisecond,
		spinner.WithColor("cyan"),
		spinner.WithSuffix(" "+FilmEmoji+" "+initialMessage),
		spinner.WithWriter(os.Stderr),
	)
	return &SmartSpinner{spinner: s, out: os.Stdout}
}

// Start starts the spinner and registers it as the globally active spinner.
func (s *SmartSpinner) Start() {
	activeSpinner = s
	s.spinner.Start()
}

func (s *SmartSpinner) Stop() {
	s.spinner.Stop()
	if activeSpinner == s {
		activeSpinner = nil
	}
}

// StopActiveSpinner stops the spinner left running by a failed command.
func StopActiveSpinner() {
	if activeSpinner != nil {
		activeSpinner.Stop()
	}
}

func (s *SmartSpinner) UpdateMessage(msg string) {
	s.spinner.Suffix = " " + FilmEmoji + " " + msg
}

func (s *SmartSpinner) Success(msg string) {
	s.Stop()
	PrintSuccess(s.out, msg)
}

func (s *SmartSpinner) Error(msg string) {
	s.Stop()
	PrintError(s.out, msg)
}

// Log prints a line above the spinner without stopping it for good.
func (s *SmartSpinner) Log(msg string) {
	s.Stop()
	_, _ = fmt.Fprintln(s.out, msg)
	s.Start()
}

// ProgressReporter turns pipeline progress events into spinner updates.
func ProgressReporter(s *SmartSpinner, t *i18n.Translations) func(models.ProgressEvent) {
	return func(e models.ProgressEvent) {
		switch e.Type {
		case models.ProgressFetching:
			s.UpdateMessage(t.GetMessage("progress.fetching", 0, map[string]interface{}{"Ref": e.Data["ref"]}))
		case models.ProgressSensitiveInfo:
			s.Log(fmt.Sprintf("%s %s", WarningEmoji, Warning.Sprint(t.GetMessage("progress.sensitive_info_redacted", 0, nil))))
		case models.ProgressGenerating:
			s.UpdateMessage(t.GetMessage("progress.generating_concept", 0, nil))
		case models.ProgressStored:
			s.UpdateMessage(t.GetMessage("progress.video_stored", 0, map[string]interface{}{"VideoID": e.Data["video_id"]}))
		}
	}
}

func PrintSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", SuccessEmoji, Success.Sprint(msg))
}

func PrintError(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Error.Sprint("❌"), Error.Sprint(msg))
}

func PrintWarning(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", WarningEmoji, Warning.Sprint(msg))
}

func PrintInfo(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", InfoEmoji, Info.Sprint(msg))
}

func PrintSectionBanner(w io.Writer, title string) {
	separator := color.New(color.FgCyan).Sprint("━━━━━━━━━━━━━━━━━━━━━━━")
	_, _ = fmt.Fprintf(w, "\n%s\n", separator)
	_, _ = fmt.Fprintf(w, "%s %s\n", RocketEmoji, Accent.Sprint(title))
	_, _ = fmt.Fprintf(w, "%s\n\n", separator)
}

func PrintKeyValue(w io.Writer, key, value string) {
	keyColored := Dim.Sprint(key + ":")
	valueColored := color.New(color.FgWhite, color.Bold).Sprint(value)
	_, _ = fmt.Fprintf(w, "   %s %s\n", keyColored, valueColored)
}

// PrintConcept shows the common fields of a concept followed by its theme fields.
func PrintConcept(w io.Writer, c models.VideoConcept, t *i18n.Translations) {
	PrintKeyValue(w, t.GetMessage("concept.theme", 0, nil), string(c.Theme))
	PrintKeyValue(w, t.GetMessage("concept.title", 0, nil), c.Title)
	PrintKeyValue(w, t.GetMessage("concept.color", 0, nil), c.PrimaryColor)
	PrintKeyValue(w, t.GetMessage("concept.duration", 0, nil), fmt.Sprintf("%gs", c.DurationSeconds))

	switch d := c.Details.(type) {
	case models.FeatureDetails:
		if d.ScreenshotURL != "" {
			PrintKeyValue(w, "screenshotUrl", d.ScreenshotURL)
		}
	case models.RefactorDetails:
		PrintKeyValue(w, "speedImprovement", fmt.Sprintf("%g%%", d.SpeedImprovement))
	case models.BugDetails:
		PrintKeyValue(w, "bugDescription", d.BugDescription)
	}

	if c.VoiceoverScript != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n%s\n", Dim.Sprint(t.GetMessage("concept.voiceover", 0, nil)+":"), c.VoiceoverScript)
	}
	if c.HighlightCode != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", Dim.Sprint(c.HighlightCode))
	}
}

// HandleAppError prints err with its type, details and suggestion when it is an
// AppError. If translations is nil, English defaults are used.
func HandleAppError(w io.Writer, err error, translations ...*i18n.Translations) {
	if err == nil {
		return
	}

	var t *i18n.Translations
	if len(translations) > 0 && translations[0] != nil {
		t = translations[0]
	}

	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		errorColor := color.New(color.FgRed, color.Bold)
		suggestionColor := color.New(color.FgCyan)

		_, _ = fmt.Fprintln(w)
		_, _ = errorColor.Fprintf(w, "❌ %s: %s\n", appErr.Type, appErr.Message)

		if appErr.Err != nil {
			_, _ = Dim.Fprintf(w, "   Details: %v\n", appErr.Err)
		}

		if appErr.Suggestion != "" {
			_, _ = fmt.Fprintln(w)
			tryPrefix := "💡 Try: "
			if t != nil {
				tryPrefix = t.GetMessage("ui_error.try_suggestion", 0, nil)
			}
			_, _ = suggestionColor.Fprint(w, tryPrefix)
			for i, line := range strings.Split(appErr.Suggestion, "\n") {
				if i == 0 {
					_, _ = fmt.Fprintln(w, line)
				} else {
					_, _ = fmt.Fprintf(w, "       %s\n", line)
				}
			}
		}
		_, _ = fmt.Fprintln(w)
		return
	}

	PrintError(w, err.Error())
}
