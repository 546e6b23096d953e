// Package analyze holds the analyze-pr and analyze-repo commands.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thomas-vilte/motioner/internal/commands/app"
	"github.com/thomas-vilte/motioner/internal/config"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/i18n"
	"github.com/thomas-vilte/motioner/internal/services"
	"github.com/thomas-vilte/motioner/internal/ui"
	"github.com/urfave/cli/v3"
)

type analyzeFunc func(ctx context.Context, svc *services.AnalysisService, userID string) (services.AnalysisResult, error)

type PRCommandFactory struct {
	open app.Opener
	out  io.Writer
	in   io.Reader
}

func NewPRCommandFactory(open app.Opener) *PRCommandFactory {
	if open == nil {
		open = app.Open
	}
	return &PRCommandFactory{open: open, out: os.Stdout, in: os.Stdin}
}

func (f *PRCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "analyze-pr",
		Aliases:   []string{"pr"},
		Usage:     t.GetMessage("analyze_pr_command_description", 0, nil),
		ArgsUsage: "[github pr url]",
		Flags: append(commonFlags(t),
			&cli.StringFlag{
				Name:  "title",
				Usage: t.GetMessage("flag_title", 0, nil),
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: t.GetMessage("flag_description", 0, nil),
			},
			&cli.StringFlag{
				Name:    "diff-file",
				Aliases: []string{"d"},
				Usage:   t.GetMessage("flag_diff_file", 0, nil),
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			req := services.PRRequest{
				URL:         cmd.Args().First(),
				Title:       cmd.String("title"),
				Description: cmd.String("description"),
			}
			if path := cmd.String("diff-file"); path != "" {
				diff, err := readDiff(path, f.in)
				if err != nil {
					return err
				}
				req.Diff = diff
			}
			if req.URL == "" && req.Title == "" && req.Diff == "" {
				return domainErrors.ErrMissingFields.WithSuggestion(t.GetMessage("analyze_pr_usage", 0, nil))
			}

			return runAnalysis(ctx, cmd, t, cfg, f.open, f.out, func(ctx context.Context, svc *services.AnalysisService, userID string) (services.AnalysisResult, error) {
				return svc.AnalyzePR(ctx, userID, req)
			})
		},
	}
}

type RepoCommandFactory struct {
	open app.Opener
	out  io.Writer
}

func NewRepoCommandFactory(open app.Opener) *RepoCommandFactory {
	if open == nil {
		open = app.Open
	}
	return &RepoCommandFactory{open: open, out: os.Stdout}
}

func (f *RepoCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "analyze-repo",
		Aliases:   []string{"repo"},
		Usage:     t.GetMessage("analyze_repo_command_description", 0, nil),
		ArgsUsage: "<github repo url>",
		Flags:     commonFlags(t),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			url := cmd.Args().First()
			if url == "" {
				return domainErrors.ErrMissingFields.
					WithContext("argument", "url").
					WithSuggestion(t.GetMessage("analyze_repo_usage", 0, nil))
			}
			return runAnalysis(ctx, cmd, t, cfg, f.open, f.out, func(ctx context.Context, svc *services.AnalysisService, userID string) (services.AnalysisResult, error) {
				return svc.AnalyzeRepo(ctx, userID, url)
			})
		},
	}
}

func commonFlags(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "user",
			Aliases: []string{"u"},
			Value:   app.LocalUser,
			Usage:   t.GetMessage("flag_user", 0, nil),
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: t.GetMessage("flag_json", 0, nil),
		},
	}
}

func runAnalysis(ctx context.Context, cmd *cli.Command, t *i18n.Translations, cfg *config.Config, open app.Opener, out io.Writer, analyze analyzeFunc) error {
	jsonOutput := cmd.Bool("json")

	var opts []services.AnalysisOption
	var spinner *ui.SmartSpinner
	if !jsonOutput {
		spinner = ui.NewSmartSpinner(t.GetMessage("progress.generating_concept", 0, nil))
		opts = append(opts, services.WithProgress(ui.ProgressReporter(spinner, t)))
	}

	rt, err := open(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	user, err := rt.User(ctx, cmd.String("user"))
	if err != nil {
		return err
	}

	if spinner != nil {
		spinner.Start()
	}
	result, err := analyze(ctx, rt.Analysis, user.ID)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	ui.PrintSuccess(out, t.GetMessage("analysis_done", 0, nil))
	ui.PrintSectionBanner(out, result.Concept.Title)
	ui.PrintConcept(out, result.Concept, t)
	if result.VideoID != "" {
		_, _ = fmt.Fprintln(out)
		ui.PrintKeyValue(out, t.GetMessage("concept.video_id", 0, nil), result.VideoID)
	}
	return nil
}

// readDiff reads the diff from path, or from in when path is "-".
func readDiff(path string, in io.Reader) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", domainErrors.ErrInvalidPayload.WithError(err).WithContext("diff_file", path)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
