// Package videos holds the commands that read and render stored videos.
package videos

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/thomas-vilte/motioner/internal/commands/app"
	"github.com/thomas-vilte/motioner/internal/config"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/i18n"
	"github.com/thomas-vilte/motioner/internal/models"
	"github.com/thomas-vilte/motioner/internal/ui"
	"github.com/urfave/cli/v3"
)

type base struct {
	open app.Opener
	out  io.Writer
}

func newBase(open app.Opener) base {
	if open == nil {
		open = app.Open
	}
	return base{open: open, out: os.Stdout}
}

// withRuntime opens the backends, resolves the --user profile and runs fn.
func (b base) withRuntime(ctx context.Context, cmd *cli.Command, cfg *config.Config, fn func(rt *app.Runtime, user models.UserProfile) error) error {
	rt, err := b.open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()

	user, err := rt.User(ctx, cmd.String("user"))
	if err != nil {
		return err
	}
	return fn(rt, user)
}

func (b base) printJSON(v any) error {
	enc := json.NewEncoder(b.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func userFlag(t *i18n.Translations) cli.Flag {
	return &cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Value:   app.LocalUser,
		Usage:   t.GetMessage("flag_user", 0, nil),
	}
}

func videoID(cmd *cli.Command, t *i18n.Translations) (string, error) {
	id := cmd.Args().First()
	if id == "" {
		return "", domainErrors.ErrMissingFields.
			WithContext("argument", "video id").
			WithSuggestion(t.GetMessage("missing_video_id", 0, nil))
	}
	return id, nil
}

type ListCommandFactory struct{ base }

func NewListCommandFactory(open app.Opener) *ListCommandFactory {
	return &ListCommandFactory{newBase(open)}
}

func (f *ListCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "videos",
		Aliases: []string{"ls"},
		Usage:   t.GetMessage("videos_command_description", 0, nil),
		Flags: []cli.Flag{
			userFlag(t),
			&cli.BoolFlag{Name: "json", Usage: t.GetMessage("flag_json", 0, nil)},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return f.withRuntime(ctx, cmd, cfg, func(rt *app.Runtime, user models.UserProfile) error {
				videos, err := rt.Videos.List(ctx, user.ID)
				if err != nil {
					return err
				}
				if cmd.Bool("json") {
					return f.printJSON(map[string]any{"videos": videos})
				}
				if len(videos) == 0 {
					ui.PrintInfo(f.out, t.GetMessage("no_videos", 0, nil))
					return nil
				}
				for _, v := range videos {
					_, _ = fmt.Fprintf(f.out, "%s %s\n", ui.FilmEmoji, ui.Accent.Sprint(v.Title))
					ui.PrintKeyValue(f.out, t.GetMessage("concept.video_id", 0, nil), v.ID)
					ui.PrintKeyValue(f.out, t.GetMessage("concept.theme", 0, nil), string(v.Theme))
					ui.PrintKeyValue(f.out, t.GetMessage("concept.status", 0, nil), string(v.Status))
					ui.PrintKeyValue(f.out, t.GetMessage("concept.created", 0, nil), v.CreatedAt.Local().Format(time.DateTime))
					_, _ = fmt.Fprintln(f.out)
				}
				return nil
			})
		},
	}
}

type PropsCommandFactory struct{ base }

func NewPropsCommandFactory(open app.Opener) *PropsCommandFactory {
	return &PropsCommandFactory{newBase(open)}
}

func (f *PropsCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "props",
		Usage:     t.GetMessage("props_command_description", 0, nil),
		ArgsUsage: "<video id>",
		Flags:     []cli.Flag{userFlag(t)},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := videoID(cmd, t)
			if err != nil {
				return err
			}
			return f.withRuntime(ctx, cmd, cfg, func(rt *app.Runtime, user models.UserProfile) error {
				input, err := rt.Videos.RenderProps(ctx, user.ID, id)
				if err != nil {
					return err
				}
				return f.printJSON(input)
			})
		},
	}
}

type RenderCommandFactory struct{ base }

func NewRenderCommandFactory(open app.Opener) *RenderCommandFactory {
	return &RenderCommandFactory{newBase(open)}
}

func (f *RenderCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     t.GetMessage("render_command_description", 0, nil),
		ArgsUsage: "<video id>",
		Flags: []cli.Flag{
			userFlag(t),
			&cli.StringFlag{Name: "title", Usage: t.GetMessage("flag_title", 0, nil)},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := videoID(cmd, t)
			if err != nil {
				return err
			}
			var edit *models.ConceptEdit
			if title := cmd.String("title"); title != "" {
				edit = &models.ConceptEdit{Title: &title}
			}
			return f.withRuntime(ctx, cmd, cfg, func(rt *app.Runtime, user models.UserProfile) error {
				video, err := rt.Videos.StartRender(ctx, user.ID, id, edit)
				if err != nil {
					return err
				}
				ui.PrintSuccess(f.out, t.GetMessage("render_started", 0, nil))
				ui.PrintKeyValue(f.out, t.GetMessage("concept.video_id", 0, nil), video.ID)
				ui.PrintKeyValue(f.out, t.GetMessage("concept.status", 0, nil), string(video.Status))
				return nil
			})
		},
	}
}
