// Package serve holds the command that runs the HTTP API and webhook receiver.
package serve

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thomas-vilte/motioner/internal/commands/app"
	"github.com/thomas-vilte/motioner/internal/config"
	"github.com/thomas-vilte/motioner/internal/i18n"
	"github.com/thomas-vilte/motioner/internal/logger"
	"github.com/thomas-vilte/motioner/internal/server"
	"github.com/thomas-vilte/motioner/internal/ui"
	"github.com/urfave/cli/v3"
)

// authCacheTTL bounds how long a resolved GitHub token is trusted without asking GitHub again.
const authCacheTTL = 5 * time.Minute

type ServeCommandFactory struct {
	open app.Opener
	out  io.Writer
}

func NewServeCommandFactory(open app.Opener) *ServeCommandFactory {
	if open == nil {
		open = app.Open
	}
	return &ServeCommandFactory{open: open, out: os.Stdout}
}

func (f *ServeCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: t.GetMessage("serve_command_description", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   t.GetMessage("flag_addr", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger.Initialize(cmd.Bool("debug"), true, logger.Format(cfg.LogFormat))

			rt, err := f.open(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			auth := server.NewGitHubAuthenticator(server.GitHubLogin(cfg.GitHub.APIBaseURL), rt.Store, authCacheTTL)
			handler := server.NewHandler(rt.Analysis, rt.Videos, auth, cfg.GitHub.WebhookSecret,
				server.WithRateLimit(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst))

			addr := cmd.String("addr")
			if addr == "" {
				addr = cfg.ListenAddr
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			ui.PrintInfo(f.out, t.GetMessage("server_listening", 0, map[string]interface{}{"Addr": addr}))
			logger.Info(ctx, "api server starting",
				"addr", addr,
				"database", cfg.Database.Driver,
				"webhook_signature", cfg.GitHub.WebhookSecret != "")

			if err := server.Run(ctx, addr, server.NewRouter(handler)); err != nil {
				return err
			}
			ui.PrintInfo(f.out, t.GetMessage("server_stopped", 0, nil))
			return nil
		},
	}
}
