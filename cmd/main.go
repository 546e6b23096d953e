package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/thomas-vilte/motioner/internal/commands/analyze"
	"github.com/thomas-vilte/motioner/internal/commands/app"
	configcmd "github.com/thomas-vilte/motioner/internal/commands/config"
	"github.com/thomas-vilte/motioner/internal/commands/registry"
	"github.com/thomas-vilte/motioner/internal/commands/serve"
	"github.com/thomas-vilte/motioner/internal/commands/videos"
	cfg "github.com/thomas-vilte/motioner/internal/config"
	"github.com/thomas-vilte/motioner/internal/i18n"
	"github.com/thomas-vilte/motioner/internal/logger"
	"github.com/thomas-vilte/motioner/internal/ui"
	"github.com/thomas-vilte/motioner/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	root, translations, err := initializeApp()
	if err != nil {
		log.Fatalf("error starting motioner: %v", err)
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		ui.StopActiveSpinner()
		ui.HandleAppError(os.Stderr, err, translations)
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, *i18n.Translations, error) {
	configPath := os.Getenv("MOTIONER_CONFIG")
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("could not resolve the home directory: %w", err)
		}
		configPath = homeDir
	}

	cfgApp, err := cfg.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	cfgApp.ApplyEnv(os.Getenv)

	translations, err := i18n.NewTranslations(cfg.GetLocaleConfig(cfgApp.Language), "")
	if err != nil {
		return nil, nil, fmt.Errorf("error loading translations: %w", err)
	}

	registerCommand := registry.NewRegistry(cfgApp, translations)
	factories := []struct {
		name    string
		factory registry.CommandFactory
	}{
		{"serve", serve.NewServeCommandFactory(app.Open)},
		{"analyze-pr", analyze.NewPRCommandFactory(app.Open)},
		{"analyze-repo", analyze.NewRepoCommandFactory(app.Open)},
		{"videos", videos.NewListCommandFactory(app.Open)},
		{"props", videos.NewPropsCommandFactory(app.Open)},
		{"render", videos.NewRenderCommandFactory(app.Open)},
		{"config", configcmd.NewConfigCommandFactory()},
	}
	for _, f := range factories {
		if err := registerCommand.Register(f.name, f.factory); err != nil {
			return nil, nil, fmt.Errorf("error registering command %q: %w", f.name, err)
		}
	}

	return &cli.Command{
		Name:        "motioner",
		Usage:       translations.GetMessage("app_description", 0, nil),
		Version:     version.FullVersion(),
		Description: translations.GetMessage("app_description", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: translations.GetMessage("flag_config", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: translations.GetMessage("flag_debug", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: translations.GetMessage("flag_verbose", 0, nil),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if path := cmd.String("config"); path != "" {
				loaded, err := cfg.LoadConfig(path)
				if err != nil {
					return ctx, err
				}
				loaded.ApplyEnv(os.Getenv)
				*cfgApp = *loaded
			}
			logger.Initialize(cmd.Bool("debug"), cmd.Bool("verbose"), logger.FormatPretty)
			return ctx, nil
		},
		Commands:              registerCommand.CreateCommands(),
		EnableShellCompletion: true,
	}, translations, nil
}
