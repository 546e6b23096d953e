package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/thomas-vilte/motioner/internal/config"
	domainErrors "github.com/thomas-vilte/motioner/internal/errors"
	"github.com/thomas-vilte/motioner/internal/i18n"
	"github.com/thomas-vilte/motioner/internal/ui"
	"github.com/urfave/cli/v3"
)

type ConfigCommandFactory struct {
	out io.Writer
}

func NewConfigCommandFactory() *ConfigCommandFactory {
	return &ConfigCommandFactory{out: os.Stdout}
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   t.GetMessage("config_command_description", 0, nil),
		Commands: []*cli.Command{
			c.newInitCommand(t, cfg),
			c.newShowCommand(t, cfg),
		},
	}
}

func (c *ConfigCommandFactory) newInitCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: t.GetMessage("config_init_description", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: t.GetMessage("flag_config", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("flag_force", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.String("path")
			if path == "" {
				path = cfg.PathFile
			}
			if path == "" {
				return domainErrors.ErrConfigMissing.WithContext("reason", "no config path")
			}

			if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
				return domainErrors.ErrInvalidConfig.
					WithContext("path", path).
					WithSuggestion(t.GetMessage("config_exists", 0, nil))
			}

			fresh := config.DefaultConfig(path)
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return domainErrors.ErrInvalidConfig.WithError(err)
			}
			if err := config.SaveConfig(fresh); err != nil {
				return domainErrors.ErrInvalidConfig.WithError(err)
			}

			ui.PrintSuccess(c.out, t.GetMessage("config_created", 0, map[string]interface{}{"Path": path}))
			return nil
		},
	}
}

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config_show_description", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ui.PrintSectionBanner(c.out, t.GetMessage("current_config", 0, nil))

			set := func(v string) string {
				if v == "" {
					return t.GetMessage("config_value_unset", 0, nil)
				}
				return t.GetMessage("config_value_set", 0, nil)
			}

			ui.PrintKeyValue(c.out, "file", cfg.PathFile)
			ui.PrintKeyValue(c.out, "language", cfg.Language)
			ui.PrintKeyValue(c.out, "listen_addr", cfg.ListenAddr)
			ui.PrintKeyValue(c.out, "log_format", cfg.LogFormat)
			ui.PrintKeyValue(c.out, "database.driver", cfg.Database.Driver)
			ui.PrintKeyValue(c.out, "github.token", set(cfg.GitHub.Token))
			ui.PrintKeyValue(c.out, "github.webhook_secret", set(cfg.GitHub.WebhookSecret))
			ui.PrintKeyValue(c.out, "rate_limit.requests_per_minute", strconv.Itoa(cfg.RateLimit.RequestsPerMinute))

			names := make([]string, 0, len(cfg.AIProviders))
			for name := range cfg.AIProviders {
				names = append(names, name)
			}
			sort.Strings(names)
			if len(names) == 0 {
				ui.PrintWarning(c.out, t.GetMessage("no_ai_providers", 0, nil))
				return nil
			}
			for _, name := range names {
				p := cfg.AIProviders[name]
				model := p.Model
				if model == "" {
					model = "default"
				}
				ui.PrintKeyValue(c.out, "ai_providers."+name, fmt.Sprintf("%s (%s)", set(p.APIKey), model))
			}
			return nil
		},
	}
}
