package main

import (
	"context"
	"os"
	"time"

	"fitclub/planner/internal/config"
	"fitclub/planner/internal/logging"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const settingsKey = "settings"

// settings are the resolved gateway options shared by every command.
type settings struct {
	BaseURL   string
	TokenFile string
	Timeout   time.Duration
}

func settingsFrom(c *cli.Context) *settings {
	return c.App.Metadata[settingsKey].(*settings)
}

func before(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if c.Bool("verbose") {
		level = zerolog.DebugLevel.String()
	}
	logging.SetupWriter(c.App.ErrWriter, level, true)

	s := &settings{
		BaseURL:   cfg.Gateway.BaseURL,
		TokenFile: cfg.Gateway.TokenFile,
		Timeout:   cfg.Gateway.Timeout,
	}
	if c.IsSet("base-url") {
		s.BaseURL = c.String("base-url")
	}
	if c.IsSet("token-file") {
		s.TokenFile = c.String("token-file")
	}
	if c.IsSet("timeout") {
		s.Timeout = c.Duration("timeout")
	}
	if s.TokenFile, err = expandHome(s.TokenFile); err != nil {
		return err
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[settingsKey] = s
	log.Debug().Str("baseURL", s.BaseURL).Str("tokenFile", s.TokenFile).Msg("settings")
	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "planner",
		HelpName: "planner",
		Usage:    "Edit clients' weekly workout and nutrition plans",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: ".",
				Usage: "directory holding config.yaml",
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "gateway base URL",
				EnvVars: []string{"PLANNER_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "token-file",
				Usage:   "file holding the bearer token",
				EnvVars: []string{"PLANNER_TOKEN_FILE"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per-request timeout",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "debug logging",
			},
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			log.Error().Err(err).Msg(c.App.Name)
		},
		Before: before,
		Commands: []*cli.Command{
			loginCommand(),
			clientsCommand(),
			catalogCommand(),
			showCommand(),
			workoutCommand(),
			nutritionCommand(),
		},
	}
}

func main() {
	if err := newApp().RunContext(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
	os.Exit(0)
}
