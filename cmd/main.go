package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/trends/internal/services"
	"github.com/desertthunder/trends/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("TRENDS_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		loadedConfig, err := shared.LoadConfig(configPath)
		if err != nil {
			logger.Fatalf("failed to load %s: %v", configPath, err)
		}
		config = loadedConfig
	} else if err := shared.ApplyEnv(config); err != nil {
		logger.Fatalf("%v", err)
	}
	shared.ConfigureLogger(logger, config.Logging)

	opts := RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	}

	if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
		opts.Spotify = svc
	} else {
		logger.Debug("spotify oauth disabled", "reason", err)
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "trends",
		Usage:    "Spotify listening analytics",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
