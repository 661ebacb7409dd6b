package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/trends/internal/server"
	"github.com/desertthunder/trends/internal/services"
	"github.com/desertthunder/trends/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// Serve runs the analytics service until interrupted.
//
// Flags override the [server] section of the config.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port != 0 {
		cfg.Port = int(port)
	}

	limiter := rate.NewLimiter(rate.Limit(r.config.Spotify.RequestsPerSecond), r.config.Spotify.Burst)
	spotify := services.NewSpotifyAPI(r.config.Spotify.APIURL, r.httpClient, limiter)

	srv := server.New(server.Opts{
		Address: cfg.Address(),
		Engine:  r.engine(""),
		Spotify: spotify,
		Logger:  r.logger,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("starting trends service", "address", cfg.Address(), "upstream", r.config.Upstream.TopItemsURL)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	return nil
}
