package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/trends/internal/shared"
	"github.com/urfave/cli/v3"
)

const redacted = "<redacted>"

// ConfigInit writes the example configuration to the --config path.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" {
		return fmt.Errorf("%w: --config", shared.ErrMissingArgument)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	r.logger.Info("config created", "path", path)
	r.writePlain("✓ Wrote %s\n", path)
	r.writePlain("Set [credentials.spotify] client_id and client_secret, then run: trends auth login\n")
	return nil
}

// ConfigShow prints the effective configuration as JSON with secrets redacted.
func (r *Runner) ConfigShow(ctx context.Context, cmd *cli.Command) error {
	cfg := *r.config
	spotify := &cfg.Credentials.Spotify
	for _, secret := range []*string{&spotify.ClientSecret, &spotify.AccessToken, &spotify.RefreshToken} {
		if *secret != "" {
			*secret = redacted
		}
	}
	return r.writeJSON(cfg, true)
}
