package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trends/internal/services"
	"github.com/desertthunder/trends/internal/shared"
	"github.com/desertthunder/trends/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// refreshNotifier is implemented by OAuth services that report refreshed tokens.
type refreshNotifier interface {
	SetTokenRefreshCallback(fn func(*oauth2.Token))
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	spotify    services.OAuthService
	fetcher    services.TopItemsFetcher
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string // Where refreshed tokens are saved; empty keeps them in memory
	Spotify    services.OAuthService
	Fetcher    services.TopItemsFetcher // Overrides the TopItems client built from config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.Upstream.Timeout()}
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		spotify:    opts.Spotify,
		fetcher:    opts.Fetcher,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}

	if n, ok := opts.Spotify.(refreshNotifier); ok {
		n.SetTokenRefreshCallback(func(token *oauth2.Token) {
			if err := r.saveTokens(token); err != nil {
				r.logger.Warn("failed to persist refreshed token", "error", err)
			} else {
				r.logger.Debug("refreshed token saved", "path", r.configPath)
			}
		})
	}

	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, analyticsCommand, dnaCommand, snapshotCommand, topCommand, authCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// engine builds an analytics engine reading from upstream, or the configured TopItems URL when empty.
func (r *Runner) engine(upstream string) *tasks.AnalyticsEngine {
	return tasks.NewAnalyticsEngine(r.topItems(upstream), r.logger)
}

func (r *Runner) topItems(upstream string) services.TopItemsFetcher {
	if r.fetcher != nil {
		return r.fetcher
	}
	if upstream == "" {
		upstream = r.config.Upstream.TopItemsURL
	}
	return services.NewTopItemsService(upstream, r.httpClient, r.logger)
}

// credential resolves the Spotify access token for a command.
//
// The --token flag wins. Otherwise the token saved by `trends auth` is used, refreshed when expired.
func (r *Runner) credential(ctx context.Context, cmd *cli.Command) (string, error) {
	if token := cmd.String("token"); token != "" {
		return token, nil
	}

	saved, err := r.config.Credentials.Spotify.Token()
	if err != nil {
		return "", fmt.Errorf("%w: pass --token or run `trends auth login`", err)
	}

	if r.spotify == nil {
		if saved.AccessToken == "" {
			return "", fmt.Errorf("%w: Spotify client_id and client_secret are required to refresh the saved token", shared.ErrMissingCredentials)
		}
		return saved.AccessToken, nil
	}

	if saved.RefreshToken == "" && !saved.Valid() {
		return "", fmt.Errorf("%w: saved token has expired, run `trends auth login`", shared.ErrNoRefreshToken)
	}

	token, err := r.spotify.TokenSource(ctx, saved).Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return token.AccessToken, nil
}

// saveTokens stores token in the config and writes it to the config path, if one is set.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return fmt.Errorf("%w: config is nil", shared.ErrMissingConfig)
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if r.configPath == "" {
		return nil
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
