package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Upstream    UpstreamConfig    `toml:"upstream"`
	Spotify     SpotifyAPIConfig  `toml:"spotify"`
	Logging     LoggingConfig     `toml:"logging"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify OAuth client credentials and the most recently issued token.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id" env:"SPOTIFY_CLIENT_ID"`
	ClientSecret string `toml:"client_secret" env:"SPOTIFY_CLIENT_SECRET"`
	RedirectURI  string `toml:"redirect_uri" env:"SPOTIFY_REDIRECT_URI"`
	AccessToken  string `toml:"access_token" env:"SPOTIFY_ACCESS_TOKEN"`
	RefreshToken string `toml:"refresh_token" env:"SPOTIFY_REFRESH_TOKEN"`
	TokenType    string `toml:"token_type"`
	Expiry       string `toml:"expiry"` // RFC 3339
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host" env:"TRENDS_SERVER_HOST"`
	Port int    `toml:"port" env:"TRENDS_SERVER_PORT" validate:"min=1,max=65535"`
}

// UpstreamConfig points the analytics engine at a TopItems service.
type UpstreamConfig struct {
	TopItemsURL    string `toml:"top_items_url" env:"TRENDS_UPSTREAM_URL" validate:"required,url"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"TRENDS_UPSTREAM_TIMEOUT" validate:"min=0"`
}

// SpotifyAPIConfig configures outbound Spotify Web API calls made by the TopItems pass-through.
type SpotifyAPIConfig struct {
	APIURL            string  `toml:"api_url" env:"TRENDS_SPOTIFY_API_URL" validate:"required,url"`
	RequestsPerSecond float64 `toml:"requests_per_second" env:"TRENDS_SPOTIFY_RPS" validate:"gt=0"`
	Burst             int     `toml:"burst" env:"TRENDS_SPOTIFY_BURST" validate:"min=1"`
}

// LoggingConfig selects the logger level and output format.
type LoggingConfig struct {
	Level  string `toml:"level" env:"TRENDS_LOG_LEVEL" validate:"omitempty,oneof=debug info warn error"`
	Format string `toml:"format" env:"TRENDS_LOG_FORMAT" validate:"omitempty,oneof=text json logfmt"`
}

// Map returns the credentials in the map form accepted by services.NewSpotifyService.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
	}
}

// Token rebuilds the stored [oauth2.Token]. Returns [ErrNotAuthenticated] when no token has been saved.
func (s SpotifyConfig) Token() (*oauth2.Token, error) {
	if s.AccessToken == "" && s.RefreshToken == "" {
		return nil, ErrNotAuthenticated
	}

	token := &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
	}

	if s.Expiry != "" {
		expiry, err := time.Parse(time.RFC3339, s.Expiry)
		if err != nil {
			return nil, fmt.Errorf("%w: expiry %q: %v", ErrInvalidConfig, s.Expiry, err)
		}
		token.Expiry = expiry
	}

	return token, nil
}

// Update stores the token fields, keeping the existing refresh token when the new token omits one.
func (s *SpotifyConfig) Update(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidInput)
	}

	s.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		s.RefreshToken = token.RefreshToken
	}
	s.TokenType = token.TokenType
	s.Expiry = ""
	if !token.Expiry.IsZero() {
		s.Expiry = token.Expiry.UTC().Format(time.RFC3339)
	}

	return nil
}

// Address returns the host:port the server listens on.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Timeout returns the upstream client timeout; zero disables it.
func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults, environment variables override both,
// and the result is validated.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyEnv overrides config fields from their `env` tagged environment variables.
func ApplyEnv(config *Config) error {
	if err := cleanenv.ReadEnv(config); err != nil {
		return fmt.Errorf("%w: environment: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks struct constraints on the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// SaveConfig writes config to path as TOML, replacing any existing file.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
