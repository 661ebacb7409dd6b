// Spotify Web API client
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/desertthunder/trends/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// Scopes requested during authorization.
var spotifyScopes = []string{
	"user-read-private",
	"user-read-email",
	"user-top-read",
	"user-read-recently-played",
}

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Country     string    `json:"country"`
	Product     string    `json:"product"` // premium, free, etc.
	Followers   followers `json:"followers"`
}

// SpotifyService implements [OAuthService] for Spotify accounts.
type SpotifyService struct {
	config         *oauth2.Config
	mu             sync.Mutex
	onTokenRefresh func(*oauth2.Token)
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       spotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{config: config}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// OAuthConfig returns the underlying [oauth2.Config].
func (s *SpotifyService) OAuthConfig() *oauth2.Config {
	return s.config
}

// SetTokenRefreshCallback registers fn to receive tokens issued by [SpotifyService.TokenSource].
//
// The CLI uses it to write refreshed tokens back to the config file.
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTokenRefresh = fn
}

// TokenSource returns a source that refreshes token with the refresh token when it expires.
func (s *SpotifyService) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	s.mu.Lock()
	callback := s.onTokenRefresh
	s.mu.Unlock()

	return &refreshableTokenSource{
		source:   s.config.TokenSource(ctx, token),
		callback: callback,
	}
}

// refreshableTokenSource reports each new access token to callback.
type refreshableTokenSource struct {
	source   oauth2.TokenSource
	callback func(*oauth2.Token)

	mu   sync.Mutex
	last string
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.source.Token()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	changed := token.AccessToken != r.last
	r.last = token.AccessToken
	r.mu.Unlock()

	if changed && r.callback != nil {
		r.callback(token)
	}
	return token, nil
}

// SpotifyAPI forwards user-authorized requests to the Spotify Web API.
//
// Requests are paced by a shared [rate.Limiter] so a burst of analytics calls cannot exhaust the app's quota.
type SpotifyAPI struct {
	api     *APIService
	limiter *rate.Limiter
}

// NewSpotifyAPI creates a Spotify Web API client. A nil limiter disables pacing.
func NewSpotifyAPI(baseURL string, client *http.Client, limiter *rate.Limiter) *SpotifyAPI {
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	return &SpotifyAPI{
		api:     NewAPIService(baseURL, client),
		limiter: limiter,
	}
}

// TopItems requests /me/top/{kind} for timeRange, forwarding authorization unchanged.
//
// The raw response is returned so callers can mirror upstream status codes.
func (s *SpotifyAPI) TopItems(ctx context.Context, kind TopItemKind, timeRange, authorization string) (*APIResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("/me/top/%s?time_range=%s&limit=%d", kind, url.QueryEscape(timeRange), TopItemsLimit)

	header := http.Header{}
	header.Set("Authorization", authorization)

	return s.api.Get(ctx, endpoint, header)
}

// UserProfile retrieves the profile of the user owning credential.
func (s *SpotifyAPI) UserProfile(ctx context.Context, credential string) (*SpotifyUser, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	header := http.Header{}
	header.Set("Authorization", BearerHeader(credential))

	resp, err := s.api.Get(ctx, "/me", header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return nil, fmt.Errorf("%w: spotify API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var user SpotifyUser
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &user, nil
}
