// package services defines clients for the HTTP APIs the analytics service talks to
//
// Spotify Web API, TopItems service
package services

import (
	"context"
	"strings"

	"github.com/desertthunder/trends/internal/models"
	"golang.org/x/oauth2"
)

// TopItemKind selects the Spotify top items collection.
type TopItemKind string

const (
	TopTracks  TopItemKind = "tracks"
	TopArtists TopItemKind = "artists"
)

// TopItemsLimit is the number of items requested per collection.
const TopItemsLimit = 50

// TopItemsFetcher retrieves a user's top tracks and artists for a time range.
//
// Implementations never fail: any upstream problem yields an empty slice.
type TopItemsFetcher interface {
	// TopTracks returns up to [TopItemsLimit] tracks in upstream order.
	TopTracks(ctx context.Context, timeRange, credential string) []models.Track

	// TopArtists returns up to [TopItemsLimit] artists in upstream order.
	TopArtists(ctx context.Context, timeRange, credential string) []models.Artist
}

// OAuthService is implemented by providers that authenticate users with the authorization code flow.
type OAuthService interface {
	GetAuthURL(state string) string                                          // URL the user visits to grant access
	OAuthConfig() *oauth2.Config                                             // Config used to exchange the callback code
	TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource // Refreshing source for a saved token
}

// BearerHeader builds an Authorization header value for credential.
//
// Every "Bearer " already in credential is removed first, so the scheme appears exactly once.
func BearerHeader(credential string) string {
	return "Bearer " + strings.ReplaceAll(credential, "Bearer ", "")
}
