// TopItems service client implementation of [TopItemsFetcher]
package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trends/internal/models"
	"github.com/desertthunder/trends/internal/shared"
)

// rawBodyLogLimit caps how much of an upstream body is written to debug logs.
const rawBodyLogLimit = 500

// TopItemsService fetches top tracks and artists from a TopItems service.
//
// Every failure is logged and converted to an empty result so analytics degrade instead of erroring.
type TopItemsService struct {
	api    *APIService
	logger *log.Logger
}

// NewTopItemsService creates a client for the TopItems service at baseURL.
func NewTopItemsService(baseURL string, client *http.Client, logger *log.Logger) *TopItemsService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &TopItemsService{
		api:    NewAPIService(baseURL, client),
		logger: shared.WithLogger(logger, "component", "topitems"),
	}
}

// TopItemsPath returns the TopItems service path for kind and timeRange.
func TopItemsPath(kind TopItemKind, timeRange string) string {
	switch kind {
	case TopArtists:
		return "/api/topartists/top-artists/" + url.PathEscape(timeRange)
	default:
		return "/api/toptracks/top-tracks/" + url.PathEscape(timeRange)
	}
}

// TopTracks retrieves the user's top tracks for timeRange.
func (s *TopItemsService) TopTracks(ctx context.Context, timeRange, credential string) []models.Track {
	body, ok := s.fetch(ctx, TopTracks, timeRange, credential)
	if !ok {
		return []models.Track{}
	}

	tracks, err := ParseTracks(body)
	if err != nil {
		s.logger.Error("failed to parse top tracks", "time_range", timeRange, "error", err)
		return []models.Track{}
	}
	return tracks
}

// TopArtists retrieves the user's top artists for timeRange.
func (s *TopItemsService) TopArtists(ctx context.Context, timeRange, credential string) []models.Artist {
	body, ok := s.fetch(ctx, TopArtists, timeRange, credential)
	if !ok {
		return []models.Artist{}
	}

	artists, err := ParseArtists(body)
	if err != nil {
		s.logger.Error("failed to parse top artists", "time_range", timeRange, "error", err)
		return []models.Artist{}
	}
	return artists
}

func (s *TopItemsService) fetch(ctx context.Context, kind TopItemKind, timeRange, credential string) ([]byte, bool) {
	header := http.Header{}
	header.Set("Authorization", BearerHeader(credential))
	header.Set("Accept", "application/json")

	resp, err := s.api.Get(ctx, TopItemsPath(kind, timeRange), header)
	if err != nil {
		s.logger.Error("failed to get top items", "kind", kind, "time_range", timeRange, "error", err)
		return nil, false
	}

	if !resp.OK() {
		s.logger.Warn("failed to get top items", "kind", kind, "time_range", timeRange, "status", resp.StatusCode)
		return nil, false
	}

	s.logger.Debug("raw response from top items service", "kind", kind, "content", shared.Truncate(string(resp.Body), rawBodyLogLimit))
	return resp.Body, true
}
