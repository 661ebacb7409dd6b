package server

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trends/internal/services"
	"github.com/desertthunder/trends/internal/shared"
)

// TopItemsHandler exposes the user's Spotify top tracks and artists, the upstream consumed by
// [services.TopItemsService].
//
// The Authorization header is forwarded to Spotify unchanged and non-2xx answers are mirrored.
type TopItemsHandler struct {
	spotify *services.SpotifyAPI
	logger  *log.Logger
}

// NewTopItemsHandler creates a pass-through handler backed by spotify.
func NewTopItemsHandler(spotify *services.SpotifyAPI, logger *log.Logger) *TopItemsHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &TopItemsHandler{spotify: spotify, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *TopItemsHandler) Routes() []string {
	return []string{
		"GET /api/toptracks/top-tracks/{timeRange}",
		"GET /api/topartists/top-artists/{timeRange}",
	}
}

func (h *TopItemsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kind, label := services.TopTracks, "tracks"
	if strings.HasPrefix(r.URL.Path, "/api/topartists/") {
		kind, label = services.TopArtists, "artists"
	}

	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		writeError(w, http.StatusUnauthorized, "Bearer token is required.", nil)
		return
	}

	timeRange := r.PathValue("timeRange")
	resp, err := h.spotify.TopItems(r.Context(), kind, timeRange, authorization)
	if err != nil {
		h.logger.Error("failed to fetch top "+label, "time_range", timeRange, "error", err)
		writeError(w, http.StatusInternalServerError, "Error fetching top "+label, err)
		return
	}

	if !resp.OK() {
		h.logger.Warn("spotify rejected top "+label+" request", "time_range", timeRange, "status", resp.StatusCode)
	}

	contentType := resp.Headers.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	w.Write(resp.Body)
}
