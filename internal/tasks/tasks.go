// package tasks implements the analytics aggregation pipeline.
//
// The core abstraction is Engine, which fetches a listener's top items and derives chart-ready views from them.
// Operations emit progress updates via channels for non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trends/internal/models"
	"github.com/desertthunder/trends/internal/services"
	"github.com/desertthunder/trends/internal/shared"
	"golang.org/x/sync/errgroup"
)

// viewCount is the number of projections in a [models.AnalyticsResult].
const viewCount = 5

// Engine defines the analytics operations available to the HTTP and CLI layers.
type Engine interface {
	// Generate fetches top tracks and artists for timeRange and builds the five analytics views.
	Generate(ctx context.Context, timeRange, credential string) (*models.AnalyticsResult, error)

	// DNA fetches top tracks and artists for timeRange and summarizes them.
	DNA(ctx context.Context, timeRange, credential string) (*models.MusicDNA, error)
}

// AnalyticsEngine implements [Engine] on top of a [services.TopItemsFetcher].
type AnalyticsEngine struct {
	fetcher services.TopItemsFetcher
	logger  *log.Logger
}

// NewAnalyticsEngine creates a new AnalyticsEngine with the provided fetcher.
func NewAnalyticsEngine(fetcher services.TopItemsFetcher, logger *log.Logger) *AnalyticsEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AnalyticsEngine{
		fetcher: fetcher,
		logger:  shared.WithLogger(logger, "component", "analytics"),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *AnalyticsEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Generate builds the analytics payload for timeRange.
//
// Upstream failures surface as empty views, never as errors. The only error is a context
// that was canceled while the fetches were in flight.
func (e *AnalyticsEngine) Generate(ctx context.Context, timeRange, credential string) (*models.AnalyticsResult, error) {
	return e.GenerateWithProgress(ctx, timeRange, credential, nil)
}

// GenerateWithProgress is [AnalyticsEngine.Generate] with progress reporting.
func (e *AnalyticsEngine) GenerateWithProgress(
	ctx context.Context,
	timeRange, credential string,
	progress chan<- ProgressUpdate,
) (*models.AnalyticsResult, error) {
	start := time.Now()
	e.logger.Info("generating analytics", "time_range", timeRange)

	tracks, artists, err := e.fetch(ctx, timeRange, credential, progress)
	if err != nil {
		return nil, err
	}

	result := &models.AnalyticsResult{}
	var done atomic.Int32
	built := func(view string) {
		e.sendProgress(progress, aggregateUpdate(int(done.Add(1)), viewCount, view))
	}

	var g errgroup.Group
	g.Go(func() error {
		result.AlbumMosaicData = AlbumMosaic(tracks)
		built("album mosaic")
		return nil
	})
	g.Go(func() error {
		result.TopArtistData = TopArtist(tracks)
		built("top artist")
		return nil
	})
	g.Go(func() error {
		result.ArtistLeaderboardData = ArtistLeaderboard(artists)
		built("artist leaderboard")
		return nil
	})
	g.Go(func() error {
		result.TrackTimelineData = TrackTimeline(tracks)
		built("track timeline")
		return nil
	})
	g.Go(func() error {
		result.GenreBubbleData = GenreBubble(artists)
		built("genre bubble")
		return nil
	})
	_ = g.Wait()

	e.logger.Info("analytics generated",
		"time_range", timeRange,
		"tracks", len(tracks),
		"artists", len(artists),
		"albums", len(result.AlbumMosaicData),
		"genres", len(result.GenreBubbleData),
		"duration", time.Since(start),
	)
	return result, nil
}

// DNA builds the [models.MusicDNA] summary for timeRange.
func (e *AnalyticsEngine) DNA(ctx context.Context, timeRange, credential string) (*models.MusicDNA, error) {
	tracks, artists, err := e.fetch(ctx, timeRange, credential, nil)
	if err != nil {
		return nil, err
	}

	dna := MusicDNA(tracks, artists)
	return &dna, nil
}

// fetch issues the top tracks and top artists requests concurrently and waits for both.
func (e *AnalyticsEngine) fetch(
	ctx context.Context,
	timeRange, credential string,
	progress chan<- ProgressUpdate,
) ([]models.Track, []models.Artist, error) {
	var (
		tracks  []models.Track
		artists []models.Artist
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tracks = e.fetcher.TopTracks(gctx, timeRange, credential)
		e.sendProgress(progress, fetchTracksUpdate(timeRange, len(tracks)))
		return nil
	})
	g.Go(func() error {
		artists = e.fetcher.TopArtists(gctx, timeRange, credential)
		e.sendProgress(progress, fetchArtistsUpdate(timeRange, len(artists)))
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		e.logger.Warn("analytics canceled", "time_range", timeRange, "error", err)
		return nil, nil, err
	}

	if tracks == nil {
		tracks = []models.Track{}
	}
	if artists == nil {
		artists = []models.Artist{}
	}
	return tracks, artists, nil
}
