package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trends/internal/models"
	"github.com/desertthunder/trends/internal/services"
	"github.com/desertthunder/trends/internal/shared"
	tu "github.com/desertthunder/trends/internal/testing"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func assertEmptyViews(t *testing.T, result *models.AnalyticsResult) {
	t.Helper()

	if len(result.AlbumMosaicData) != 0 || result.AlbumMosaicData == nil {
		t.Errorf("expected empty album mosaic, got %v", result.AlbumMosaicData)
	}
	if result.TopArtistData.ArtistName != models.NoArtistFound || result.TopArtistData.Count != 0 {
		t.Errorf("expected sentinel top artist, got %+v", result.TopArtistData)
	}
	if len(result.ArtistLeaderboardData) != 0 || result.ArtistLeaderboardData == nil {
		t.Errorf("expected empty leaderboard, got %v", result.ArtistLeaderboardData)
	}
	if len(result.TrackTimelineData) != 0 || result.TrackTimelineData == nil {
		t.Errorf("expected empty timeline, got %v", result.TrackTimelineData)
	}
	if len(result.GenreBubbleData) != 0 || result.GenreBubbleData == nil {
		t.Errorf("expected empty genre bubble, got %v", result.GenreBubbleData)
	}
}

func TestAnalyticsEngine(t *testing.T) {
	t.Run("Generate", func(t *testing.T) {
		t.Run("Builds All Views", func(t *testing.T) {
			fetcher := &tu.MockFetcher{
				Tracks: []models.Track{
					withRelease(tu.Track("t1", "A", "X"), "2010-02-03"),
					withRelease(tu.Track("t2", "A", "X", "Y"), "0000"),
					withRelease(tu.Track("t3", "B", "Z"), "1988"),
				},
				Artists: []models.Artist{
					tu.Artist("Q", "pop", "rock"),
					tu.Artist("R", "pop"),
				},
			}

			engine := NewAnalyticsEngine(fetcher, quietLogger())
			result, err := engine.Generate(context.Background(), models.MediumTerm, "token")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(result.AlbumMosaicData) != 2 || result.AlbumMosaicData[0].Count != 2 {
				t.Errorf("unexpected album mosaic: %+v", result.AlbumMosaicData)
			}
			if result.TopArtistData.ArtistName != "X" || result.TopArtistData.Count != 2 {
				t.Errorf("unexpected top artist: %+v", result.TopArtistData)
			}
			if len(result.ArtistLeaderboardData) != 2 || result.ArtistLeaderboardData[1].Rank != 98 {
				t.Errorf("unexpected leaderboard: %+v", result.ArtistLeaderboardData)
			}
			if len(result.TrackTimelineData) != 2 || result.TrackTimelineData[0].TrackName != "t3" {
				t.Errorf("unexpected timeline: %+v", result.TrackTimelineData)
			}
			if len(result.GenreBubbleData) != 2 || result.GenreBubbleData[0].Genre != "pop" {
				t.Errorf("unexpected genres: %+v", result.GenreBubbleData)
			}
		})

		t.Run("Passes Time Range And Credential To Both Fetches", func(t *testing.T) {
			fetcher := &tu.MockFetcher{}
			engine := NewAnalyticsEngine(fetcher, quietLogger())

			if _, err := engine.Generate(context.Background(), "forever", "Bearer abc"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			calls := fetcher.Calls()
			if len(calls) != 2 {
				t.Fatalf("expected 2 fetches, got %d", len(calls))
			}

			kinds := map[string]bool{}
			for _, c := range calls {
				kinds[c.Kind] = true
				if c.TimeRange != "forever" || c.Credential != "Bearer abc" {
					t.Errorf("unexpected call: %+v", c)
				}
			}
			if !kinds["tracks"] || !kinds["artists"] {
				t.Errorf("expected one tracks and one artists fetch, got %+v", calls)
			}
		})

		t.Run("Empty Upstream Yields Empty Views", func(t *testing.T) {
			engine := NewAnalyticsEngine(&tu.MockFetcher{}, quietLogger())

			result, err := engine.Generate(context.Background(), models.ShortTerm, "token")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			assertEmptyViews(t, result)
		})

		t.Run("Upstream 500 Yields Empty Views", func(t *testing.T) {
			var hits atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				if !strings.HasSuffix(r.URL.Path, "/medium_term") {
					t.Errorf("expected medium_term in path, got %s", r.URL.Path)
				}
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"message": "boom"}`))
			}))
			defer server.Close()

			fetcher := services.NewTopItemsService(server.URL, nil, quietLogger())
			engine := NewAnalyticsEngine(fetcher, quietLogger())

			result, err := engine.Generate(context.Background(), models.MediumTerm, "token")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			assertEmptyViews(t, result)

			if hits.Load() != 2 {
				t.Errorf("expected 2 upstream requests, got %d", hits.Load())
			}
		})

		t.Run("Serializes Empty Views As Arrays", func(t *testing.T) {
			engine := NewAnalyticsEngine(&tu.MockFetcher{}, quietLogger())
			result, _ := engine.Generate(context.Background(), models.LongTerm, "token")

			data, err := json.Marshal(result)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}

			body := string(data)
			if strings.Contains(body, "null") {
				t.Errorf("expected no null values, got %s", body)
			}
			if !strings.Contains(body, `"topArtistData":{"artistName":"No Artist Found","spotifyLink":"","count":0,"tracks":[]}`) {
				t.Errorf("unexpected top artist encoding: %s", body)
			}
		})

		t.Run("Canceled Context", func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			engine := NewAnalyticsEngine(&tu.MockFetcher{}, quietLogger())
			if _, err := engine.Generate(ctx, models.ShortTerm, "token"); !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		})

		t.Run("Reports Progress", func(t *testing.T) {
			engine := NewAnalyticsEngine(&tu.MockFetcher{Tracks: []models.Track{tu.Track("t1", "A", "X")}}, quietLogger())
			progress := make(chan ProgressUpdate, 16)

			if _, err := engine.GenerateWithProgress(context.Background(), models.ShortTerm, "token", progress); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			close(progress)

			phases := map[Phase]int{}
			for update := range progress {
				phases[update.Phase]++
			}
			if phases[FetchTracks] != 1 || phases[FetchArtists] != 1 || phases[Aggregate] != viewCount {
				t.Errorf("unexpected progress phases: %v", phases)
			}
		})

		t.Run("Full Progress Channel Does Not Block", func(t *testing.T) {
			engine := NewAnalyticsEngine(&tu.MockFetcher{}, quietLogger())
			progress := make(chan ProgressUpdate)

			if _, err := engine.GenerateWithProgress(context.Background(), models.ShortTerm, "token", progress); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("DNA", func(t *testing.T) {
		fetcher := &tu.MockFetcher{
			Tracks:  []models.Track{{Popularity: 10}, {Popularity: 20}},
			Artists: []models.Artist{tu.Artist("Q", "pop")},
		}

		dna, err := NewAnalyticsEngine(fetcher, quietLogger()).DNA(context.Background(), models.ShortTerm, "token")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if dna.AveragePopularity != 15 || dna.TotalTracks != 2 || dna.TotalArtists != 1 || dna.TopGenres[0] != "pop" {
			t.Errorf("unexpected dna: %+v", dna)
		}
	})

	t.Run("Implements Engine", func(t *testing.T) {
		var _ Engine = NewAnalyticsEngine(&tu.MockFetcher{}, nil)
	})
}

func TestSnapshot(t *testing.T) {
	t.Run("Exports Every Time Range", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "snap")
		engine := NewAnalyticsEngine(&tu.MockFetcher{Artists: []models.Artist{tu.Artist("Q", "pop")}}, quietLogger())

		result, err := engine.Snapshot(context.Background(), "token", SnapshotOpts{Format: "json", OutputDir: dir}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Successful != 3 || result.Failed != 0 {
			t.Errorf("expected 3 successful exports, got %d/%d", result.Successful, result.Failed)
		}

		for i, tr := range []string{models.ShortTerm, models.MediumTerm, models.LongTerm} {
			if result.Files[i].TimeRange != tr {
				t.Errorf("file %d: expected %s, got %s", i, tr, result.Files[i].TimeRange)
			}
			tu.AssertFileExists(t, filepath.Join(dir, tr+".json"))
		}

		tu.AssertFileExists(t, result.ManifestPath)

		var manifest SnapshotResult
		if err := json.Unmarshal([]byte(tu.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
			t.Fatalf("manifest is not JSON: %v", err)
		}
		if manifest.Successful != 3 || len(manifest.Files) != 3 || manifest.Format != "json" {
			t.Errorf("unexpected manifest: %+v", manifest)
		}
	})

	t.Run("Selected Ranges And Format", func(t *testing.T) {
		dir := t.TempDir()
		engine := NewAnalyticsEngine(&tu.MockFetcher{}, quietLogger())

		opts := SnapshotOpts{Format: "md", OutputDir: dir, TimeRanges: []string{models.LongTerm}, NumWorkers: 8}
		result, err := engine.Snapshot(context.Background(), "token", opts, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(result.Files) != 1 || result.Files[0].Path != filepath.Join(dir, "long_term.md") {
			t.Errorf("unexpected files: %+v", result.Files)
		}
		if _, err := os.Stat(filepath.Join(dir, "short_term.md")); !os.IsNotExist(err) {
			t.Error("expected only the selected range to be exported")
		}
	})

	t.Run("Repeated Ranges Export Once", func(t *testing.T) {
		dir := t.TempDir()
		fetcher := &tu.MockFetcher{}
		engine := NewAnalyticsEngine(fetcher, quietLogger())

		opts := SnapshotOpts{OutputDir: dir, TimeRanges: []string{models.ShortTerm, models.LongTerm, models.ShortTerm}}
		result, err := engine.Snapshot(context.Background(), "token", opts, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(result.Files) != 2 || result.Files[0].TimeRange != models.ShortTerm || result.Files[1].TimeRange != models.LongTerm {
			t.Errorf("expected [short_term long_term], got %+v", result.Files)
		}
		if result.Successful != 2 {
			t.Errorf("expected 2 successful exports, got %d", result.Successful)
		}
	})

	t.Run("Rejects Ranges That Escape Output Dir", func(t *testing.T) {
		base := t.TempDir()
		dir := filepath.Join(base, "snap")
		engine := NewAnalyticsEngine(&tu.MockFetcher{}, quietLogger())

		for _, tr := range []string{"../x", "a/b", `a\b`, "..", ""} {
			opts := SnapshotOpts{OutputDir: dir, TimeRanges: []string{models.ShortTerm, tr}}
			_, err := engine.Snapshot(context.Background(), "token", opts, nil)
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("%q: expected ErrInvalidArgument, got %v", tr, err)
			}
		}

		if _, err := os.Stat(filepath.Join(base, "x.json")); !os.IsNotExist(err) {
			t.Error("expected nothing written outside the output directory")
		}
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Error("expected output directory not to be created for rejected ranges")
		}
	})

	t.Run("Unsupported Format", func(t *testing.T) {
		engine := NewAnalyticsEngine(&tu.MockFetcher{}, quietLogger())
		if _, err := engine.Snapshot(context.Background(), "token", SnapshotOpts{Format: "xml", OutputDir: t.TempDir()}, nil); err == nil {
			t.Error("expected error for unsupported format")
		}
	})

	t.Run("Canceled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		engine := NewAnalyticsEngine(&tu.MockFetcher{}, quietLogger())
		result, err := engine.Snapshot(ctx, "token", SnapshotOpts{OutputDir: t.TempDir()}, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if result == nil || result.ManifestPath != "" {
			t.Errorf("expected partial result without manifest, got %+v", result)
		}
	})
}
