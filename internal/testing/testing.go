// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/trends/internal/models"
)

// MockFetcher is a test double for services.TopItemsFetcher that records the credentials it was called with.
type MockFetcher struct {
	Tracks  []models.Track
	Artists []models.Artist

	mu    sync.Mutex
	calls []FetchCall
}

// FetchCall records one call made to [MockFetcher].
type FetchCall struct {
	Kind       string
	TimeRange  string
	Credential string
}

func (m *MockFetcher) TopTracks(ctx context.Context, timeRange, credential string) []models.Track {
	m.record("tracks", timeRange, credential)
	if m.Tracks == nil {
		return []models.Track{}
	}
	return m.Tracks
}

func (m *MockFetcher) TopArtists(ctx context.Context, timeRange, credential string) []models.Artist {
	m.record("artists", timeRange, credential)
	if m.Artists == nil {
		return []models.Artist{}
	}
	return m.Artists
}

func (m *MockFetcher) record(kind, timeRange, credential string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, FetchCall{Kind: kind, TimeRange: timeRange, Credential: credential})
}

// Calls returns a copy of the recorded calls.
func (m *MockFetcher) Calls() []FetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FetchCall(nil), m.calls...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// Track builds a track on albumName credited to artistNames.
func Track(name, albumName string, artistNames ...string) models.Track {
	artists := make([]models.Artist, 0, len(artistNames))
	for _, n := range artistNames {
		artists = append(artists, models.Artist{Name: n, URI: "spotify:artist:" + n})
	}

	return models.Track{
		Name:    name,
		URI:     "spotify:track:" + name,
		Album:   models.Album{Name: albumName, URI: "spotify:album:" + albumName},
		Artists: artists,
	}
}

// Artist builds a top artist with the given genres.
func Artist(name string, genres ...string) models.Artist {
	if genres == nil {
		genres = []string{}
	}
	return models.Artist{Name: name, URI: "spotify:artist:" + name, Genres: genres}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
