package services

import (
	"errors"
	"testing"

	"github.com/desertthunder/trends/internal/shared"
)

const trackItem = `{
	"id": "t1",
	"name": "Song One",
	"uri": "spotify:track:t1",
	"href": "https://api.spotify.com/v1/tracks/t1",
	"popularity": 71,
	"duration_ms": 215000,
	"explicit": true,
	"album": {
		"id": "a1",
		"name": "Album One",
		"uri": "spotify:album:a1",
		"release_date": "2019-06-14",
		"album_type": "album",
		"total_tracks": 12,
		"artists": [{"id": "x", "name": "X"}, {"id": "y", "name": "Y"}],
		"images": [{"url": "https://i.scdn.co/a1", "height": 640, "width": 640}]
	},
	"artists": [{"id": "x", "name": "X", "uri": "spotify:artist:x"}]
}`

func TestParseTracks(t *testing.T) {
	t.Run("Paging Object", func(t *testing.T) {
		tracks, err := ParseTracks([]byte(`{"items": [` + trackItem + `], "total": 1}`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 1 {
			t.Fatalf("expected 1 track, got %d", len(tracks))
		}

		track := tracks[0]
		if track.ID != "t1" || track.Name != "Song One" || track.URI != "spotify:track:t1" {
			t.Errorf("unexpected identity fields: %+v", track)
		}
		if track.Popularity != 71 || track.DurationMS != 215000 || !track.Explicit {
			t.Errorf("unexpected scalar fields: %+v", track)
		}
		if track.Album.Name != "Album One" || track.Album.ReleaseDate != "2019-06-14" || track.Album.TotalTracks != 12 {
			t.Errorf("unexpected album: %+v", track.Album)
		}
		if len(track.Album.Artists) != 2 || track.Album.Artists[0] != "X" || track.Album.Artists[1] != "Y" {
			t.Errorf("expected album artists flattened to names, got %v", track.Album.Artists)
		}
		if len(track.Album.Images) != 1 || track.Album.Images[0].Height != 640 {
			t.Errorf("unexpected album images: %+v", track.Album.Images)
		}
		if len(track.Artists) != 1 || track.Artists[0].URI != "spotify:artist:x" {
			t.Errorf("unexpected artists: %+v", track.Artists)
		}
	})

	t.Run("Bare Array", func(t *testing.T) {
		tracks, err := ParseTracks([]byte(`[` + trackItem + `,` + trackItem + `]`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 2 {
			t.Errorf("expected 2 tracks, got %d", len(tracks))
		}
	})

	t.Run("Wrong Typed Fields Default", func(t *testing.T) {
		body := `{"items": [{
			"id": 42,
			"name": null,
			"popularity": "high",
			"duration_ms": 1000.9,
			"explicit": "yes",
			"album": "not an object",
			"artists": {"name": "X"}
		}]}`

		tracks, err := ParseTracks([]byte(body))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 1 {
			t.Fatalf("expected 1 track, got %d", len(tracks))
		}

		track := tracks[0]
		if track.ID != "" || track.Name != "" {
			t.Errorf("expected empty strings, got id=%q name=%q", track.ID, track.Name)
		}
		if track.Popularity != 0 {
			t.Errorf("expected popularity 0, got %d", track.Popularity)
		}
		if track.DurationMS != 1000 {
			t.Errorf("expected truncated duration 1000, got %d", track.DurationMS)
		}
		if track.Explicit {
			t.Error("expected explicit false for non-boolean value")
		}
		if track.Album.Name != "" || track.Album.Artists == nil {
			t.Errorf("expected zero album with empty artists, got %+v", track.Album)
		}
		if track.Artists == nil || len(track.Artists) != 0 {
			t.Errorf("expected empty non-nil artists, got %v", track.Artists)
		}
	})

	t.Run("Missing Album", func(t *testing.T) {
		tracks, err := ParseTracks([]byte(`[{"name": "Solo"}]`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if tracks[0].Album.Name != "" || tracks[0].Album.Artists == nil {
			t.Errorf("expected empty album, got %+v", tracks[0].Album)
		}
	})

	t.Run("Unrecognized Shapes Yield Empty", func(t *testing.T) {
		for _, body := range []string{`{"tracks": []}`, `{"items": {"a": 1}}`, `"items"`, `42`, `null`} {
			tracks, err := ParseTracks([]byte(body))
			if err != nil {
				t.Errorf("%s: expected no error, got %v", body, err)
			}
			if len(tracks) != 0 {
				t.Errorf("%s: expected no tracks, got %d", body, len(tracks))
			}
		}
	})

	t.Run("Skips Non-Object Elements", func(t *testing.T) {
		for _, body := range []string{`[1, "x", null]`, `{"items": [true, [], 3.5]}`} {
			tracks, err := ParseTracks([]byte(body))
			if err != nil {
				t.Errorf("%s: expected no error, got %v", body, err)
			}
			if len(tracks) != 0 {
				t.Errorf("%s: expected no tracks, got %d", body, len(tracks))
			}
		}

		tracks, err := ParseTracks([]byte(`[1, {"name": "Kept"}, null]`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 1 || tracks[0].Name != "Kept" {
			t.Errorf("expected only the object element, got %+v", tracks)
		}

		artists, err := ParseArtists([]byte(`["Q", {"name": "R"}]`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(artists) != 1 || artists[0].Name != "R" {
			t.Errorf("expected only the object element, got %+v", artists)
		}
	})

	t.Run("Invalid Document", func(t *testing.T) {
		for _, body := range []string{``, `{"items": [`, `<html>`} {
			if _, err := ParseTracks([]byte(body)); !errors.Is(err, shared.ErrInvalidJSON) {
				t.Errorf("%q: expected ErrInvalidJSON, got %v", body, err)
			}
		}
	})
}

func TestParseArtists(t *testing.T) {
	t.Run("Full Record", func(t *testing.T) {
		body := `{"items": [{
			"id": "q",
			"name": "Q",
			"uri": "spotify:artist:q",
			"popularity": 88,
			"followers": {"href": null, "total": 123456},
			"genres": ["pop", 7, "rock", null],
			"images": [{"url": "https://i.scdn.co/q", "height": 320, "width": 320}]
		}]}`

		artists, err := ParseArtists([]byte(body))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(artists) != 1 {
			t.Fatalf("expected 1 artist, got %d", len(artists))
		}

		artist := artists[0]
		if artist.Name != "Q" || artist.Popularity != 88 || artist.Followers != 123456 {
			t.Errorf("unexpected artist: %+v", artist)
		}
		if len(artist.Genres) != 2 || artist.Genres[0] != "pop" || artist.Genres[1] != "rock" {
			t.Errorf("expected only string genres, got %v", artist.Genres)
		}
		if len(artist.Images) != 1 || artist.Images[0].URL != "https://i.scdn.co/q" {
			t.Errorf("unexpected images: %+v", artist.Images)
		}
	})

	t.Run("Missing Fields", func(t *testing.T) {
		artists, err := ParseArtists([]byte(`[{"name": "R", "followers": 5}]`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		artist := artists[0]
		if artist.Followers != 0 {
			t.Errorf("expected followers 0 when not an object, got %d", artist.Followers)
		}
		if artist.Genres == nil || len(artist.Genres) != 0 {
			t.Errorf("expected empty non-nil genres, got %v", artist.Genres)
		}
	})

	t.Run("Preserves Order", func(t *testing.T) {
		artists, err := ParseArtists([]byte(`[{"name": "C"}, {"name": "A"}, {"name": "B"}]`))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		got := artists[0].Name + artists[1].Name + artists[2].Name
		if got != "CAB" {
			t.Errorf("expected upstream order CAB, got %s", got)
		}
	})
}
