package tasks

import (
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/trends/internal/models"
)

// genreLimit is the number of genres kept in a [models.MusicDNA].
const genreLimit = 5

// minTimelineYear excludes placeholder release dates such as 0001-01-01 or 1900-01-01.
const minTimelineYear = 1900

// releaseDateLayouts are tried in order when parsing an album release date.
var releaseDateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006",
	time.RFC3339,
}

// AlbumMosaic groups tracks by album name in first-occurrence order.
//
// The artist name and link of each entry come from the first track seen for that album.
func AlbumMosaic(tracks []models.Track) []models.AlbumMosaicEntry {
	entries := []models.AlbumMosaicEntry{}
	index := make(map[string]int)

	for _, track := range tracks {
		name := track.Album.Name
		if i, ok := index[name]; ok {
			entries[i].Count++
			continue
		}

		index[name] = len(entries)
		entries = append(entries, models.AlbumMosaicEntry{
			AlbumName:   name,
			ArtistName:  strings.Join(track.ArtistNames(), ", "),
			SpotifyLink: track.Album.URI,
			Count:       1,
		})
	}
	return entries
}

// artistTally accumulates credits for one artist.
type artistTally struct {
	name   string
	uri    string
	count  int
	tracks []models.TopArtistTrack
}

// TopArtist returns the artist credited on the most tracks.
//
// Ties go to the artist encountered first. Credits without a name are ignored.
// When nothing can be ranked the [models.NoTopArtist] sentinel is returned.
func TopArtist(tracks []models.Track) models.TopArtist {
	var tallies []*artistTally
	index := make(map[string]*artistTally)

	for _, track := range tracks {
		for _, artist := range track.Artists {
			if artist.Name == "" {
				continue
			}

			tally, ok := index[artist.Name]
			if !ok {
				tally = &artistTally{name: artist.Name, uri: artist.URI}
				index[artist.Name] = tally
				tallies = append(tallies, tally)
			}

			tally.count++
			tally.tracks = append(tally.tracks, models.TopArtistTrack{
				TrackName:   track.Name,
				SpotifyLink: track.URI,
			})
		}
	}

	if len(tallies) == 0 {
		return models.NoTopArtist()
	}

	slices.SortStableFunc(tallies, func(a, b *artistTally) int {
		return b.count - a.count
	})

	top := tallies[0]
	return models.TopArtist{
		ArtistName:  top.name,
		SpotifyLink: top.uri,
		Count:       top.count,
		Tracks:      top.tracks,
	}
}

// ArtistLeaderboard scores artists by position, 100 for the first and two less for each after it.
//
// Artists are expected in upstream relevance order; the result is stably sorted by rank.
func ArtistLeaderboard(artists []models.Artist) []models.ArtistLeaderboardEntry {
	entries := make([]models.ArtistLeaderboardEntry, 0, len(artists))
	for i, artist := range artists {
		entries = append(entries, models.ArtistLeaderboardEntry{
			ArtistName:    artist.Name,
			SpotifyLink:   artist.URI,
			Rank:          100 - i*2,
			FollowerCount: artist.Followers,
			Popularity:    artist.Popularity,
		})
	}

	slices.SortStableFunc(entries, func(a, b models.ArtistLeaderboardEntry) int {
		return b.Rank - a.Rank
	})
	return entries
}

// TrackTimeline places tracks with a usable album release date on a timeline, oldest first.
func TrackTimeline(tracks []models.Track) []models.TrackTimelineEntry {
	entries := []models.TrackTimelineEntry{}
	for _, track := range tracks {
		released, ok := ParseReleaseDate(track.Album.ReleaseDate)
		if !ok {
			continue
		}

		entries = append(entries, models.TrackTimelineEntry{
			TrackName:   track.Name,
			ArtistName:  strings.Join(track.ArtistNames(), ", "),
			ReleaseDate: released,
			SpotifyLink: track.URI,
		})
	}

	slices.SortStableFunc(entries, func(a, b models.TrackTimelineEntry) int {
		return a.ReleaseDate.Compare(b.ReleaseDate)
	})
	return entries
}

// ParseReleaseDate parses a catalog release date of year, year-month or full-date precision.
//
// Blank values, the "0" and "0000" placeholders, and dates in or before 1900 are rejected.
func ParseReleaseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" || s == "0000" {
		return time.Time{}, false
	}

	for _, layout := range releaseDateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() <= minTimelineYear {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// GenreBubble counts genres across artists, most common first.
//
// Genres with equal counts keep the order in which they were first seen.
func GenreBubble(artists []models.Artist) []models.GenreBubbleEntry {
	entries := []models.GenreBubbleEntry{}
	index := make(map[string]int)

	for _, artist := range artists {
		for _, genre := range artist.Genres {
			if i, ok := index[genre]; ok {
				entries[i].Count++
				continue
			}
			index[genre] = len(entries)
			entries = append(entries, models.GenreBubbleEntry{Genre: genre, Count: 1})
		}
	}

	slices.SortStableFunc(entries, func(a, b models.GenreBubbleEntry) int {
		return b.Count - a.Count
	})
	return entries
}

// MusicDNA summarizes the top items: the first five distinct genres and the mean track popularity.
func MusicDNA(tracks []models.Track, artists []models.Artist) models.MusicDNA {
	genres := []string{}
	seen := make(map[string]struct{})

collect:
	for _, artist := range artists {
		for _, genre := range artist.Genres {
			if _, ok := seen[genre]; ok {
				continue
			}
			seen[genre] = struct{}{}
			genres = append(genres, genre)
			if len(genres) == genreLimit {
				break collect
			}
		}
	}

	var average float64
	if len(tracks) > 0 {
		total := 0
		for _, track := range tracks {
			total += track.Popularity
		}
		average = float64(total) / float64(len(tracks))
	}

	return models.MusicDNA{
		TopGenres:         genres,
		AveragePopularity: average,
		TotalTracks:       len(tracks),
		TotalArtists:      len(artists),
	}
}
