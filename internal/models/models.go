// package models defines the data model for the trends analytics service
package models

import "time"

// Time range buckets recognized by the Spotify top items endpoints.
const (
	ShortTerm  = "short_term"
	MediumTerm = "medium_term"
	LongTerm   = "long_term"

	DefaultTimeRange = MediumTerm
)

// NoArtistFound is the artist name reported when no top artist can be determined.
const NoArtistFound = "No Artist Found"

// ValidTimeRange reports whether tr is one of the known buckets.
//
// Unknown values are still forwarded upstream; this is only used for display and warnings.
func ValidTimeRange(tr string) bool {
	switch tr {
	case ShortTerm, MediumTerm, LongTerm:
		return true
	default:
		return false
	}
}

// Image represents an image resource.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Album represents an album as embedded in a track payload.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	URI         string   `json:"uri"`
	Href        string   `json:"href"`
	ReleaseDate string   `json:"releaseDate"` // year, year-month or full date; may be empty or "0000"
	AlbumType   string   `json:"albumType"`
	TotalTracks int      `json:"totalTracks"`
	Artists     []string `json:"artists"`
	Images      []Image  `json:"images"`
}

// Artist represents an artist, either a full top-artist record or a credit on a track.
//
// Credits only carry ID, Name, URI and Href.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	URI        string   `json:"uri"`
	Href       string   `json:"href"`
	Popularity int      `json:"popularity"`
	Followers  int      `json:"followers"`
	Genres     []string `json:"genres"`
	Images     []Image  `json:"images"`
}

// Track represents a track with its album and credited artists.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Album      Album    `json:"album"`
	Artists    []Artist `json:"artists"` // never nil
	Popularity int      `json:"popularity"`
	DurationMS int      `json:"durationMs"`
	Explicit   bool     `json:"explicit"`
	URI        string   `json:"uri"`
	Href       string   `json:"href"`
}

// ArtistNames returns the names of every credited artist, in credit order.
func (t Track) ArtistNames() []string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return names
}

// AlbumMosaicEntry is one album in the album mosaic, counted across the top tracks.
type AlbumMosaicEntry struct {
	AlbumName   string `json:"albumName"`
	ArtistName  string `json:"artistName"`
	SpotifyLink string `json:"spotifyLink"`
	Count       int    `json:"count"`
}

// TopArtistTrack is a track credited to the top artist.
type TopArtistTrack struct {
	TrackName   string `json:"trackName"`
	SpotifyLink string `json:"spotifyLink"`
}

// TopArtist is the artist credited most often across the top tracks.
type TopArtist struct {
	ArtistName  string           `json:"artistName"`
	SpotifyLink string           `json:"spotifyLink"`
	Count       int              `json:"count"`
	Tracks      []TopArtistTrack `json:"tracks"`
}

// NoTopArtist returns the sentinel used when there is nothing to rank.
func NoTopArtist() TopArtist {
	return TopArtist{ArtistName: NoArtistFound, Tracks: []TopArtistTrack{}}
}

// ArtistLeaderboardEntry is one row of the artist leaderboard.
type ArtistLeaderboardEntry struct {
	ArtistName    string `json:"artistName"`
	SpotifyLink   string `json:"spotifyLink"`
	Rank          int    `json:"rank"`
	FollowerCount int    `json:"followerCount"`
	Popularity    int    `json:"popularity"`
}

// TrackTimelineEntry is a track placed on the release timeline.
type TrackTimelineEntry struct {
	TrackName   string    `json:"trackName"`
	ArtistName  string    `json:"artistName"`
	ReleaseDate time.Time `json:"releaseDate"`
	SpotifyLink string    `json:"spotifyLink"`
}

// GenreBubbleEntry counts how many top artists list a genre.
type GenreBubbleEntry struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// AnalyticsResult is the analytics payload for one time range.
type AnalyticsResult struct {
	AlbumMosaicData       []AlbumMosaicEntry       `json:"albumMosaicData"`
	TopArtistData         TopArtist                `json:"topArtistData"`
	ArtistLeaderboardData []ArtistLeaderboardEntry `json:"artistLeaderboardData"`
	TrackTimelineData     []TrackTimelineEntry     `json:"trackTimelineData"`
	GenreBubbleData       []GenreBubbleEntry       `json:"genreBubbleData"`
}

// MusicDNA summarizes a listener's top items.
type MusicDNA struct {
	TopGenres         []string `json:"topGenres"`
	AveragePopularity float64  `json:"averagePopularity"`
	TotalTracks       int      `json:"totalTracks"`
	TotalArtists      int      `json:"totalArtists"`
}
