// Package models defines the domain entities for the trends analytics service.
//
// The package contains two categories of types:
//
// 1. Catalog entities: values decoded from Spotify Web API payloads
//   - [Track] : A track with its [Album] and credited [Artist] values
//   - [Artist] : An artist with followers, popularity and genres
//   - [Album] : An album with a free-form release date and flattened artist names
//
// 2. Projections: chart-ready views derived once per analytics request
//   - [AlbumMosaicEntry] : Albums grouped by name with occurrence counts
//   - [TopArtist] : The most frequently credited artist and their tracks
//   - [ArtistLeaderboardEntry] : Positional rank score per top artist
//   - [TrackTimelineEntry] : Tracks ordered by normalized release date
//   - [GenreBubbleEntry] : Genre occurrence counts
//   - [MusicDNA] : Summary of genres, popularity and totals
//
// [AnalyticsResult] bundles the five chart projections into the payload served to the dashboard.
//
// Nothing here is persisted; every value is built fresh per request and discarded after serialization.
package models
