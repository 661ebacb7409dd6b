// Package tasks builds listening analytics from a user's Spotify top items.
//
// # Core Operations
//
// The [Engine] interface defines two operations:
//
//  1. [Engine.Generate] : the five chart-ready views for a time range
//     - Fetches top tracks and top artists concurrently
//     - Builds album mosaic, top artist, artist leaderboard, track timeline and genre bubble views concurrently
//     - Returns empty views (and a "No Artist Found" top artist) when upstream returned nothing
//
//  2. [Engine.DNA] : a short summary of the same inputs
//     - First five distinct genres, mean track popularity, totals
//
// [AnalyticsEngine.Snapshot] runs Generate for several time ranges and writes one export per range
// plus a manifest.
//
// # Transforms
//
// [AlbumMosaic], [TopArtist], [ArtistLeaderboard], [TrackTimeline], [GenreBubble] and [MusicDNA] are
// pure functions of their inputs. They never fail, accept empty input, and do not depend on each other.
// Groupings keep first-occurrence order and every sort is stable.
//
// # Progress Reporting
//
// # Operations accept an optional progress channel
//
// The [ProgressUpdate] struct contains phase, step counters and a message.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [AnalyticsEngine] implements [Engine] with a dependency on:
//   - [services.TopItemsFetcher] : top tracks and top artists for a time range and credential
package tasks
