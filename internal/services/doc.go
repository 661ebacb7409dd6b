// Package services implements the clients the analytics service uses to reach upstream HTTP APIs.
//
// # TopItems Client
//
// [TopItemsService] implements [TopItemsFetcher] against the TopItems service, which exposes a user's
// top tracks and top artists for a Spotify time range:
//
//	GET /api/toptracks/top-tracks/{timeRange}
//	GET /api/topartists/top-artists/{timeRange}
//
// The user's credential is forwarded as a bearer token. Transport failures, non-2xx responses and
// undecodable bodies are logged and converted into empty slices, so a failing upstream degrades
// analytics instead of failing them.
//
// # Decoding
//
// [ParseTracks] and [ParseArtists] read payloads with gjson. A document may be a paging object with an
// "items" array or a bare array. Missing or wrongly typed fields decode to zero values.
//
// # Spotify Implementation
//
// [SpotifyService] holds the OAuth2 configuration used by the CLI to obtain and refresh user tokens.
// [SpotifyAPI] calls the Spotify Web API directly and backs the TopItems pass-through endpoints.
// Calls are paced with a [rate.Limiter].
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : client_id or client_secret not configured
//   - [shared.ErrAPIRequest] : HTTP request failed or returned a non-2xx status
//   - [shared.ErrInvalidJSON] : body is not a JSON document
package services
