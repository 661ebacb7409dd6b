// Package server provides HTTP routing, middleware, and handlers for the analytics service and CLI OAuth flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] is applied in registration order, the first added being the outermost.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally, so routes use the standard
// "METHOD /path/{wildcard}" patterns.
//
// # Endpoints
//
// [Server] mounts:
//   - GET  /api/analytics/health : liveness, no authorization required
//   - GET  /api/analytics/analytics?timeRange= : the five analytics views, see [tasks.Engine]
//   - GET  /api/analytics/dna?timeRange= : the listener summary
//   - POST /api/analytics/refresh : acknowledgement, nothing is cached
//   - GET  /api/toptracks/top-tracks/{timeRange} and /api/topartists/top-artists/{timeRange} :
//     Spotify pass-through consumed by [services.TopItemsService]
//   - GET  /metrics : Prometheus exposition
//
// Analytics routes answer 401 without an Authorization header. The header value is forwarded upstream as is.
//
// # Middleware
//
// Applied outermost first: [RequestID] assigns or propagates X-Request-ID. [Logging] writes one
// line per request and [Metrics.Middleware] records request counts and latency. [Recovery] sits
// innermost so a panic becomes a 500 that the outer layers still see.
//
// # OAuth Callback Handler
//
// OAuthHandler implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// When the user runs `trends auth`, a temporary HTTP server starts on the configured address, handles the callback,
// and shuts down after receiving the OAuth token.
package server
