// package server contains middleware & handlers for the trends analytics web service
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trends/internal/services"
	"github.com/desertthunder/trends/internal/shared"
	"github.com/desertthunder/trends/internal/tasks"
)

// shutdownTimeout bounds how long in-flight requests may take once the server is stopping.
const shutdownTimeout = 5 * time.Second

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, recovery, metrics, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the analytics service.
// Implementations handle specific endpoints (analytics, top items, OAuth callback).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Opts contains the dependencies of a [Server].
type Opts struct {
	// Address is the listen address, host:port.
	Address string
	// Engine backs the /api/analytics routes.
	Engine tasks.Engine
	// Spotify backs the top items pass-through routes, which are omitted when nil.
	Spotify *services.SpotifyAPI
	Logger  *log.Logger
	// Metrics defaults to a fresh registry.
	Metrics *Metrics
}

// Server serves the analytics API, the top items pass-through and Prometheus metrics.
type Server struct {
	httpServer *http.Server
	router     *BasicRouter
	metrics    *Metrics
	logger     *log.Logger
}

// New wires routes and middleware into a [Server].
func New(opts Opts) *Server {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	logger := shared.WithLogger(opts.Logger, "component", "server")

	router := NewBasicRouter()
	router.Use(RequestID(), Logging(logger), opts.Metrics.Middleware(), Recovery(logger))

	router.Handler(NewAnalyticsHandler(opts.Engine, opts.Metrics, logger))
	if opts.Spotify != nil {
		router.Handler(NewTopItemsHandler(opts.Spotify, logger))
	}
	router.Handle(http.MethodGet, "/metrics", opts.Metrics.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Address,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		router:  router,
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// Handler returns the root handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err, ok := <-serverErrors:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
