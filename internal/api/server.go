// Package api serves the solve pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz       liveness probe
//	POST /v1/solve      best plan and runners-up for a network
//	POST /v1/distances  filtered distance table of a network
//	GET  /metrics       Prometheus metrics
//
// A /v1 request that outlives Server.Timeout is canceled and answered with
// 504 Gateway Timeout.
//
// Request bodies carry the network either as JSON valves or in the text
// format:
//
//	{"valves": [{"id": "AA", "flow_rate": 0, "tunnels": ["BB"]}, ...], "budget": 30}
//	{"text": "Valve AA has flow rate=0; tunnel leads to valve BB\n...", "origin": "AA"}
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/steamvent/pkg/pipeline"
)

// maxBodyBytes bounds request bodies. Real networks are a few kilobytes.
const maxBodyBytes = 1 << 20

// DefaultTimeout bounds a /v1 request when Server.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Runner   *pipeline.Runner
	Logger   *log.Logger
	Gatherer prometheus.Gatherer // nil serves the default registry

	// Timeout cancels a /v1 request that runs longer and answers 504.
	Timeout time.Duration
}

// NewHandler creates the HTTP handler for s.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = log.Default()
	}
	gatherer := s.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Use(middleware.Timeout(timeout))
		r.Post("/solve", s.solve)
		r.Post("/distances", s.distances)
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}

// ListenAndServe serves h on addr until ctx is canceled, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
