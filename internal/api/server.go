// Package api serves the reference table and simulations over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/relocate-cli/internal/pipeline"
	"github.com/sells-group/relocate-cli/internal/refdata"
	"github.com/sells-group/relocate-cli/internal/store"
)

// maxBodyBytes caps household request bodies.
const maxBodyBytes = 1 << 20

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins    []string
	RateLimitRPS   float64 // zero disables limiting
	RateLimitBurst int
}

// Server holds the handlers' dependencies. Store may be nil, in which case
// simulations are not persisted and run lookups return 404.
type Server struct {
	table    refdata.Table
	pipeline *pipeline.Pipeline
	store    store.Store
	opts     Options
}

// New creates a Server.
func New(table refdata.Table, p *pipeline.Pipeline, st store.Store, opts Options) *Server {
	return &Server{table: table, pipeline: p, store: st, opts: opts}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(instrument)

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(newIPRateLimiter(s.opts.RateLimitRPS, s.opts.RateLimitBurst, 10*time.Minute).middleware)

		r.Get("/locations", s.listLocations)
		r.Get("/locations/{slug}", s.getLocation)
		r.Post("/simulations", s.simulate)
		r.Get("/simulations/{id}", s.getSimulation)
		r.Get("/simulations/{id}/map", s.simulationMap)
	})

	return r
}
