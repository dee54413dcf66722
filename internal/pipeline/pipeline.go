// Package pipeline runs one household through validation, the result cache,
// the matching engine and the run store.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/relocate-cli/internal/cache"
	"github.com/sells-group/relocate-cli/internal/engine"
	"github.com/sells-group/relocate-cli/internal/metrics"
	"github.com/sells-group/relocate-cli/internal/model"
	"github.com/sells-group/relocate-cli/internal/resilience"
	"github.com/sells-group/relocate-cli/internal/store"
	"github.com/sells-group/relocate-cli/internal/validate"
)

// Pipeline orchestrates a simulation. Cache and store are optional.
type Pipeline struct {
	engine    *engine.Engine
	validator *validate.Validator
	cache     *cache.Cache
	store     store.Store
	retry     resilience.Policy
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCache enables result caching.
func WithCache(c *cache.Cache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithStore enables saving runs.
func WithStore(s store.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithRetry overrides the retry policy for store writes.
func WithRetry(r resilience.Policy) Option {
	return func(p *Pipeline) { p.retry = r }
}

// New creates a Pipeline around eng.
func New(eng *engine.Engine, opts ...Option) *Pipeline {
	p := &Pipeline{
		engine:    eng,
		validator: validate.New(),
		retry:     resilience.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.retry.OnRetry = resilience.LogRetry("store.save_run")
	return p
}

// InvalidRequestError reports a request rejected before simulation.
type InvalidRequestError struct {
	Err error
}

func (e *InvalidRequestError) Error() string {
	return "pipeline: invalid request: " + e.Err.Error()
}

func (e *InvalidRequestError) Unwrap() error { return e.Err }

// IsInvalidRequest reports whether err was caused by bad input.
func IsInvalidRequest(err error) bool {
	var ie *InvalidRequestError
	return errors.As(err, &ie)
}

// Request is one simulation request.
type Request struct {
	Household model.Household
	// Save persists the run. It is an error when no store is configured.
	Save bool
	// Limit truncates the returned results. Zero returns all.
	Limit int
}

// Result is the outcome of a simulation. Run.Results holds the full
// ranking; Top holds the slice the caller asked for.
type Result struct {
	Run    model.Run
	Top    []model.SimulationResult
	Source string
	Saved  bool
}

// Run validates the household, serves the ranking from cache when possible,
// otherwise runs the engine, and optionally persists the run. Cache failures
// are logged and never fail the request.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	h := req.Household
	if err := p.validator.Household(&h); err != nil {
		return nil, &InvalidRequestError{Err: err}
	}
	if req.Save && p.store == nil {
		return nil, &InvalidRequestError{Err: eris.New("save requested but no store configured")}
	}
	if req.Limit < 0 {
		return nil, &InvalidRequestError{Err: eris.Errorf("limit must be >= 0, got %d", req.Limit)}
	}

	hash := h.Hash()
	locale := p.engine.Locale()
	log := zap.L().With(zap.String("profile_hash", hash[:12]), zap.String("locale", locale))

	results, source := p.lookup(ctx, log, locale, hash)
	if results == nil {
		start := time.Now()
		results = p.engine.Simulate(h)
		metrics.ObserveSimulation(time.Since(start), len(results))
		source = metrics.SourceEngine

		if err := p.cache.Set(ctx, locale, hash, results); err != nil {
			log.Warn("pipeline: cache set failed", zap.Error(err))
		}
	}

	out := &Result{
		Run:    model.NewRun(h, locale, results),
		Source: source,
	}

	if req.Save {
		err := resilience.Do(ctx, p.retry, func(ctx context.Context) error {
			return p.store.SaveRun(ctx, &out.Run)
		})
		if err != nil {
			metrics.StoreErrors.WithLabelValues("save_run").Inc()
			return nil, eris.Wrap(err, "pipeline: save run")
		}
		out.Saved = true
	}

	out.Top = Truncate(results, req.Limit)
	log.Info("pipeline: simulation complete",
		zap.String("source", source),
		zap.String("top", out.Run.TopSlug),
		zap.Int("top_score", out.Run.TopScore),
		zap.String("run_id", out.Run.ID),
	)
	return out, nil
}

func (p *Pipeline) lookup(ctx context.Context, log *zap.Logger, locale, hash string) ([]model.SimulationResult, string) {
	if p.cache == nil {
		return nil, ""
	}
	cached, err := p.cache.Get(ctx, locale, hash)
	switch {
	case err != nil:
		metrics.CacheRequests.WithLabelValues("error").Inc()
		log.Warn("pipeline: cache get failed", zap.Error(err))
		return nil, ""
	case cached == nil:
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, ""
	}
	metrics.CacheRequests.WithLabelValues("hit").Inc()
	metrics.SimulationsTotal.WithLabelValues(metrics.SourceCache).Inc()
	return cached, metrics.SourceCache
}

// Truncate returns the first n results, or all of them when n is zero or
// exceeds the list.
func Truncate(results []model.SimulationResult, n int) []model.SimulationResult {
	if n <= 0 || n >= len(results) {
		return results
	}
	return results[:n]
}
