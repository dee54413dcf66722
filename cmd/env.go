package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/relocate-cli/internal/cache"
	"github.com/sells-group/relocate-cli/internal/engine"
	"github.com/sells-group/relocate-cli/internal/explain"
	"github.com/sells-group/relocate-cli/internal/pipeline"
	"github.com/sells-group/relocate-cli/internal/refdata"
	"github.com/sells-group/relocate-cli/internal/store"
)

// simEnv holds everything a simulating command needs. Cache and Store may be
// nil.
type simEnv struct {
	Table    *refdata.StaticTable
	Engine   *engine.Engine
	Cache    *cache.Cache
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases the cache and store.
func (e *simEnv) Close() {
	if e.Cache != nil {
		_ = e.Cache.Close()
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

type envOptions struct {
	locale    string // overrides render.locale when set
	withStore bool
}

// initEnv loads the reference table, connects the cache and optionally the
// store, and builds the pipeline. Callers should defer env.Close().
func initEnv(ctx context.Context, opts envOptions) (*simEnv, error) {
	table, err := refdata.Load(cfg.Refdata.LocationsPath, cfg.Refdata.DistancesPath)
	if err != nil {
		return nil, err
	}

	locale := cfg.Render.Locale
	if opts.locale != "" {
		locale = opts.locale
	}
	env := &simEnv{
		Table:  table,
		Engine: engine.New(table, engine.WithRenderer(explain.NewRenderer(locale))),
	}

	env.Cache, err = cache.Open(ctx, cfg.Cache.RedisURL, time.Duration(cfg.Cache.TTLMinutes)*time.Minute)
	if err != nil {
		zap.L().Warn("cache unavailable, continuing without it", zap.Error(err))
	}

	pipeOpts := []pipeline.Option{pipeline.WithCache(env.Cache)}
	if opts.withStore {
		st, err := initStore(ctx)
		if err != nil {
			env.Close()
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			env.Close()
			return nil, err
		}
		env.Store = st
		pipeOpts = append(pipeOpts, pipeline.WithStore(st))
	}

	env.Pipeline = pipeline.New(env.Engine, pipeOpts...)
	zap.L().Debug("environment ready",
		zap.Int("locations", table.Len()),
		zap.String("locale", env.Engine.Locale()),
		zap.Bool("cache", env.Cache != nil),
		zap.Bool("store", env.Store != nil),
	)
	return env, nil
}

// initStore opens the configured run store without migrating it.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}
