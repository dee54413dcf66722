package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/relocate-cli/internal/db"
	"github.com/sells-group/relocate-cli/internal/model"
)

// Postgres tables.
const (
	runsTable      = "relocate.runs"
	resultsTable   = "relocate.simulation_results"
	locationsTable = "relocate.locations"
)

var resultColumns = []string{"run_id", "rank", "slug", "match_score", "cost_delta", "commute_minutes", "result"}

var locationColumns = []string{
	"slug", "name", "region", "population", "area_km2", "price_per_sqm",
	"tax_rate", "avg_income", "nature_type", "lat", "lon",
}

// PostgresStore implements Store using a pgx pool. Each result is a row in
// relocate.simulation_results so rankings can be queried across runs.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	opts := db.PoolOptions{MaxConns: 10, MinConns: 2}
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			opts.MaxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			opts.MinConns = poolCfg.MinConns
		}
	}
	pool, err := db.Connect(ctx, connString, opts)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. The caller owns closing it.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying database pool.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	return migratePostgres(ctx, s.pool)
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, run *model.Run) error {
	householdJSON, err := json.Marshal(run.Household)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal household")
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	rows := make([][]any, 0, len(run.Results))
	for i, res := range run.Results {
		b, err := json.Marshal(res)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal result %s", res.Location.Slug)
		}
		rows = append(rows, []any{
			id, i + 1, res.Location.Slug, res.MatchScore,
			res.Housing.CostDelta, res.Commute.EstimatedMinutes, b,
		})
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx,
		`INSERT INTO relocate.runs (id, profile_hash, locale, household, top_slug, top_score, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, run.ProfileHash, run.Locale, householdJSON, run.TopSlug, run.TopScore, now,
	); err != nil {
		return eris.Wrap(err, "postgres: insert run")
	}

	if _, err := db.CopyFromTx(ctx, tx, resultsTable, resultColumns, rows); err != nil {
		return eris.Wrap(err, "postgres: copy results")
	}

	if err := tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres: commit run")
	}

	run.ID = id
	run.CreatedAt = now
	return nil
}

const pgRunColumns = `id, profile_hash, locale, household, top_slug, top_score, created_at`

func (s *PostgresStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	r, err := scanPGRun(s.pool.QueryRow(ctx,
		`SELECT `+pgRunColumns+` FROM relocate.runs WHERE id = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: get run %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", id)
	}

	if r.Results, err = s.loadResults(ctx, id); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) LatestRunByHash(ctx context.Context, hash, locale string) (*model.Run, error) {
	r, err := scanPGRun(s.pool.QueryRow(ctx,
		`SELECT `+pgRunColumns+` FROM relocate.runs
		 WHERE profile_hash = $1 AND locale = $2
		 ORDER BY created_at DESC LIMIT 1`,
		hash, locale,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: latest run by hash")
	}

	if r.Results, err = s.loadResults(ctx, r.ID); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT ` + pgRunColumns + ` FROM relocate.runs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.ProfileHash != "" {
		query += fmt.Sprintf(` AND profile_hash = $%d`, argIdx)
		args = append(args, filter.ProfileHash)
		argIdx++
	}
	if filter.Locale != "" {
		query += fmt.Sprintf(` AND locale = $%d`, argIdx)
		args = append(args, filter.Locale)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, filter.limit())
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanPGRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

// SyncLocations upserts the reference table into relocate.locations.
func (s *PostgresStore) SyncLocations(ctx context.Context, locations []*model.Location) (int64, error) {
	rows := make([][]any, 0, len(locations))
	for _, l := range locations {
		rows = append(rows, []any{
			l.Slug, l.Name, l.Region, l.Population, l.AreaKm2, l.PricePerSqm,
			l.TaxRate, l.AvgIncome, string(l.NatureType), l.Lat, l.Lon,
		})
	}
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        locationsTable,
		Columns:      locationColumns,
		ConflictKeys: []string{"slug"},
	}, rows)
	return n, eris.Wrap(err, "postgres: sync locations")
}

func (s *PostgresStore) loadResults(ctx context.Context, runID string) ([]model.SimulationResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT result FROM relocate.simulation_results WHERE run_id = $1 ORDER BY rank`, runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query results for %s", runID)
	}
	defer rows.Close()

	var out []model.SimulationResult
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, eris.Wrap(err, "postgres: scan result")
		}
		var res model.SimulationResult
		if err := json.Unmarshal(raw, &res); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal result")
		}
		out = append(out, res)
	}
	return out, eris.Wrap(rows.Err(), "postgres: results iterate")
}

// scanPGRun reads one relocate.runs row. pgx.ErrNoRows is returned unwrapped.
func scanPGRun(row pgx.Row) (*model.Run, error) {
	var r model.Run
	var householdJSON []byte
	var topSlug *string

	err := row.Scan(&r.ID, &r.ProfileHash, &r.Locale, &householdJSON, &topSlug, &r.TopScore, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	if topSlug != nil {
		r.TopSlug = *topSlug
	}
	if err := json.Unmarshal(householdJSON, &r.Household); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal household")
	}
	return &r, nil
}
