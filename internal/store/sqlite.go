package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/relocate-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Results are stored
// as one JSON document per run.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	profile_hash TEXT NOT NULL,
	locale       TEXT NOT NULL,
	household    TEXT NOT NULL,
	results      TEXT NOT NULL,
	top_slug     TEXT,
	top_score    INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_profile_hash ON runs(profile_hash, locale, created_at);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.Run) error {
	householdJSON, err := json.Marshal(run.Household)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal household")
	}
	resultsJSON, err := json.Marshal(run.Results)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal results")
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, profile_hash, locale, household, results, top_slug, top_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, run.ProfileHash, run.Locale, string(householdJSON), string(resultsJSON),
		run.TopSlug, run.TopScore, now,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert run")
	}

	run.ID = id
	run.CreatedAt = now
	return nil
}

const sqliteRunColumns = `id, profile_hash, locale, household, results, top_slug, top_score, created_at`

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteRunColumns+` FROM runs WHERE id = ?`, id,
	)
	r, err := scanRun(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: get run %s", id)
	}
	return r, err
}

func (s *SQLiteStore) LatestRunByHash(ctx context.Context, hash, locale string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteRunColumns+` FROM runs
		 WHERE profile_hash = ? AND locale = ?
		 ORDER BY created_at DESC LIMIT 1`,
		hash, locale,
	)
	r, err := scanRun(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT ` + sqliteRunColumns + ` FROM runs WHERE 1=1`
	var args []any

	if filter.ProfileHash != "" {
		query += ` AND profile_hash = ?`
		args = append(args, filter.ProfileHash)
	}
	if filter.Locale != "" {
		query += ` AND locale = ?`
		args = append(args, filter.Locale)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, filter.limit())

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows, false)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

// scanRun reads one runs row. sql.ErrNoRows is returned unwrapped so callers
// can map it.
func scanRun(row scannable, withResults bool) (*model.Run, error) {
	var r model.Run
	var householdJSON, resultsJSON string
	var topSlug sql.NullString

	err := row.Scan(&r.ID, &r.ProfileHash, &r.Locale, &householdJSON, &resultsJSON, &topSlug, &r.TopScore, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	r.TopSlug = topSlug.String

	if err := json.Unmarshal([]byte(householdJSON), &r.Household); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal household")
	}
	if withResults {
		if err := json.Unmarshal([]byte(resultsJSON), &r.Results); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal results")
		}
	}
	return &r, nil
}
