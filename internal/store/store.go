// Package store persists simulation runs.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/relocate-cli/internal/model"
)

// ErrNotFound is returned (wrapped) when a run does not exist.
var ErrNotFound = eris.New("store: run not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	ProfileHash string `json:"profile_hash,omitempty"`
	Locale      string `json:"locale,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

const defaultListLimit = 100

func (f RunFilter) limit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}

// Store defines the persistence interface for simulation runs.
type Store interface {
	// SaveRun assigns an ID and creation time to run and persists it with
	// its ranked results.
	SaveRun(ctx context.Context, run *model.Run) error
	// GetRun returns the run with all results, or an error wrapping ErrNotFound.
	GetRun(ctx context.Context, id string) (*model.Run, error)
	// LatestRunByHash returns the newest run for a household hash and
	// locale, or nil when none exists.
	LatestRunByHash(ctx context.Context, hash, locale string) (*model.Run, error)
	// ListRuns returns runs newest first, without their results.
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// LocationSyncer is implemented by stores that mirror the reference table
// for ad-hoc SQL reporting.
type LocationSyncer interface {
	SyncLocations(ctx context.Context, locations []*model.Location) (int64, error)
}
