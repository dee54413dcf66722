package model

import "time"

// Run is a persisted simulation: the household that was submitted and the
// ranked results the engine returned for it.
type Run struct {
	ID          string             `json:"id"`
	ProfileHash string             `json:"profile_hash"`
	Locale      string             `json:"locale"`
	Household   Household          `json:"household"`
	Results     []SimulationResult `json:"results,omitempty"`
	TopSlug     string             `json:"top_slug,omitempty"`
	TopScore    int                `json:"top_score"`
	CreatedAt   time.Time          `json:"created_at"`
}

// NewRun builds a Run from a household and its ranked results. ID and
// CreatedAt are assigned by the store.
func NewRun(h Household, locale string, results []SimulationResult) Run {
	r := Run{
		ProfileHash: h.Hash(),
		Locale:      locale,
		Household:   h,
		Results:     results,
	}
	if len(results) > 0 {
		r.TopSlug = results[0].Location.Slug
		r.TopScore = results[0].MatchScore
	}
	return r
}
