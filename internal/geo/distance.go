// Package geo estimates travel distance and commute time between municipalities.
package geo

import "github.com/sells-group/relocate-cli/internal/model"

// Distance fallbacks (kilometers).
const (
	UnknownLocationKm  = 300.0 // either side missing from the reference table
	unlistedPairBaseKm = 100.0 // added to the major-city spread for pairs not in the table
)

// Pair is one known road distance between two municipalities. Direction is
// irrelevant; the table normalizes it.
type Pair struct {
	From string  `json:"from" yaml:"from"`
	To   string  `json:"to" yaml:"to"`
	Km   float64 `json:"km" yaml:"km"`
}

type pairKey struct{ a, b string }

func keyOf(x, y string) pairKey {
	if y < x {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// PairTable is a symmetric lookup of known distances. Keys are stored with the
// lexicographically smaller slug first, so Get(a, b) == Get(b, a).
type PairTable struct {
	km map[pairKey]float64
}

// NewPairTable builds a table from pairs. A later duplicate of the same
// unordered pair overwrites the earlier one.
func NewPairTable(pairs []Pair) *PairTable {
	t := &PairTable{km: make(map[pairKey]float64, len(pairs))}
	for _, p := range pairs {
		t.Set(p.From, p.To, p.Km)
	}
	return t
}

// Set records the distance between a and b.
func (t *PairTable) Set(a, b string, km float64) {
	t.km[keyOf(a, b)] = km
}

// Get returns the known distance between a and b.
func (t *PairTable) Get(a, b string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	km, ok := t.km[keyOf(a, b)]
	return km, ok
}

// Len returns the number of unordered pairs in the table.
func (t *PairTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.km)
}

// Lookup resolves a location slug against the reference table.
type Lookup interface {
	BySlug(slug string) (*model.Location, bool)
}

// Estimator resolves distances using the known-pairs table with a regional
// fallback for unlisted pairs.
type Estimator struct {
	pairs     *PairTable
	locations Lookup
}

// NewEstimator creates an Estimator over the given pair table and location lookup.
func NewEstimator(pairs *PairTable, locations Lookup) *Estimator {
	return &Estimator{pairs: pairs, locations: locations}
}

// Distance returns the approximate distance in kilometers between two
// municipalities. It never fails: unknown slugs yield UnknownLocationKm.
func (e *Estimator) Distance(from, to string) float64 {
	if from == to {
		return 0
	}

	src, okFrom := e.locations.BySlug(from)
	dst, okTo := e.locations.BySlug(to)
	if !okFrom || !okTo {
		return UnknownLocationKm
	}

	if km, ok := e.pairs.Get(from, to); ok {
		return km
	}

	spread := src.DistanceToMajorCityKm - dst.DistanceToMajorCityKm
	if spread < 0 {
		spread = -spread
	}
	return spread + unlistedPairBaseKm
}
