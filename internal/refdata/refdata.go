// Package refdata holds the read-only reference table of municipalities and
// the sparse table of known distances between them.
package refdata

import (
	"embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/relocate-cli/internal/geo"
	"github.com/sells-group/relocate-cli/internal/model"
)

//go:embed data/*.yaml
var dataFS embed.FS

const (
	locationsFile = "data/locations.yaml"
	distancesFile = "data/distances.yaml"
)

// Table is the read-only reference data the engine consumes.
type Table interface {
	// All returns every location in reference order.
	All() []*model.Location
	BySlug(slug string) (*model.Location, bool)
	Pairs() *geo.PairTable
}

// StaticTable is an immutable in-memory Table. It is safe for concurrent use.
type StaticTable struct {
	locations []*model.Location
	bySlug    map[string]*model.Location
	pairs     *geo.PairTable
}

// NewStaticTable indexes locations and pairs. It validates the data and
// returns an error on the first inconsistency.
func NewStaticTable(locations []model.Location, pairs []geo.Pair) (*StaticTable, error) {
	t := &StaticTable{
		locations: make([]*model.Location, 0, len(locations)),
		bySlug:    make(map[string]*model.Location, len(locations)),
	}
	for i := range locations {
		loc := locations[i]
		if err := validateLocation(&loc); err != nil {
			return nil, err
		}
		if _, dup := t.bySlug[loc.Slug]; dup {
			return nil, eris.Errorf("refdata: duplicate location %q", loc.Slug)
		}
		t.locations = append(t.locations, &loc)
		t.bySlug[loc.Slug] = &loc
	}

	for _, p := range pairs {
		if p.Km < 0 {
			return nil, eris.Errorf("refdata: negative distance %s-%s", p.From, p.To)
		}
		for _, slug := range []string{p.From, p.To} {
			if _, ok := t.bySlug[slug]; !ok {
				return nil, eris.Errorf("refdata: distance pair references unknown location %q", slug)
			}
		}
	}
	t.pairs = geo.NewPairTable(pairs)
	return t, nil
}

// All returns every location in reference order. Callers must not modify the
// returned records.
func (t *StaticTable) All() []*model.Location { return t.locations }

// BySlug returns the location with the given slug.
func (t *StaticTable) BySlug(slug string) (*model.Location, bool) {
	loc, ok := t.bySlug[slug]
	return loc, ok
}

// Pairs returns the known-distance table.
func (t *StaticTable) Pairs() *geo.PairTable { return t.pairs }

// Len returns the number of locations.
func (t *StaticTable) Len() int { return len(t.locations) }

// Regions returns the distinct region names in reference order.
func (t *StaticTable) Regions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, loc := range t.locations {
		if !seen[loc.Region] {
			seen[loc.Region] = true
			out = append(out, loc.Region)
		}
	}
	return out
}

func validateLocation(loc *model.Location) error {
	if loc.Slug == "" {
		return eris.New("refdata: location without slug")
	}
	if loc.Population <= 0 {
		return eris.Errorf("refdata: %s: population must be positive", loc.Slug)
	}
	if loc.AreaKm2 <= 0 {
		return eris.Errorf("refdata: %s: area must be positive", loc.Slug)
	}
	if !loc.NatureType.Valid() {
		return eris.Errorf("refdata: %s: unknown nature type %q", loc.Slug, loc.NatureType)
	}
	scores := map[string]float64{
		"public_transport_score": loc.PublicTransportScore,
		"safety_score":           loc.SafetyScore,
		"culture_score":          loc.CultureScore,
		"outdoor_score":          loc.OutdoorScore,
		"family_score":           loc.FamilyScore,
		"job_market_score":       loc.JobMarketScore,
	}
	for name, v := range scores {
		if v < 0 || v > 10 {
			return eris.Errorf("refdata: %s: %s %.1f outside 0-10", loc.Slug, name, v)
		}
	}
	return nil
}

type locationsDoc struct {
	Locations []model.Location `yaml:"locations"`
}

type distancesDoc struct {
	Pairs []geo.Pair `yaml:"pairs"`
}

// Default returns the embedded reference table.
func Default() (*StaticTable, error) {
	locData, err := dataFS.ReadFile(locationsFile)
	if err != nil {
		return nil, eris.Wrap(err, "refdata: read embedded locations")
	}
	distData, err := dataFS.ReadFile(distancesFile)
	if err != nil {
		return nil, eris.Wrap(err, "refdata: read embedded distances")
	}
	return parse(locData, distData)
}

// LoadFile builds a table from YAML files on disk. An empty distancesPath
// means no known pairs; every distance then uses the regional fallback.
func LoadFile(locationsPath, distancesPath string) (*StaticTable, error) {
	locData, err := os.ReadFile(locationsPath)
	if err != nil {
		return nil, eris.Wrapf(err, "refdata: read %s", locationsPath)
	}
	var distData []byte
	if distancesPath != "" {
		distData, err = os.ReadFile(distancesPath)
		if err != nil {
			return nil, eris.Wrapf(err, "refdata: read %s", distancesPath)
		}
	}
	return parse(locData, distData)
}

// Load returns the on-disk table when locationsPath is set, else the embedded one.
func Load(locationsPath, distancesPath string) (*StaticTable, error) {
	if locationsPath == "" {
		return Default()
	}
	return LoadFile(locationsPath, distancesPath)
}

func parse(locData, distData []byte) (*StaticTable, error) {
	var locs locationsDoc
	if err := yaml.Unmarshal(locData, &locs); err != nil {
		return nil, eris.Wrap(err, "refdata: parse locations")
	}
	if len(locs.Locations) == 0 {
		return nil, eris.New("refdata: no locations")
	}
	var dists distancesDoc
	if len(distData) > 0 {
		if err := yaml.Unmarshal(distData, &dists); err != nil {
			return nil, eris.Wrap(err, "refdata: parse distances")
		}
	}
	return NewStaticTable(locs.Locations, dists.Pairs)
}
