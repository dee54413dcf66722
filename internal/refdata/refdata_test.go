package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/relocate-cli/internal/geo"
	"github.com/sells-group/relocate-cli/internal/model"
)

func TestDefault(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 16, tbl.Len())
	assert.Equal(t, "stockholm", tbl.All()[0].Slug)

	loc, ok := tbl.BySlug("vaxjo")
	require.True(t, ok)
	assert.Equal(t, "Växjö", loc.Name)
	assert.Equal(t, model.NatureLakes, loc.NatureType)

	_, ok = tbl.BySlug("atlantis")
	assert.False(t, ok)

	km, ok := tbl.Pairs().Get("uppsala", "stockholm")
	require.True(t, ok)
	assert.InDelta(t, 70, km, 0.001)
	assert.Contains(t, tbl.Regions(), "Skåne län")
}

func TestDefaultPairsSymmetric(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)
	est := geo.NewEstimator(tbl.Pairs(), tbl)

	for _, a := range tbl.All() {
		for _, b := range tbl.All() {
			assert.Equal(t, est.Distance(a.Slug, b.Slug), est.Distance(b.Slug, a.Slug), "%s/%s", a.Slug, b.Slug)
		}
	}
}

func validLocation(slug string) model.Location {
	return model.Location{
		Slug:       slug,
		Name:       slug,
		Population: 1000,
		AreaKm2:    10,
		NatureType: model.NatureForest,
	}
}

func TestNewStaticTableValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Location)
		errMsg string
	}{
		{"missing slug", func(l *model.Location) { l.Slug = "" }, "without slug"},
		{"zero population", func(l *model.Location) { l.Population = 0 }, "population"},
		{"zero area", func(l *model.Location) { l.AreaKm2 = 0 }, "area"},
		{"bad nature", func(l *model.Location) { l.NatureType = "desert" }, "nature type"},
		{"score too high", func(l *model.Location) { l.SafetyScore = 11 }, "safety_score"},
		{"score negative", func(l *model.Location) { l.JobMarketScore = -1 }, "job_market_score"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := validLocation("a")
			tt.mutate(&loc)
			_, err := NewStaticTable([]model.Location{loc}, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewStaticTableDuplicateAndPairs(t *testing.T) {
	_, err := NewStaticTable([]model.Location{validLocation("a"), validLocation("a")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	locs := []model.Location{validLocation("a"), validLocation("b")}
	_, err = NewStaticTable(locs, []geo.Pair{{From: "a", To: "c", Km: 10}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown location")

	_, err = NewStaticTable(locs, []geo.Pair{{From: "a", To: "b", Km: -1}})
	require.Error(t, err)

	tbl, err := NewStaticTable(locs, []geo.Pair{{From: "b", To: "a", Km: 42}})
	require.NoError(t, err)
	km, ok := tbl.Pairs().Get("a", "b")
	assert.True(t, ok)
	assert.InDelta(t, 42, km, 0.001)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	locPath := filepath.Join(dir, "locations.yaml")
	distPath := filepath.Join(dir, "distances.yaml")

	require.NoError(t, os.WriteFile(locPath, []byte(`
locations:
  - slug: a
    name: Alpha
    region: North
    population: 100
    area_km2: 5
    nature_type: coast
  - slug: b
    name: Beta
    region: South
    population: 200
    area_km2: 8
    nature_type: urban
`), 0o600))
	require.NoError(t, os.WriteFile(distPath, []byte("pairs:\n  - {from: a, to: b, km: 12}\n"), 0o600))

	tbl, err := LoadFile(locPath, distPath)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, 1, tbl.Pairs().Len())

	tbl, err = LoadFile(locPath, "")
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Pairs().Len())

	tbl, err = Load("", "")
	require.NoError(t, err)
	assert.Equal(t, 16, tbl.Len())
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"), "")
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("locations: []\n"), 0o600))
	_, err = LoadFile(empty, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no locations")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("locations: [\n"), 0o600))
	_, err = LoadFile(bad, "")
	assert.Error(t, err)
}
