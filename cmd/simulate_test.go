package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/relocate-cli/internal/model"
	"github.com/sells-group/relocate-cli/internal/store"
)

func TestLoadHousehold_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := writeHousehold(t, dir, "h.yaml", testHouseholdYAML)

	h, err := loadHousehold(path, "nature=5,culture=0")
	require.NoError(t, err)
	assert.Equal(t, 5, h.Priorities.Nature)
	assert.Equal(t, 0, h.Priorities.Culture)
	assert.Equal(t, 5, h.Priorities.Cost)

	_, err = loadHousehold(path, "beaches=5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown priority")

	_, err = loadHousehold(filepath.Join(dir, "missing.yaml"), "")
	assert.Error(t, err)
}

func TestRunSimulate_JSONToFile(t *testing.T) {
	dir := useTempConfig(t)
	hh := writeHousehold(t, dir, "h.yaml", testHouseholdYAML)
	out := filepath.Join(dir, "out.json")

	setFlags(t, simulateCmd, map[string]string{
		"household": hh, "format": "json", "output": out, "limit": "4", "locale": "en",
	})
	require.NoError(t, runSimulate(simulateCmd, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var results []model.SimulationResult
	require.NoError(t, json.Unmarshal(data, &results))
	require.Len(t, results, 4)
	assert.NotEqual(t, "stockholm", results[0].Location.Slug)
	assert.NotEmpty(t, results[0].Summary)
}

func TestRunSimulate_XLSXRequiresOutput(t *testing.T) {
	dir := useTempConfig(t)
	hh := writeHousehold(t, dir, "h.yaml", testHouseholdYAML)

	setFlags(t, simulateCmd, map[string]string{"household": hh, "format": "xlsx"})
	err := runSimulate(simulateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--output is required")
}

func TestRunSimulate_XLSXAndSave(t *testing.T) {
	dir := useTempConfig(t)
	hh := writeHousehold(t, dir, "h.yaml", testHouseholdYAML)
	out := filepath.Join(dir, "ranking.xlsx")

	setFlags(t, simulateCmd, map[string]string{"household": hh, "format": "xlsx", "output": out, "save": "true"})
	require.NoError(t, runSimulate(simulateCmd, nil))

	f, err := xlsx.OpenFile(out)
	require.NoError(t, err)
	assert.Len(t, f.Sheets[0].Rows, 16)

	st, err := store.NewSQLite(cfg.Store.DatabaseURL)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck
	runs, err := st.ListRuns(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "stockholm", runs[0].Household.Housing.CurrentLocation)
}

func TestRunSimulate_InvalidHousehold(t *testing.T) {
	dir := useTempConfig(t)
	hh := writeHousehold(t, dir, "bad.yaml", "housing:\n  current_location: stockholm\n  type: igloo\n")

	setFlags(t, simulateCmd, map[string]string{"household": hh, "format": "csv", "output": filepath.Join(dir, "x.csv")})
	err := runSimulate(simulateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "housing.type")
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	require.NoError(t, writeOutput(path, func(w io.Writer) error {
		_, err := w.Write([]byte("hej"))
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hej", string(data))

	err = writeOutput(filepath.Join(dir, "nope", "out.txt"), func(io.Writer) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create output")
}

func TestFormatLocations(t *testing.T) {
	locs := []*model.Location{
		{Slug: "ystad", Name: "Ystad", Region: "Skåne län", Population: 31000, PricePerSqm: 27000, AvgRentApartment: 8200, TaxRate: 31.2, NatureType: model.NatureCoast},
		{Slug: "kiruna", Name: "Kiruna", Region: "Norrbottens län", Population: 22000, NatureType: model.NatureMountains},
	}

	filtered := filterRegion(locs, "skåne LÄN")
	require.Len(t, filtered, 1)
	assert.Equal(t, "ystad", filtered[0].Slug)
	assert.Len(t, filterRegion(locs, ""), 2)

	var buf bytes.Buffer
	formatLocations(&buf, locs)
	out := buf.String()
	assert.Contains(t, out, "SLUG")
	assert.Contains(t, out, "Ystad")
	assert.Contains(t, out, "31.20")
	assert.Contains(t, out, "mountains")
}
