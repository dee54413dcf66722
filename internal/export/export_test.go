package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/relocate-cli/internal/model"
)

func sampleResults() []model.SimulationResult {
	return []model.SimulationResult{
		{
			Location: model.Location{
				Slug: "umea", Name: "Umeå", Region: "Västerbottens län",
				NatureType: model.NatureCoast, Lat: 63.8258, Lon: 20.2630,
			},
			MatchScore: 74,
			Housing:    model.HousingDelta{EstimatedMonthly: 9800, CostDelta: -4200, AffordableSizeSqm: 95},
			Commute:    model.CommuteDelta{EstimatedMinutes: 0, ChangeMinutes: -40},
			Job:        model.JobInfo{IncomeDelta: -12000},
			Lifestyle:  model.LifestyleDelta{TaxDelta: 1.35, NatureScore: 8, SafetyScore: 7},
			Summary:    "I Umeå sparar ni ~4200 kr/mån.",
			Positives:  []string{"Sparar 4200 kr/mån på boendet"},
		},
		{
			Location:   model.Location{Slug: "lund", Name: "Lund", Region: "Skåne län", NatureType: model.NatureFarmland},
			MatchScore: 61,
			Housing:    model.HousingDelta{EstimatedMonthly: 15100, CostDelta: 1100, AffordableSizeSqm: 61},
			Summary:    "Lund, a \"university town\", costs more",
		},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "CSV", " json ", "xlsx", "geojson"} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want one of table, csv, json, xlsx, geojson")

	assert.True(t, FormatXLSX.Binary())
	assert.False(t, FormatCSV.Binary())
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sampleResults()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "LOCATION")
	assert.Contains(t, lines[2], "Umeå")
	assert.Contains(t, lines[2], "-4200")
	assert.Contains(t, lines[3], "+1100")
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, sampleResults()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, columns, records[0])
	assert.Equal(t, []string{"1", "umea", "Umeå", "Västerbottens län", "74", "9800", "-4200", "95", "0", "-40", "-12000", "1.35", "8.0", "7.0", "I Umeå sparar ni ~4200 kr/mån."}, records[1])
	assert.Equal(t, "Lund, a \"university town\", costs more", records[2][14])
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleResults()))

	var got []model.SimulationResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleResults(), got)

	buf.Reset()
	require.NoError(t, JSON(&buf, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, sampleResults()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := f.Sheet[SheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "slug", sheet.Rows[0].Cells[1].String())
	assert.Equal(t, "umea", sheet.Rows[1].Cells[1].String())

	score, err := sheet.Rows[1].Cells[4].Float()
	require.NoError(t, err)
	assert.InDelta(t, 74, score, 0.001)
	assert.Equal(t, "Lund", sheet.Rows[2].Cells[2].String())
}

func TestGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GeoJSON(&buf, sampleResults()))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			ID       string `json:"id"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1, "locations without coordinates are skipped")
	f := fc.Features[0]
	assert.Equal(t, "umea", f.ID)
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, []float64{20.2630, 63.8258}, f.Geometry.Coordinates)
	assert.EqualValues(t, 1, f.Properties["rank"])
	assert.EqualValues(t, 74, f.Properties["match_score"])
	assert.Equal(t, "coast", f.Properties["nature_type"])
}

func TestWriteDispatch(t *testing.T) {
	for _, f := range Formats {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, f, sampleResults()), f)
		assert.NotZero(t, buf.Len(), f)
	}
	assert.Error(t, Write(&bytes.Buffer{}, "pdf", nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Umeå", truncate("Umeå", 10))
	assert.Equal(t, "Åre är...", truncate("Åre är en fjällort", 9))
}
