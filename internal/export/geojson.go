package export

import (
	"bytes"
	"io"

	json "github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/relocate-cli/internal/model"
)

// Features converts results to GeoJSON point features in rank order.
// Locations without coordinates are skipped.
func Features(results []model.SimulationResult) []*geojson.Feature {
	features := make([]*geojson.Feature, 0, len(results))
	for i, r := range results {
		loc := r.Location
		if loc.Lat == 0 && loc.Lon == 0 {
			continue
		}
		features = append(features, &geojson.Feature{
			ID:       loc.Slug,
			Geometry: geom.NewPointFlat(geom.XY, []float64{loc.Lon, loc.Lat}),
			Properties: map[string]any{
				"rank":        i + 1,
				"name":        loc.Name,
				"region":      loc.Region,
				"match_score": r.MatchScore,
				"cost_delta":  r.Housing.CostDelta,
				"commute_min": r.Commute.EstimatedMinutes,
				"nature_type": string(loc.NatureType),
				"summary":     r.Summary,
				"positives":   r.Positives,
				"negatives":   r.Negatives,
			},
		})
	}
	return features
}

// GeoJSON writes a FeatureCollection of the results.
func GeoJSON(w io.Writer, results []model.SimulationResult) error {
	fc := geojson.FeatureCollection{Features: Features(results)}
	data, err := fc.MarshalJSON()
	if err != nil {
		return eris.Wrap(err, "export: marshal geojson")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return eris.Wrap(err, "export: indent geojson")
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return eris.Wrap(err, "export: write geojson")
}
