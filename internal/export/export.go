// Package export writes ranked simulation results as tables, spreadsheets
// and map layers.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"github.com/sells-group/relocate-cli/internal/model"
)

// Format names an output format.
type Format string

const (
	FormatTable   Format = "table"
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatXLSX    Format = "xlsx"
	FormatGeoJSON Format = "geojson"
)

// Formats lists the formats Write accepts.
var Formats = []Format{FormatTable, FormatCSV, FormatJSON, FormatXLSX, FormatGeoJSON}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, known := range Formats {
		names[i] = string(known)
	}
	return "", eris.Errorf("export: unknown format %q (want one of %s)", s, strings.Join(names, ", "))
}

// Binary reports whether the format should not be written to a terminal.
func (f Format) Binary() bool { return f == FormatXLSX }

// Write renders results in format f.
func Write(w io.Writer, f Format, results []model.SimulationResult) error {
	switch f {
	case FormatTable:
		return Table(w, results)
	case FormatCSV:
		return CSV(w, results)
	case FormatJSON:
		return JSON(w, results)
	case FormatXLSX:
		return XLSX(w, results)
	case FormatGeoJSON:
		return GeoJSON(w, results)
	}
	return eris.Errorf("export: unknown format %q", f)
}

// columns shared by CSV and XLSX.
var columns = []string{
	"rank", "slug", "name", "region", "match_score",
	"estimated_monthly", "cost_delta", "affordable_size_sqm",
	"commute_minutes", "commute_change", "income_delta", "tax_delta",
	"nature_score", "safety_score", "summary",
}

func row(rank int, r model.SimulationResult) []string {
	return []string{
		strconv.Itoa(rank),
		r.Location.Slug,
		r.Location.Name,
		r.Location.Region,
		strconv.Itoa(r.MatchScore),
		strconv.Itoa(r.Housing.EstimatedMonthly),
		strconv.Itoa(r.Housing.CostDelta),
		strconv.Itoa(r.Housing.AffordableSizeSqm),
		strconv.Itoa(r.Commute.EstimatedMinutes),
		strconv.Itoa(r.Commute.ChangeMinutes),
		strconv.FormatFloat(r.Job.IncomeDelta, 'f', 0, 64),
		strconv.FormatFloat(r.Lifestyle.TaxDelta, 'f', 2, 64),
		strconv.FormatFloat(r.Lifestyle.NatureScore, 'f', 1, 64),
		strconv.FormatFloat(r.Lifestyle.SafetyScore, 'f', 1, 64),
		r.Summary,
	}
}

// Table writes an aligned text table for terminals.
func Table(out io.Writer, results []model.SimulationResult) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tLOCATION\tREGION\tSCORE\tMONTHLY\tDELTA\tCOMMUTE\tSUMMARY")
	_, _ = fmt.Fprintln(w, "-\t--------\t------\t-----\t-------\t-----\t-------\t-------")
	for i, r := range results {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%+d\t%d min\t%s\n",
			i+1,
			r.Location.Name,
			r.Location.Region,
			r.MatchScore,
			r.Housing.EstimatedMonthly,
			r.Housing.CostDelta,
			r.Commute.EstimatedMinutes,
			truncate(r.Summary, 70),
		)
	}
	return eris.Wrap(w.Flush(), "export: flush table")
}

// CSV writes one header row and one row per result.
func CSV(w io.Writer, results []model.SimulationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for i, r := range results {
		if err := cw.Write(row(i+1, r)); err != nil {
			return eris.Wrapf(err, "export: write csv row %d", i+1)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

// JSON writes the full results as an indented array.
func JSON(w io.Writer, results []model.SimulationResult) error {
	if results == nil {
		results = []model.SimulationResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(results), "export: encode json")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
