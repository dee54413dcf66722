package engine

import "github.com/sells-group/relocate-cli/internal/refdata"

// Unknown-location policy: values assumed for the household's current
// municipality when it is missing from the reference table.
const (
	DefaultReferenceIncome = 350000.0 // kr/year
	DefaultTaxRate         = 32.0     // percent
	DefaultDensity         = 500.0    // inhabitants per km²
)

// CurrentLocationContext is the household's current municipality as the
// engine compares against it. Known is false when the slug was not found and
// the defaults above apply.
type CurrentLocationContext struct {
	Slug    string
	Known   bool
	Income  float64
	TaxRate float64
	Density float64
}

// NewCurrentLocationContext resolves slug against the table once, applying
// the unknown-location defaults when needed.
func NewCurrentLocationContext(table refdata.Table, slug string) CurrentLocationContext {
	loc, ok := table.BySlug(slug)
	if !ok {
		return CurrentLocationContext{
			Slug:    slug,
			Income:  DefaultReferenceIncome,
			TaxRate: DefaultTaxRate,
			Density: DefaultDensity,
		}
	}
	return CurrentLocationContext{
		Slug:    slug,
		Known:   true,
		Income:  loc.AvgIncome,
		TaxRate: loc.TaxRate,
		Density: loc.Density(),
	}
}

// densityRatio compares a candidate's density to the current one. A zero
// current density yields 1.
func (c CurrentLocationContext) densityRatio(candidate float64) float64 {
	if c.Density <= 0 {
		return 1
	}
	return candidate / c.Density
}
