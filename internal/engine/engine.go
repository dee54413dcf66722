// Package engine ranks every reference municipality for one household.
//
// For each candidate the engine estimates housing economics, commute, job
// market, family and lifestyle deltas against the household's current
// municipality, scores the candidate against the household's priorities and
// explains the outcome. It never returns an error: unknown identifiers and
// degenerate inputs fall back to documented defaults.
package engine

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/relocate-cli/internal/explain"
	"github.com/sells-group/relocate-cli/internal/geo"
	"github.com/sells-group/relocate-cli/internal/housing"
	"github.com/sells-group/relocate-cli/internal/model"
	"github.com/sells-group/relocate-cli/internal/refdata"
	"github.com/sells-group/relocate-cli/internal/scorer"
)

// School rating cut-offs on the family-friendliness score.
const (
	schoolAboveMin   = 9.0
	schoolAverageMin = 7.0
)

// Engine is stateless after construction and safe for concurrent use.
type Engine struct {
	table     refdata.Table
	distances *geo.Estimator
	housing   *housing.Model
	renderer  *explain.Renderer
}

// Option configures an Engine.
type Option func(*Engine)

// WithHousingModel overrides the default mortgage assumptions.
func WithHousingModel(m *housing.Model) Option {
	return func(e *Engine) { e.housing = m }
}

// WithRenderer sets the renderer used for highlight and summary text.
func WithRenderer(r *explain.Renderer) Option {
	return func(e *Engine) { e.renderer = r }
}

// New creates an Engine over the reference table. Without options it uses the
// default housing model and Swedish text.
func New(table refdata.Table, opts ...Option) *Engine {
	e := &Engine{
		table:     table,
		distances: geo.NewEstimator(table.Pairs(), table),
		housing:   housing.Default(),
		renderer:  explain.NewRenderer(""),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Locale returns the locale results are rendered in.
func (e *Engine) Locale() string { return e.renderer.Locale() }

// Simulate scores every location except the household's current one and
// returns the results sorted by match score, highest first. Equal scores keep
// reference-table order.
func (e *Engine) Simulate(h model.Household) []model.SimulationResult {
	current := NewCurrentLocationContext(e.table, h.Housing.CurrentLocation)

	locations := e.table.All()
	results := make([]model.SimulationResult, 0, len(locations))
	for _, loc := range locations {
		if loc.Slug == current.Slug {
			continue
		}
		results = append(results, e.evaluate(h, current, loc))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})

	if len(results) > 0 {
		zap.L().Debug("engine: simulation complete",
			zap.String("current", current.Slug),
			zap.Bool("current_known", current.Known),
			zap.Int("candidates", len(results)),
			zap.String("top", results[0].Location.Slug),
			zap.Int("top_score", results[0].MatchScore),
		)
	}
	return results
}

// evaluate builds the full result for one candidate.
func (e *Engine) evaluate(h model.Household, current CurrentLocationContext, loc *model.Location) model.SimulationResult {
	est := e.housing.EstimateDelta(loc, h.Housing)
	affordable := e.housing.AffordableSize(loc, h.Housing)
	commute := e.commute(h.Work, loc)
	incomeDelta := loc.AvgIncome - current.Income
	taxDelta := loc.TaxRate - current.TaxRate
	wantsFamily := h.Family.WantsFamilyInfo()

	in := scorer.Input{
		Location:       loc,
		CostDelta:      est.CostDelta,
		CommuteMinutes: commute.EstimatedMinutes,
		HasFamilyInfo:  wantsFamily,
		OpenToNewJob:   h.Work.JobChangeOpenness != model.No,
	}
	if target := h.Priorities.NearFamily; target != "" {
		in.HasNearFamily = true
		in.NearFamilyKm = e.distances.Distance(loc.Slug, target)
	}

	facts := explain.Facts{
		Location:         loc,
		CostDelta:        est.CostDelta,
		AffordableSize:   affordable,
		EstimatedCommute: commute.EstimatedMinutes,
		CommuteChange:    commute.ChangeMinutes,
		IncomeDelta:      incomeDelta,
		TaxDelta:         taxDelta,
		HasFamilyInfo:    wantsFamily,
	}
	highlights := explain.Highlights(facts)
	positives, negatives := explain.Split(highlights)
	nature := geo.NearestNature(loc)

	res := model.SimulationResult{
		Location:   *loc,
		MatchScore: scorer.Score(in, h.Priorities),
		Housing: model.HousingDelta{
			PricePerSqm:       loc.PricePerSqm,
			EstimatedMonthly:  int(est.Monthly),
			CostDelta:         int(math.Round(est.CostDelta)),
			AffordableSizeSqm: int(affordable),
		},
		Commute: commute,
		Job: model.JobInfo{
			MarketScore:      loc.JobMarketScore,
			IncomeDelta:      incomeDelta,
			UnemploymentRate: loc.UnemploymentRate,
		},
		Lifestyle: model.LifestyleDelta{
			NatureScore:   loc.OutdoorScore,
			CultureScore:  loc.CultureScore,
			SafetyScore:   loc.SafetyScore,
			TaxDelta:      roundTo(taxDelta, 2),
			DensityRatio:  roundTo(current.densityRatio(loc.Density()), 2),
			NearestNature: nature.Label,
			NatureMinutes: nature.Minutes,
		},
		Summary:    e.renderer.Summary(explain.Summarize(facts)),
		Positives:  e.renderer.Highlights(positives),
		Negatives:  e.renderer.Highlights(negatives),
		Highlights: highlights,
	}
	if wantsFamily {
		res.Family = &model.FamilyInfo{
			Schools:                loc.Schools,
			FamilyScore:            loc.FamilyScore,
			SchoolRatingVsNational: schoolRating(loc.FamilyScore),
		}
	}
	return res
}

// commute estimates the one-way commute from the candidate to the workplace.
// Remote workers have no commute, so their change is minus today's commute.
func (e *Engine) commute(w model.WorkProfile, loc *model.Location) model.CommuteDelta {
	if w.IsRemote() {
		return model.CommuteDelta{EstimatedMinutes: 0, ChangeMinutes: -w.CurrentCommuteMinutes}
	}
	minutes := geo.CommuteMinutes(e.distances.Distance(loc.Slug, w.WorkLocation))
	return model.CommuteDelta{
		EstimatedMinutes: minutes,
		ChangeMinutes:    minutes - w.CurrentCommuteMinutes,
	}
}

func schoolRating(familyScore float64) model.SchoolRating {
	switch {
	case familyScore >= schoolAboveMin:
		return model.SchoolAbove
	case familyScore >= schoolAverageMin:
		return model.SchoolAverage
	default:
		return model.SchoolBelow
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
