// Package explain derives language-neutral highlights and summaries from a
// candidate's computed deltas. Rendering to text lives in Renderer.
package explain

import (
	"math"

	"github.com/sells-group/relocate-cli/internal/model"
)

// MaxPerPolarity caps the number of positive and negative highlights.
const MaxPerPolarity = 3

// Highlight thresholds.
const (
	costThreshold    = 2000.0  // kr/month
	commuteThreshold = 15      // minutes
	incomeThreshold  = 20000.0 // kr/year
	excellentScore   = 9.0
	weakJobMarket    = 4.0
	taxThreshold     = 1.0 // percentage points
)

// Facts are the per-candidate inputs the rule table and summary read.
type Facts struct {
	Location         *model.Location
	CostDelta        float64
	AffordableSize   float64
	EstimatedCommute int
	CommuteChange    int
	IncomeDelta      float64
	TaxDelta         float64
	HasFamilyInfo    bool
}

type rule struct {
	tag      model.HighlightTag
	polarity model.Polarity
	when     func(f Facts) bool
	value    func(f Facts) float64
}

func noValue(Facts) float64 { return 0 }

// rules are evaluated in order; the order fixes which highlights survive the cap.
var rules = []rule{
	{model.TagSavesOnHousing, model.Positive,
		func(f Facts) bool { return f.CostDelta <= -costThreshold },
		func(f Facts) float64 { return math.Abs(f.CostDelta) }},
	{model.TagHousingCostsMore, model.Negative,
		func(f Facts) bool { return f.CostDelta >= costThreshold },
		func(f Facts) float64 { return f.CostDelta }},
	{model.TagShorterCommute, model.Positive,
		func(f Facts) bool { return f.CommuteChange < -commuteThreshold },
		func(f Facts) float64 { return float64(-f.CommuteChange) }},
	{model.TagLongerCommute, model.Negative,
		func(f Facts) bool { return f.CommuteChange > commuteThreshold },
		func(f Facts) float64 { return float64(f.CommuteChange) }},
	{model.TagHigherIncome, model.Positive,
		func(f Facts) bool { return f.IncomeDelta > incomeThreshold },
		func(f Facts) float64 { return f.IncomeDelta }},
	{model.TagLowerIncome, model.Negative,
		func(f Facts) bool { return f.IncomeDelta < -incomeThreshold },
		func(f Facts) float64 { return math.Abs(f.IncomeDelta) }},
	{model.TagGreatNature, model.Positive,
		func(f Facts) bool { return f.Location.OutdoorScore >= excellentScore },
		noValue},
	{model.TagVerySafe, model.Positive,
		func(f Facts) bool { return f.Location.SafetyScore >= excellentScore },
		noValue},
	{model.TagRichCulture, model.Positive,
		func(f Facts) bool { return f.Location.CultureScore >= excellentScore },
		noValue},
	{model.TagFamilyFriendly, model.Positive,
		func(f Facts) bool { return f.HasFamilyInfo && f.Location.FamilyScore >= excellentScore },
		noValue},
	{model.TagLimitedJobMarket, model.Negative,
		func(f Facts) bool { return f.Location.JobMarketScore <= weakJobMarket },
		noValue},
	{model.TagHigherTax, model.Negative,
		func(f Facts) bool { return f.TaxDelta > taxThreshold },
		func(f Facts) float64 { return f.TaxDelta }},
	{model.TagLowerTax, model.Positive,
		func(f Facts) bool { return f.TaxDelta < -taxThreshold },
		func(f Facts) float64 { return math.Abs(f.TaxDelta) }},
}

// Highlights evaluates the rule table against f. The result keeps rule order
// and holds at most MaxPerPolarity entries of each polarity.
func Highlights(f Facts) []model.Highlight {
	var out []model.Highlight
	counts := map[model.Polarity]int{}
	for _, r := range rules {
		if counts[r.polarity] >= MaxPerPolarity || !r.when(f) {
			continue
		}
		counts[r.polarity]++
		out = append(out, model.Highlight{Tag: r.tag, Polarity: r.polarity, Value: r.value(f)})
	}
	return out
}

// Split partitions highlights by polarity, preserving order.
func Split(hs []model.Highlight) (positives, negatives []model.Highlight) {
	for _, h := range hs {
		if h.Polarity == model.Positive {
			positives = append(positives, h)
		} else {
			negatives = append(negatives, h)
		}
	}
	return positives, negatives
}
