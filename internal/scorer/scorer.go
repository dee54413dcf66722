// Package scorer converts a candidate municipality's facts and deltas into a
// 0-100 match score against a household's weighted priorities.
package scorer

import (
	"math"

	"github.com/sells-group/relocate-cli/internal/model"
)

// NeutralScore is returned when the household expresses no preferences.
const NeutralScore = 50

// Bonus caps. Each bonus adds to both the weighted sum and the achievable
// maximum so normalization stays fair.
const (
	jobBonusMax        = 0.5
	nearFamilyBonusMax = 1.5
	nearFamilyClose    = 100.0 // km
	nearFamilyRegional = 200.0 // km
	nearFamilyRegBonus = 0.5
)

// Input is everything the scoring model needs about one candidate.
type Input struct {
	Location       *model.Location
	CostDelta      float64
	CommuteMinutes int
	HasFamilyInfo  bool
	OpenToNewJob   bool
	HasNearFamily  bool
	NearFamilyKm   float64
}

// Breakdown holds per-axis subscores (0-10) and bonuses for inspection.
type Breakdown struct {
	Components map[string]float64 `json:"components"`
	Sum        float64            `json:"sum"`
	Max        float64            `json:"max"`
	Score      int                `json:"score"`
}

// Score returns the match score in [0,100].
func Score(in Input, p model.Priorities) int {
	return Explain(in, p).Score
}

// axis is one weighted scoring dimension.
type axis struct {
	name   string
	sub    float64 // 0-10
	weight int
}

// Explain computes the score together with its per-axis breakdown.
func Explain(in Input, p model.Priorities) Breakdown {
	axes := []axis{
		{"space", scoreSpace(in.Location.PricePerSqm), p.Space},
		{"cost", scoreCost(in.CostDelta), p.Cost},
		{"schools", scoreSchools(in.Location.FamilyScore, in.HasFamilyInfo), p.Schools},
		{"nature", in.Location.OutdoorScore, p.Nature},
		{"commute", scoreCommute(in.CommuteMinutes), p.Commute},
		{"calm", in.Location.SafetyScore, p.Calm},
		{"culture", in.Location.CultureScore, p.Culture},
	}

	out := Breakdown{Components: make(map[string]float64, len(axes)+2)}
	for _, a := range axes {
		out.Components[a.name] = a.sub
	}

	weightSum := p.Sum()
	if weightSum == 0 {
		out.Score = NeutralScore
		return out
	}

	var sum float64
	for _, a := range axes {
		sum += a.sub / 10 * float64(a.weight)
	}
	maxSum := float64(weightSum)

	if in.OpenToNewJob {
		bonus := in.Location.JobMarketScore / 10 * jobBonusMax
		out.Components["job_bonus"] = bonus
		sum += bonus
		maxSum += jobBonusMax
	}

	if in.HasNearFamily {
		bonus := scoreNearFamily(in.NearFamilyKm)
		out.Components["near_family_bonus"] = bonus
		sum += bonus
		maxSum += nearFamilyBonusMax
	}

	out.Sum = sum
	out.Max = maxSum
	out.Score = clampScore(int(math.Round(100 * sum / maxSum)))
	return out
}

// scoreSpace rewards cheap land: min(10, 100000/pricePerSqm * 2).
func scoreSpace(pricePerSqm float64) float64 {
	if pricePerSqm <= 0 {
		return 10
	}
	return math.Min(10, 100000/pricePerSqm*2)
}

// scoreCost discretizes the monthly cost delta.
func scoreCost(delta float64) float64 {
	switch {
	case delta <= -3000:
		return 10
	case delta <= 0:
		return 7
	case delta <= 3000:
		return 4
	default:
		return 2
	}
}

func scoreSchools(familyScore float64, hasFamilyInfo bool) float64 {
	if !hasFamilyInfo {
		return 5 // neutral when schools don't apply
	}
	return familyScore
}

// scoreCommute discretizes the estimated one-way commute.
func scoreCommute(minutes int) float64 {
	switch {
	case minutes <= 15:
		return 10
	case minutes <= 30:
		return 8
	case minutes <= 60:
		return 5
	default:
		return 2
	}
}

func scoreNearFamily(km float64) float64 {
	switch {
	case km < nearFamilyClose:
		return nearFamilyBonusMax
	case km < nearFamilyRegional:
		return nearFamilyRegBonus
	default:
		return 0
	}
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
