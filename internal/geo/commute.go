package geo

import "github.com/sells-group/relocate-cli/internal/model"

// Commute buckets: upper distance bound (exclusive, km) and one-way minutes.
const (
	sameCityMinutes = 10

	shortCommuteKm  = 50.0
	mediumCommuteKm = 150.0
	longCommuteKm   = 300.0
	shortMinutes    = 30
	mediumMinutes   = 60
	longMinutes     = 90
	extremeMinutes  = 120
)

// CommuteMinutes maps a distance to an estimated one-way commute. Rules:
//   - exactly 0 km: 10 min (same-city friction)
//   - < 50 km: 30 min
//   - < 150 km: 60 min
//   - < 300 km: 90 min
//   - otherwise: 120 min
func CommuteMinutes(km float64) int {
	switch {
	case km == 0:
		return sameCityMinutes
	case km < shortCommuteKm:
		return shortMinutes
	case km < mediumCommuteKm:
		return mediumMinutes
	case km < longCommuteKm:
		return longMinutes
	default:
		return extremeMinutes
	}
}

// NatureAccess describes the closest kind of nature and how long it takes to reach it.
type NatureAccess struct {
	Label   string
	Minutes int
}

var natureAccess = map[model.NatureType]NatureAccess{
	model.NatureForest:    {Label: "forest", Minutes: 5},
	model.NatureCoast:     {Label: "sea", Minutes: 10},
	model.NatureMountains: {Label: "mountains", Minutes: 15},
	model.NatureLakes:     {Label: "lake", Minutes: 10},
	model.NatureFarmland:  {Label: "countryside", Minutes: 10},
	model.NatureUrban:     {Label: "park", Minutes: 20},
}

// NearestNature returns the closest nature type for a municipality. Coastal
// municipalities always have the sea within reach.
func NearestNature(loc *model.Location) NatureAccess {
	if a, ok := natureAccess[loc.NatureType]; ok {
		if loc.Coastline && loc.NatureType != model.NatureCoast && a.Minutes > 15 {
			return natureAccess[model.NatureCoast]
		}
		return a
	}
	if loc.Coastline {
		return natureAccess[model.NatureCoast]
	}
	return natureAccess[model.NatureUrban]
}
