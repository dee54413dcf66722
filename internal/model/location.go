package model

// NatureType classifies the dominant landscape around a municipality.
type NatureType string

const (
	NatureForest    NatureType = "forest"
	NatureCoast     NatureType = "coast"
	NatureMountains NatureType = "mountains"
	NatureLakes     NatureType = "lakes"
	NatureFarmland  NatureType = "farmland"
	NatureUrban     NatureType = "urban"
)

// NatureTypes lists every valid nature type in declaration order.
var NatureTypes = []NatureType{
	NatureForest, NatureCoast, NatureMountains, NatureLakes, NatureFarmland, NatureUrban,
}

// Valid reports whether n is one of the known nature types.
func (n NatureType) Valid() bool {
	for _, t := range NatureTypes {
		if n == t {
			return true
		}
	}
	return false
}

// Location is one municipality in the reference table. Scores are on a 0-10 scale.
type Location struct {
	Slug       string  `json:"slug" yaml:"slug"`
	Name       string  `json:"name" yaml:"name"`
	Region     string  `json:"region" yaml:"region"`
	Population int     `json:"population" yaml:"population"`
	AreaKm2    float64 `json:"area_km2" yaml:"area_km2"`

	PricePerSqm      float64 `json:"price_per_sqm" yaml:"price_per_sqm"`
	AvgRentApartment float64 `json:"avg_rent_apartment" yaml:"avg_rent_apartment"` // monthly rent at the 55 m² reference size
	TaxRate          float64 `json:"tax_rate" yaml:"tax_rate"`                     // percent
	AvgIncome        float64 `json:"avg_income" yaml:"avg_income"`                 // yearly
	UnemploymentRate float64 `json:"unemployment_rate" yaml:"unemployment_rate"`

	Schools              int `json:"schools" yaml:"schools"`
	HealthcareFacilities int `json:"healthcare_facilities" yaml:"healthcare_facilities"`

	NatureType NatureType `json:"nature_type" yaml:"nature_type"`
	Coastline  bool       `json:"coastline" yaml:"coastline"`

	PublicTransportScore float64 `json:"public_transport_score" yaml:"public_transport_score"`
	SafetyScore          float64 `json:"safety_score" yaml:"safety_score"`
	CultureScore         float64 `json:"culture_score" yaml:"culture_score"`
	OutdoorScore         float64 `json:"outdoor_score" yaml:"outdoor_score"`
	FamilyScore          float64 `json:"family_score" yaml:"family_score"`
	JobMarketScore       float64 `json:"job_market_score" yaml:"job_market_score"`

	DistanceToMajorCityKm float64  `json:"distance_to_major_city_km" yaml:"distance_to_major_city_km"`
	NearestMajorCity      string   `json:"nearest_major_city" yaml:"nearest_major_city"`
	Lat                   float64  `json:"lat" yaml:"lat"`
	Lon                   float64  `json:"lon" yaml:"lon"`
	Highlights            []string `json:"highlights,omitempty" yaml:"highlights"`
}

// Density returns inhabitants per km², or 0 when the area is unknown.
func (l *Location) Density() float64 {
	if l.AreaKm2 <= 0 {
		return 0
	}
	return float64(l.Population) / l.AreaKm2
}

// FirstHighlight returns the first declared highlight, or "" when none exist.
func (l *Location) FirstHighlight() string {
	if len(l.Highlights) == 0 {
		return ""
	}
	return l.Highlights[0]
}
