package model

// SchoolRating compares a municipality's family friendliness to the national level.
type SchoolRating string

const (
	SchoolAbove   SchoolRating = "above"
	SchoolAverage SchoolRating = "average"
	SchoolBelow   SchoolRating = "below"
)

// HighlightTag identifies which explanation rule fired.
type HighlightTag string

const (
	TagSavesOnHousing   HighlightTag = "saves_on_housing"
	TagHousingCostsMore HighlightTag = "housing_costs_more"
	TagShorterCommute   HighlightTag = "shorter_commute"
	TagLongerCommute    HighlightTag = "longer_commute"
	TagHigherIncome     HighlightTag = "higher_income"
	TagLowerIncome      HighlightTag = "lower_income"
	TagGreatNature      HighlightTag = "great_nature"
	TagVerySafe         HighlightTag = "very_safe"
	TagRichCulture      HighlightTag = "rich_culture"
	TagFamilyFriendly   HighlightTag = "family_friendly"
	TagLimitedJobMarket HighlightTag = "limited_job_market"
	TagHigherTax        HighlightTag = "higher_tax"
	TagLowerTax         HighlightTag = "lower_tax"
)

// Polarity marks a highlight as an advantage or a drawback.
type Polarity string

const (
	Positive Polarity = "positive"
	Negative Polarity = "negative"
)

// Highlight is a language-neutral explanation item. Value carries the
// magnitude the rendered text refers to (kronor, minutes, percentage points).
type Highlight struct {
	Tag      HighlightTag `json:"tag"`
	Polarity Polarity     `json:"polarity"`
	Value    float64      `json:"value,omitempty"`
}

// HousingDelta compares housing economics at the candidate to the current home.
type HousingDelta struct {
	PricePerSqm       float64 `json:"price_per_sqm"`
	EstimatedMonthly  int     `json:"estimated_monthly"`
	CostDelta         int     `json:"cost_delta"` // positive = more expensive
	AffordableSizeSqm int     `json:"affordable_size_sqm"`
}

// CommuteDelta compares the estimated commute to the current one.
type CommuteDelta struct {
	EstimatedMinutes int `json:"estimated_minutes"`
	ChangeMinutes    int `json:"change_minutes"`
}

// JobInfo summarises the labour market at the candidate.
type JobInfo struct {
	MarketScore      float64 `json:"market_score"`
	IncomeDelta      float64 `json:"income_delta"`
	UnemploymentRate float64 `json:"unemployment_rate"`
}

// FamilyInfo is only populated for households with or planning children.
type FamilyInfo struct {
	Schools                int          `json:"schools"`
	FamilyScore            float64      `json:"family_score"`
	SchoolRatingVsNational SchoolRating `json:"school_rating_vs_national"`
}

// LifestyleDelta holds the candidate's quality-of-life indicators.
type LifestyleDelta struct {
	NatureScore   float64 `json:"nature_score"`
	CultureScore  float64 `json:"culture_score"`
	SafetyScore   float64 `json:"safety_score"`
	TaxDelta      float64 `json:"tax_delta"`     // percentage points
	DensityRatio  float64 `json:"density_ratio"` // candidate / current
	NearestNature string  `json:"nearest_nature"`
	NatureMinutes int     `json:"nature_minutes"`
}

// SimulationResult is the ranked outcome for one candidate municipality.
type SimulationResult struct {
	Location   Location       `json:"location"`
	MatchScore int            `json:"match_score"`
	Housing    HousingDelta   `json:"housing"`
	Commute    CommuteDelta   `json:"commute"`
	Job        JobInfo        `json:"job"`
	Family     *FamilyInfo    `json:"family"`
	Lifestyle  LifestyleDelta `json:"lifestyle"`
	Summary    string         `json:"summary"`
	Positives  []string       `json:"positives"`
	Negatives  []string       `json:"negatives"`
	Highlights []Highlight    `json:"highlights,omitempty"`
}
