package explain

import "math"

// ClauseKind identifies one building block of the summary sentence.
type ClauseKind string

const (
	ClauseSavings   ClauseKind = "savings"
	ClauseParity    ClauseKind = "parity"
	ClauseSize      ClauseKind = "size"
	ClauseCommute   ClauseKind = "commute"
	ClauseHighlight ClauseKind = "highlight"
)

// Summary thresholds.
const (
	MaxClauses         = 2
	parityBand         = 500.0 // kr/month
	sizeClauseMinSqm   = 100.0
	commuteClauseLimit = 30 // minutes
)

// Clause is one structured piece of the summary. Value holds kronor, m² or
// minutes depending on Kind; Text carries a declared location highlight.
type Clause struct {
	Kind  ClauseKind
	Value float64
	Text  string
}

// Summary is the language-neutral form of the one-line narrative.
type Summary struct {
	LocationName string
	Clauses      []Clause
	// Highlight is the location's first declared highlight, used by the
	// generic fallback sentence when no clause qualifies.
	Highlight string
}

// Summarize builds the summary for one candidate.
//
// The cost clause leads: savings when the candidate is cheaper, parity when it
// is at most parityBand more expensive. An affordable-size clause follows when
// the budget buys more than 100 m², and a commute clause when the estimated
// commute is at most 30 minutes and no worse than today. If neither of those
// qualifies the location's first declared highlight is used instead. At most
// MaxClauses are kept.
func Summarize(f Facts) Summary {
	s := Summary{
		LocationName: f.Location.Name,
		Highlight:    f.Location.FirstHighlight(),
	}

	switch {
	case f.CostDelta < 0:
		s.Clauses = append(s.Clauses, Clause{Kind: ClauseSavings, Value: math.Abs(f.CostDelta)})
	case f.CostDelta <= parityBand:
		s.Clauses = append(s.Clauses, Clause{Kind: ClauseParity})
	}

	var extra bool
	if f.AffordableSize > sizeClauseMinSqm {
		s.Clauses = append(s.Clauses, Clause{Kind: ClauseSize, Value: f.AffordableSize})
		extra = true
	}
	if f.EstimatedCommute <= commuteClauseLimit && f.CommuteChange <= 0 {
		s.Clauses = append(s.Clauses, Clause{Kind: ClauseCommute, Value: float64(f.EstimatedCommute)})
		extra = true
	}
	if !extra && s.Highlight != "" {
		s.Clauses = append(s.Clauses, Clause{Kind: ClauseHighlight, Text: s.Highlight})
	}

	if len(s.Clauses) > MaxClauses {
		s.Clauses = s.Clauses[:MaxClauses]
	}
	return s
}
