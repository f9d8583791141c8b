package models

// MatchCandidate pairs a catalog record with its similarity score against a
// query. Scores are on the fuzzywuzzy 0–100 scale. Candidates are produced
// per query and not retained.
type MatchCandidate struct {
	Record MarketRecord `json:"record"`
	Score  float64      `json:"score"`
}

// ResultKind discriminates the shape of a classified search outcome.
type ResultKind int

const (
	// ResultNone means no candidate reached the score floor.
	ResultNone ResultKind = iota
	// ResultSingle means one candidate is trusted without disambiguation.
	ResultSingle
	// ResultMultiple means 2..max candidates need caller-side disambiguation.
	ResultMultiple
)

// String returns the kind name for logging.
func (k ResultKind) String() string {
	switch k {
	case ResultSingle:
		return "single"
	case ResultMultiple:
		return "multiple"
	default:
		return "none"
	}
}

// Result is the classified outcome of one search. Matches holds exactly one
// candidate for ResultSingle, 2..max in descending score order for
// ResultMultiple, and is empty for ResultNone. Query is the normalized query
// the classification was made against.
type Result struct {
	Kind    ResultKind       `json:"kind"`
	Query   string           `json:"query"`
	Matches []MatchCandidate `json:"matches,omitempty"`
}

// Top returns the highest-scoring candidate, or false when there is none.
func (r Result) Top() (MatchCandidate, bool) {
	if len(r.Matches) == 0 {
		return MatchCandidate{}, false
	}
	return r.Matches[0], true
}
