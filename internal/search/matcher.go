package search

import (
	"sort"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/rmorelli/polyseek/internal/models"
)

// Options holds the matching and classification thresholds. Threshold values
// are tuning knobs, not invariants; see config for the corresponding keys.
type Options struct {
	ScoreFloor     float64 // minimum score for a candidate to count at all
	HighConfidence float64 // score above which a lone leader is trusted
	MaxCandidates  int     // cap on returned candidates
	MinQueryLength int     // minimum normalized query length in runes
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		ScoreFloor:     60,
		HighConfidence: 85,
		MaxCandidates:  5,
		MinQueryLength: 3,
	}
}

// Match scores every catalog record against a normalized query and returns
// the candidates at or above the score floor, descending by score, at most
// MaxCandidates of them. Ties keep catalog order.
//
// Scoring is the larger of token-set and token-sort similarity. Both
// decompose the strings into word sets, so they are invariant to word order
// and reward partial keyword containment; market questions are long and
// phrased variably, and near-exact string equality would be the wrong test.
func Match(query string, snapshot models.CatalogSnapshot, opts Options) []models.MatchCandidate {
	if query == "" || len(snapshot.Records) == 0 {
		return nil
	}

	var candidates []models.MatchCandidate
	for _, record := range snapshot.Records {
		question := normalizeText(record.Question)
		if question == "" {
			continue
		}
		score := similarity(query, question)
		if score >= opts.ScoreFloor {
			candidates = append(candidates, models.MatchCandidate{
				Record: record,
				Score:  score,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if opts.MaxCandidates > 0 && len(candidates) > opts.MaxCandidates {
		candidates = candidates[:opts.MaxCandidates]
	}
	return candidates
}

// similarity scores two normalized strings on the 0–100 fuzzywuzzy scale.
func similarity(a, b string) float64 {
	setScore := fuzzy.TokenSetRatio(a, b)
	sortScore := fuzzy.TokenSortRatio(a, b)
	if sortScore > setScore {
		return float64(sortScore)
	}
	return float64(setScore)
}
