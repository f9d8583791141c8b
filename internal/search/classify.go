package search

import "github.com/rmorelli/polyseek/internal/models"

// highConfidenceMargin is how close a runner-up may sit to a high-confidence
// leader before the result becomes a disambiguation list instead.
const highConfidenceMargin = 5.0

// Classify applies the threshold policy to a ranked candidate list. In order:
// an empty list is None; a lone candidate, or a leader above the
// high-confidence threshold with no runner-up within the margin, is Single;
// everything else is a Multiple list of 2..MaxCandidates entries.
//
// A very high score is trusted as unambiguous even among weaker candidates,
// while a cluster of medium-confidence scores is presented for
// disambiguation rather than guessed at.
func Classify(candidates []models.MatchCandidate, query string, opts Options) models.Result {
	if len(candidates) == 0 {
		return models.Result{Kind: models.ResultNone, Query: query}
	}

	if len(candidates) == 1 {
		return models.Result{
			Kind:    models.ResultSingle,
			Query:   query,
			Matches: candidates[:1],
		}
	}

	top, runnerUp := candidates[0], candidates[1]
	if top.Score > opts.HighConfidence && top.Score-runnerUp.Score >= highConfidenceMargin {
		return models.Result{
			Kind:    models.ResultSingle,
			Query:   query,
			Matches: candidates[:1],
		}
	}

	if opts.MaxCandidates > 0 && len(candidates) > opts.MaxCandidates {
		candidates = candidates[:opts.MaxCandidates]
	}
	return models.Result{
		Kind:    models.ResultMultiple,
		Query:   query,
		Matches: candidates,
	}
}
