package search

import (
	"context"

	"github.com/google/uuid"

	"github.com/rmorelli/polyseek/internal/logger"
	"github.com/rmorelli/polyseek/internal/models"
)

// Catalog supplies the market catalog, normally the TTL cache.
type Catalog interface {
	GetCatalog(ctx context.Context) (models.CatalogSnapshot, error)
}

// Searcher runs the discovery pipeline for one raw query: normalize, get
// catalog, match, classify. It holds no mutable state of its own; the
// catalog cache is the only shared resource, so concurrent searches only
// meet there.
type Searcher struct {
	catalog Catalog
	opts    Options
}

// NewSearcher creates a Searcher over the given catalog source.
func NewSearcher(catalog Catalog, opts Options) *Searcher {
	return &Searcher{
		catalog: catalog,
		opts:    opts,
	}
}

// Search classifies the catalog entries best matching rawQuery. A
// *ValidationError is returned before any network access when the query
// fails normalization; catalog errors (*polymarket.RemoteUnavailableError,
// *polymarket.MalformedResponseError) pass through untouched.
func (s *Searcher) Search(ctx context.Context, rawQuery string) (models.Result, error) {
	query, err := Normalize(rawQuery, s.opts.MinQueryLength)
	if err != nil {
		return models.Result{}, err
	}

	searchID := uuid.NewString()[:8]
	logger.Info("[search %s] Query %q", searchID, query)

	snapshot, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		logger.Error("[search %s] Catalog unavailable: %v", searchID, err)
		return models.Result{}, err
	}
	logger.Debug("[search %s] Matching against %d markets", searchID, len(snapshot.Records))

	candidates := Match(query, snapshot, s.opts)
	for i, cand := range candidates {
		if i == 3 {
			break
		}
		logger.Debug("[search %s]   %d. %.60s (score %.1f)", searchID, i+1, cand.Record.Question, cand.Score)
	}

	result := Classify(candidates, query, s.opts)
	logger.Info("[search %s] Outcome: %s (%d candidates)", searchID, result.Kind, len(result.Matches))
	return result, nil
}
