// Package models defines the core domain entities for polyseek: catalog
// records fetched from Polymarket, the cached catalog snapshot, and the
// classified outcome of a search.
//
// Terminology (matching Polymarket's own naming):
//   - Market: a single yes/no question on Polymarket. This is the unit we match.
//   - Catalog: the full set of open markets visible through the Gamma API.
package models

import "time"

// MarketRecord is an immutable snapshot of one catalog entry. Records are
// built once at parse time with per-field defaulting (missing fields become
// zero values) and are never mutated afterwards; a catalog refresh replaces
// the whole collection.
type MarketRecord struct {
	ID          string    `json:"id"`
	Question    string    `json:"question"`         // Yes/no question text, the match target
	Slug        string    `json:"slug"`             // URL slug on polymarket.com
	YesPrice    float64   `json:"yes_price"`        // Current Yes price (0–1)
	NoPrice     float64   `json:"no_price"`         // Current No price (0–1)
	Volume      float64   `json:"volume"`           // Traded volume in USD
	EndDate     time.Time `json:"end_date"`         // Market close timestamp (zero if unknown)
	Description string    `json:"description,omitempty"`
	Closed      bool      `json:"closed"`
}

// URL returns the public market page URL, or empty when no slug is known.
func (m MarketRecord) URL() string {
	if m.Slug == "" {
		return ""
	}
	return "https://polymarket.com/market/" + m.Slug
}

// CatalogSnapshot is an ordered sequence of market records captured at one
// point in time. A snapshot is either fully populated or absent; callers
// never observe a partially built one.
type CatalogSnapshot struct {
	Records   []MarketRecord `json:"records"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// Age reports how old the snapshot is relative to now.
func (s CatalogSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}
