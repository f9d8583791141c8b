// Package search implements the market discovery pipeline: query
// normalization, fuzzy matching over the cached catalog, and threshold
// classification of the candidate set into a single match, a disambiguation
// list, or no match.
package search

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidationReason says why a raw query was rejected before any network
// access. The caller renders the user-facing hint; the pipeline only signals
// the kind.
type ValidationReason int

const (
	// ReasonEmpty means the raw input was empty or all whitespace.
	ReasonEmpty ValidationReason = iota
	// ReasonTooShort means the normalized query fell below the minimum length.
	ReasonTooShort
)

func (r ValidationReason) String() string {
	switch r {
	case ReasonTooShort:
		return "too short"
	default:
		return "empty"
	}
}

// ValidationError reports a rejected query. Always recoverable: the user
// resubmits a longer query.
type ValidationError struct {
	Reason    ValidationReason
	MinLength int
}

func (e *ValidationError) Error() string {
	if e.Reason == ReasonTooShort {
		return fmt.Sprintf("query too short: need at least %d characters", e.MinLength)
	}
	return "query is empty"
}

// Normalize canonicalizes a raw query: trim, lowercase, strip everything that
// is neither letter, digit, nor whitespace (Unicode-aware, so non-ASCII
// letters survive), and collapse whitespace runs to single spaces. The result
// must be at least minLength runes long. Normalization is idempotent.
func Normalize(raw string, minLength int) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &ValidationError{Reason: ReasonEmpty, MinLength: minLength}
	}

	normalized := normalizeText(raw)
	if utf8.RuneCountInString(normalized) < minLength {
		return "", &ValidationError{Reason: ReasonTooShort, MinLength: minLength}
	}
	return normalized, nil
}

// normalizeText is the shared canonical form used for both queries and
// catalog question text, so the two sides are always compared like for like.
func normalizeText(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
