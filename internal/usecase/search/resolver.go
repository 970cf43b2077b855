package search

import (
	"context"
	"fmt"

	"github.com/marketlens/marketlens/internal/domain"
	"github.com/marketlens/marketlens/internal/textnorm"
)

// DefaultResolveMaxRows caps the resolution probe. It is fixed independently
// of the caller's row limit so resolution stays stable across callers.
const DefaultResolveMaxRows = 200

// HintResolver resolves category and brand strictly from the caller's hint,
// validated against the catalog vocabulary. It probes the scorer only to
// learn whether the query has hits at all, never to infer category or brand
// from hit content.
type HintResolver struct {
	catalog  Catalog
	scorer   *Scorer
	probeCap int
}

// NewHintResolver creates a hint-only resolver. probeCap <= 0 uses the
// default probe cap.
func NewHintResolver(catalog Catalog, scorer *Scorer, probeCap int) *HintResolver {
	if probeCap <= 0 {
		probeCap = DefaultResolveMaxRows
	}
	return &HintResolver{catalog: catalog, scorer: scorer, probeCap: probeCap}
}

// Resolve implements Resolver. It always returns a record, degrading to
// unknown category/brand when the hint carries none (or unrecognized) values.
func (r *HintResolver) Resolve(ctx context.Context, query string, hint domain.Hint) (domain.Resolution, error) {
	vocab := r.catalog.Vocabulary()

	platforms := hint.Platforms
	if len(platforms) == 0 {
		platforms = vocab.KnownPlatforms()
	}

	var detectedCategory string
	if vocab.HasCategory(hint.Category) {
		detectedCategory = hint.Category
	}
	var brandGuess string
	if vocab.HasBrand(hint.Brand) {
		brandGuess = hint.Brand
	}

	confidence := 0.1

	// The probe intentionally ignores the category/brand hints: it answers
	// "does this query match anything at all on these platforms".
	probe := Filter{Platforms: platforms, MinReviews: hint.MinReviews}
	hits, err := r.scorer.ScoreAndFilter(ctx, query, probe, r.probeCap)
	if err != nil {
		return domain.Resolution{}, fmt.Errorf("resolve probe: %w", err)
	}

	var parts []string
	if len(hits) > 0 {
		parts = append(parts, "hybrid_search_hits")
		confidence += 0.1
	}
	if hint.Category != "" {
		parts = append(parts, fmt.Sprintf("category_from_hint=%s", hint.Category))
	}
	if hint.Brand != "" {
		parts = append(parts, fmt.Sprintf("brand_from_hint=%s", hint.Brand))
	}
	if len(parts) == 0 {
		parts = append(parts, "no_hits")
	}

	notes := "resolve_product"
	for _, p := range parts {
		notes += "; " + p
	}

	return domain.Resolution{
		DetectedCategory: detectedCategory,
		BrandGuess:       brandGuess,
		QueryTokens:      textnorm.Tokenize(query),
		Platforms:        platforms,
		Confidence:       confidence,
		Notes:            notes,
		Query:            query,
	}, nil
}
