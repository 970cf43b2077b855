package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/marketlens/marketlens/internal/domain"
	"github.com/marketlens/marketlens/internal/textnorm"
)

const (
	// DefaultAlpha weights the lexical score in the blend.
	DefaultAlpha = 0.5
	// DefaultBeta weights the vector score in the blend.
	DefaultBeta = 0.5

	phraseBonus = 0.3
)

// Hit is one scored catalog row. Index refers to the row's original catalog
// position, so embedding lookups stay valid after filtering.
type Hit struct {
	Index int
	Score float64
}

// Filter narrows the candidate row set before scoring. Zero values mean
// "no constraint".
type Filter struct {
	Category   string
	Platforms  []string
	Brand      string
	MinReviews int
}

// Scorer blends lexical token overlap with vector cosine similarity over the
// catalog. Vectors and embedder are optional: without them scoring degrades
// to lexical-only.
type Scorer struct {
	catalog Catalog
	vectors VectorSource
	embed   Embedder
	alpha   float64
	beta    float64
}

// NewScorer creates a hybrid scorer. vectors and embed may be nil.
func NewScorer(catalog Catalog, vectors VectorSource, embed Embedder, alpha, beta float64) *Scorer {
	if alpha == 0 && beta == 0 {
		alpha, beta = DefaultAlpha, DefaultBeta
	}
	return &Scorer{catalog: catalog, vectors: vectors, embed: embed, alpha: alpha, beta: beta}
}

// ScoreAndFilter filters the catalog, scores survivors against the query, and
// returns hits with score > 0 sorted by descending blended score. maxRows > 0
// truncates the result. An empty query yields no hits: lexical scores are
// zero and the query vector is never computed.
func (s *Scorer) ScoreAndFilter(ctx context.Context, query string, f Filter, maxRows int) ([]Hit, error) {
	if s.vectors != nil && s.vectors.Rows() != s.catalog.Len() {
		return nil, fmt.Errorf("%w: matrix has %d rows, catalog has %d",
			domain.ErrEmbeddingMisaligned, s.vectors.Rows(), s.catalog.Len())
	}

	candidates := s.filterRows(f)
	if len(candidates) == 0 || query == "" {
		return nil, nil
	}

	qTokens := textnorm.TokenSet(query)
	qNorm := textnorm.Normalize(query)

	var qVec []float32
	if s.vectors != nil && s.embed != nil {
		result, err := s.embed.Embed(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		qVec = result.Embedding
	}

	hits := make([]Hit, 0, len(candidates))
	for _, i := range candidates {
		lex := lexicalScore(s.catalog.Row(i).ProductName, qTokens, qNorm)
		var vec float64
		if qVec != nil {
			vec = s.vectors.Dot(i, qVec)
		}
		score := s.alpha*lex + s.beta*vec
		if score > 0 {
			hits = append(hits, Hit{Index: i, Score: score})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })

	if maxRows > 0 && len(hits) > maxRows {
		hits = hits[:maxRows]
	}
	return hits, nil
}

// filterRows applies category, platform, min-reviews, and brand constraints
// in order, returning surviving original row indexes.
func (s *Scorer) filterRows(f Filter) []int {
	catLower := strings.ToLower(f.Category)
	brandLower := strings.ToLower(f.Brand)

	platformSet := make(map[string]struct{}, len(f.Platforms))
	for _, p := range f.Platforms {
		platformSet[p] = struct{}{}
	}

	var out []int
	for i := 0; i < s.catalog.Len(); i++ {
		row := s.catalog.Row(i)

		if catLower != "" && !categoryMatches(row, catLower) {
			continue
		}
		if len(platformSet) > 0 {
			if _, ok := platformSet[row.Platform]; !ok {
				continue
			}
		}
		if f.MinReviews > 0 && row.ReviewCount < f.MinReviews {
			continue
		}
		if brandLower != "" && !strings.Contains(strings.ToLower(row.Brand), brandLower) {
			continue
		}
		out = append(out, i)
	}
	return out
}

// categoryMatches accepts a row whose coarse category equals the target or
// whose fine-grained categories field contains it as a substring.
func categoryMatches(row domain.Row, catLower string) bool {
	if strings.ToLower(row.SuperCategory) == catLower {
		return true
	}
	return strings.Contains(strings.ToLower(row.Categories), catLower)
}

// lexicalScore is the Jaccard similarity of the query and name token sets,
// plus a flat bonus when the normalized query appears verbatim in the
// normalized name.
func lexicalScore(name string, qTokens map[string]struct{}, qNorm string) float64 {
	tokens := textnorm.TokenSet(name)
	if len(tokens) == 0 {
		return 0
	}

	overlap := 0
	for t := range qTokens {
		if _, ok := tokens[t]; ok {
			overlap++
		}
	}
	union := len(qTokens) + len(tokens) - overlap

	var jaccard float64
	if union > 0 {
		jaccard = float64(overlap) / float64(union)
	}

	var bonus float64
	if qNorm != "" && strings.Contains(textnorm.Normalize(name), qNorm) {
		bonus = phraseBonus
	}
	return jaccard + bonus
}
