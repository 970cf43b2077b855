// Package analytics computes market aggregates over search hit sets: price
// and rating distributions, brand and seller rankings, diversity, and ROI.
// Every extractor shares one pipeline stage that resolves the hit set, so
// they differ only in their post-processing.
package analytics

import (
	"context"

	"go.uber.org/zap"

	"github.com/marketlens/marketlens/internal/domain"
	"github.com/marketlens/marketlens/internal/usecase/search"
)

const (
	// DefaultMaxRows caps the hit set feeding most extractors.
	DefaultMaxRows = 2000
	// priceStatsMaxRows is the tighter cap used by price stats.
	priceStatsMaxRows = 500
)

// Searcher resolves a query into a hit set with metadata.
type Searcher interface {
	HitSet(ctx context.Context, p search.Params) ([]domain.Row, domain.Meta, error)
}

// Query carries the parameters every extractor shares.
type Query struct {
	Query      string
	Platforms  []string
	MinReviews int
	Hint       domain.Hint
}

// Service runs analytics extractors over search hit sets.
type Service struct {
	searcher Searcher
	maxRows  int
	logger   *zap.Logger
}

// New creates an analytics service. maxRows <= 0 uses the default hit-set cap.
func New(searcher Searcher, maxRows int, logger *zap.Logger) *Service {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Service{searcher: searcher, maxRows: maxRows, logger: logger}
}

// hitSet is the shared pipeline stage: fold the extractor's own platform and
// review constraints into the hint, then run the phrase search.
func (s *Service) hitSet(ctx context.Context, q Query, maxRows int) ([]domain.Row, domain.Meta, error) {
	hint := q.Hint.WithPlatforms(q.Platforms).WithMinReviews(q.MinReviews)
	return s.searcher.HitSet(ctx, search.Params{
		Query:         q.Query,
		Hint:          hint,
		MinReviews:    q.MinReviews,
		MaxRows:       maxRows,
		EnforcePhrase: true,
	})
}

// emptyOutput is the well-formed response for a hit set with nothing in it.
func emptyOutput(meta domain.Meta, note string) domain.Output {
	meta.AppendNote(note)
	return domain.Output{Data: []any{}, Meta: meta}
}
