// Package search implements hybrid lexical+vector retrieval over the product
// catalog: filtering, scoring, hint-only query resolution, and the phrase
// search pipeline every analytics call builds on.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/marketlens/marketlens/internal/domain"
	"github.com/marketlens/marketlens/internal/textnorm"
)

// DefaultMaxRows caps a search response when the caller does not say.
const DefaultMaxRows = 50

// oversample is applied before the phrase filter so it does not under-fill
// the final row cap.
const oversample = 3

// Params configures one search call.
type Params struct {
	Query         string
	Hint          domain.Hint
	MinReviews    int
	MaxRows       int
	EnforcePhrase bool
}

// Service orchestrates resolver, scorer, phrase filter, and truncation.
type Service struct {
	catalog  Catalog
	scorer   *Scorer
	resolver Resolver
	clock    func() time.Time
	logger   *zap.Logger
}

// New creates a search service.
func New(catalog Catalog, scorer *Scorer, resolver Resolver, logger *zap.Logger) *Service {
	return &Service{
		catalog:  catalog,
		scorer:   scorer,
		resolver: resolver,
		clock:    time.Now,
		logger:   logger,
	}
}

// WithClock overrides the timestamp source. Used by tests that compare
// serialized outputs byte for byte.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// Resolve runs the query resolver alone and returns its record as an output
// envelope.
func (s *Service) Resolve(ctx context.Context, query string, hint domain.Hint) (domain.Output, error) {
	res, err := s.resolver.Resolve(ctx, query, hint)
	if err != nil {
		return domain.Output{}, fmt.Errorf("resolve %q: %w", query, err)
	}

	meta := domain.Meta{
		ProductQuery:     query,
		DetectedCategory: domain.OptString(res.DetectedCategory),
		BrandGuess:       domain.OptString(res.BrandGuess),
		Confidence:       res.Confidence,
		Filters: domain.Filters{
			Platforms:  res.Platforms,
			Brand:      domain.OptString(res.BrandGuess),
			MinReviews: hint.MinReviews,
		},
		Notes:       res.Notes,
		TSGenerated: s.timestamp(),
	}
	return domain.Output{Data: res.Data(), Meta: meta}, nil
}

// Search runs the full phrase-search pipeline and returns matching rows.
func (s *Service) Search(ctx context.Context, p Params) (domain.Output, error) {
	rows, meta, err := s.HitSet(ctx, p)
	if err != nil {
		return domain.Output{}, err
	}
	if rows == nil {
		rows = []domain.Row{}
	}
	return domain.Output{Data: rows, Meta: meta}, nil
}

// HitSet resolves the query, scores and filters the catalog, optionally
// enforces the literal phrase, and truncates to the row cap. An empty hit
// set is valid output, not an error. Analytics extractors consume this
// directly so they all share one pipeline.
func (s *Service) HitSet(ctx context.Context, p Params) ([]domain.Row, domain.Meta, error) {
	hint := p.Hint.WithMinReviews(p.MinReviews)

	res, err := s.resolver.Resolve(ctx, p.Query, hint)
	if err != nil {
		return nil, domain.Meta{}, fmt.Errorf("resolve %q: %w", p.Query, err)
	}

	platforms := res.Platforms
	if len(hint.Platforms) > 0 {
		platforms = hint.Platforms
	}

	maxRows := p.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	filter := Filter{
		Category:   res.DetectedCategory,
		Platforms:  platforms,
		Brand:      res.BrandGuess,
		MinReviews: hint.MinReviews,
	}
	hits, err := s.scorer.ScoreAndFilter(ctx, p.Query, filter, maxRows*oversample)
	if err != nil {
		return nil, domain.Meta{}, fmt.Errorf("score %q: %w", p.Query, err)
	}

	if p.EnforcePhrase && p.Query != "" {
		qNorm := textnorm.Normalize(p.Query)
		kept := hits[:0]
		for _, h := range hits {
			if strings.Contains(textnorm.Normalize(s.catalog.Row(h.Index).ProductName), qNorm) {
				kept = append(kept, h)
			}
		}
		hits = kept
	}

	if len(hits) > maxRows {
		hits = hits[:maxRows]
	}

	rows := make([]domain.Row, len(hits))
	for i, h := range hits {
		rows[i] = s.catalog.Row(h.Index)
	}

	meta := domain.Meta{
		ProductQuery:     p.Query,
		DetectedCategory: domain.OptString(res.DetectedCategory),
		BrandGuess:       domain.OptString(res.BrandGuess),
		Confidence:       res.Confidence,
		Filters: domain.Filters{
			Platforms:  platforms,
			Brand:      domain.OptString(res.BrandGuess),
			MinReviews: hint.MinReviews,
		},
		Notes:       res.Notes + fmt.Sprintf("; hybrid_search + phrase_filter=%t", p.EnforcePhrase),
		TSGenerated: s.timestamp(),
	}
	return rows, meta, nil
}

func (s *Service) timestamp() string {
	return s.clock().UTC().Format(time.RFC3339Nano)
}
