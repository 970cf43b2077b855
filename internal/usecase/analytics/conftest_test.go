package analytics

import (
	"context"
	"strings"

	"github.com/marketlens/marketlens/internal/domain"
	"github.com/marketlens/marketlens/internal/textnorm"
	"github.com/marketlens/marketlens/internal/usecase/search"
)

// stubSearcher serves a fixed row set, applying only the platform, review,
// and phrase constraints. The real pipeline is covered by the search package
// tests; here it stays deterministic and cheap.
type stubSearcher struct {
	rows []domain.Row
	err  error
}

func (s *stubSearcher) HitSet(_ context.Context, p search.Params) ([]domain.Row, domain.Meta, error) {
	if s.err != nil {
		return nil, domain.Meta{}, s.err
	}

	platformSet := make(map[string]struct{})
	for _, pl := range p.Hint.Platforms {
		platformSet[pl] = struct{}{}
	}
	qNorm := textnorm.Normalize(p.Query)

	var hits []domain.Row
	for _, r := range s.rows {
		if len(platformSet) > 0 {
			if _, ok := platformSet[r.Platform]; !ok {
				continue
			}
		}
		if p.Hint.Brand != "" && r.Brand != p.Hint.Brand {
			continue
		}
		if p.Hint.MinReviews > 0 && r.ReviewCount < p.Hint.MinReviews {
			continue
		}
		if qNorm != "" && !strings.Contains(textnorm.Normalize(r.ProductName), qNorm) {
			continue
		}
		hits = append(hits, r)
	}
	if p.MaxRows > 0 && len(hits) > p.MaxRows {
		hits = hits[:p.MaxRows]
	}

	meta := domain.Meta{
		ProductQuery: p.Query,
		Confidence:   0.2,
		Filters:      domain.Filters{Platforms: p.Hint.Platforms, MinReviews: p.Hint.MinReviews},
		Notes:        "stub",
		TSGenerated:  "2025-06-01T12:00:00Z",
	}
	return hits, meta, nil
}

func newTestService(rows []domain.Row) *Service {
	return New(&stubSearcher{rows: rows}, 0, nil)
}

// earbudRows spans two platforms with known prices, ratings, and sellers.
func earbudRows() []domain.Row {
	return []domain.Row{
		{SKU: "a1", ProductName: "wireless earbuds pro", Platform: "Shopee", SuperCategory: "Audio", Categories: "True Wireless", Brand: "Soundcore", Price: 100, Sold: 50, Rating: 4.5, HasRating: true, ReviewCount: 120, SellerName: "AudioKing"},
		{SKU: "a2", ProductName: "wireless earbuds mini", Platform: "Shopee", SuperCategory: "Audio", Categories: "True Wireless", Brand: "Soundcore", Price: 200, Sold: 30, Rating: 4.0, HasRating: true, ReviewCount: 80, SellerName: "AudioKing"},
		{SKU: "a3", ProductName: "wireless earbuds sport", Platform: "Shopee", SuperCategory: "Audio", Categories: "Sport Headphones", Brand: "JBL", Price: 300, Sold: 20, Rating: 3.5, HasRating: true, ReviewCount: 40, SellerName: "SportGear"},
		{SKU: "b1", ProductName: "wireless earbuds basic", Platform: "Lazada", SuperCategory: "Audio", Categories: "True Wireless", Brand: "Generic", Price: 10, Sold: 500, Rating: 3.0, HasRating: true, ReviewCount: 300, SellerName: "BudgetShop"},
		{SKU: "b2", ProductName: "wireless earbuds lite", Platform: "Lazada", SuperCategory: "Audio", Categories: "True Wireless", Brand: "Generic", Price: 20, Sold: 100, ReviewCount: 10, SellerName: "BudgetShop"},
	}
}
