package analytics

import (
	"context"
	"fmt"

	"github.com/marketlens/marketlens/internal/domain"
)

// Default quantile bounds for PriceRangeByCategory.
const (
	DefaultQuantileLow  = 0.1
	DefaultQuantileHigh = 0.9
)

// PriceRangeParams configures the per-category price range extractor. Brand
// narrows the search; QLow/QHigh override the reported quantiles.
type PriceRangeParams struct {
	Query
	Brand string
	QLow  float64
	QHigh float64
}

// PriceRangeRecord is one platform+category price spread.
type PriceRangeRecord struct {
	Platform    string  `json:"platform"`
	Categories  string  `json:"categories"`
	MinPrice    float64 `json:"min_price"`
	QLow        float64 `json:"q_low"`
	MedianPrice float64 `json:"median_price"`
	QHigh       float64 `json:"q_high"`
	MaxPrice    float64 `json:"max_price"`
	Count       int     `json:"count"`
}

// PriceRangeByCategory summarizes price spreads per platform and fine-grained
// category.
func (s *Service) PriceRangeByCategory(ctx context.Context, p PriceRangeParams) (domain.Output, error) {
	qLow, qHigh := p.QLow, p.QHigh
	if qLow == 0 && qHigh == 0 {
		qLow, qHigh = DefaultQuantileLow, DefaultQuantileHigh
	}
	if qLow < 0 || qHigh > 1 || qLow > qHigh {
		return domain.Output{}, fmt.Errorf("%w: quantiles must satisfy 0 <= q_low <= q_high <= 1", domain.ErrInvalidRequest)
	}

	p.Query.Hint = p.Query.Hint.WithBrand(p.Brand)

	rows, meta, err := s.hitSet(ctx, p.Query, s.maxRows)
	if err != nil {
		return domain.Output{}, err
	}
	if len(rows) == 0 {
		return emptyOutput(meta, "no data"), nil
	}

	var records []PriceRangeRecord
	keys, groups := groupRowsPair(rows, func(r domain.Row) (string, string) { return r.Platform, r.Categories })
	for _, k := range keys {
		prices := make([]float64, 0, len(groups[k]))
		for _, r := range groups[k] {
			prices = append(prices, r.Price)
		}
		if len(prices) == 0 {
			continue
		}
		lo, hi := minMax(prices)
		records = append(records, PriceRangeRecord{
			Platform:    k.First,
			Categories:  k.Second,
			MinPrice:    lo,
			QLow:        quantile(prices, qLow),
			MedianPrice: median(prices),
			QHigh:       quantile(prices, qHigh),
			MaxPrice:    hi,
			Count:       len(prices),
		})
	}

	meta.AppendNote("price_range_by_category over search subset")
	return domain.Output{Data: records, Meta: meta}, nil
}
