package analytics

import (
	"context"

	"github.com/marketlens/marketlens/internal/domain"
)

// PriceStatsParams configures the price stats extractor.
type PriceStatsParams struct {
	Query
	ByPlatform bool
}

// PriceStatsRecord is one price summary, optionally per platform.
type PriceStatsRecord struct {
	MinPrice    float64 `json:"min_price"`
	Q10         float64 `json:"q10"`
	MedianPrice float64 `json:"median_price"`
	MeanPrice   float64 `json:"mean_price"`
	Q90         float64 `json:"q90"`
	MaxPrice    float64 `json:"max_price"`
	StdPrice    float64 `json:"std_price"`
	Count       int     `json:"count"`
	Platform    string  `json:"platform,omitempty"`
}

// PriceStats summarizes prices over the hit set, grouped by platform when
// requested. An empty hit set yields empty data, never an error.
func (s *Service) PriceStats(ctx context.Context, p PriceStatsParams) (domain.Output, error) {
	rows, meta, err := s.hitSet(ctx, p.Query, priceStatsMaxRows)
	if err != nil {
		return domain.Output{}, err
	}
	if len(rows) == 0 {
		return emptyOutput(meta, "no data"), nil
	}

	var data []PriceStatsRecord
	if p.ByPlatform {
		platforms, groups := groupRows(rows, func(r domain.Row) string { return r.Platform })
		for _, platform := range platforms {
			rec := priceSummary(groups[platform])
			rec.Platform = platform
			data = append(data, rec)
		}
	} else {
		data = append(data, priceSummary(rows))
	}

	meta.AppendNote("price_stats over search subset")
	return domain.Output{Data: data, Meta: meta}, nil
}

func priceSummary(rows []domain.Row) PriceStatsRecord {
	prices := make([]float64, 0, len(rows))
	for _, r := range rows {
		prices = append(prices, r.Price)
	}
	if len(prices) == 0 {
		return PriceStatsRecord{}
	}
	lo, hi := minMax(prices)
	return PriceStatsRecord{
		MinPrice:    lo,
		Q10:         quantile(prices, 0.1),
		MedianPrice: median(prices),
		MeanPrice:   mean(prices),
		Q90:         quantile(prices, 0.9),
		MaxPrice:    hi,
		StdPrice:    sampleStddev(prices),
		Count:       len(prices),
	}
}
