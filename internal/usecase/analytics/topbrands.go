package analytics

import (
	"context"
	"fmt"

	"github.com/marketlens/marketlens/internal/domain"
)

// TopBrandsParams configures the brand ranking extractor. By is "sold" or
// "revenue_est" (the default).
type TopBrandsParams struct {
	Query
	By   string
	TopK int
}

// BrandRankRecord is one ranked brand on one platform.
type BrandRankRecord struct {
	Rank     int     `json:"rank"`
	Brand    string  `json:"brand"`
	Platform string  `json:"platform"`
	Value    float64 `json:"value"`
}

// TopBrands ranks brands per platform by units sold or estimated revenue.
func (s *Service) TopBrands(ctx context.Context, p TopBrandsParams) (domain.Output, error) {
	rows, meta, err := s.hitSet(ctx, p.Query, s.maxRows)
	if err != nil {
		return domain.Output{}, err
	}
	if len(rows) == 0 {
		return emptyOutput(meta, "no data"), nil
	}

	by := p.By
	if by != BySold {
		by = MetricRevenueEst
	}

	keys, groups := groupRowsPair(rows, func(r domain.Row) (string, string) { return r.Platform, r.Brand })
	sums := make(map[pairKey]float64, len(keys))
	for _, k := range keys {
		for _, r := range groups[k] {
			if by == BySold {
				sums[k] += r.Sold
			} else {
				sums[k] += r.Price * r.Sold
			}
		}
	}

	var records []BrandRankRecord
	rank := 0
	lastPlatform := ""
	for _, e := range rankPerPlatform(keys, sums, p.TopK) {
		if e.Platform != lastPlatform {
			rank = 0
			lastPlatform = e.Platform
		}
		rank++
		records = append(records, BrandRankRecord{
			Rank:     rank,
			Brand:    e.Name,
			Platform: e.Platform,
			Value:    e.Value,
		})
	}

	meta.AppendNote(fmt.Sprintf("top_brands by=%s over search subset", by))
	return domain.Output{Data: records, Meta: meta}, nil
}
