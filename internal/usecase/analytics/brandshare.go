package analytics

import (
	"context"
	"fmt"

	"github.com/marketlens/marketlens/internal/domain"
)

// Metrics for BrandShare.
const (
	MetricSKU        = "sku"
	MetricRevenueEst = "revenue_est"
)

// BrandShareParams configures the brand share extractor. Metric "sku" counts
// listings; "revenue_est" sums price×sold. Normalize adds each brand's
// percent of its platform total.
type BrandShareParams struct {
	Query
	Metric    string
	Normalize bool
}

// BrandShareRecord is one brand's share on one platform. SharePct is null
// when normalization is off or the platform total is zero.
type BrandShareRecord struct {
	Platform string   `json:"platform"`
	Brand    string   `json:"brand"`
	Value    float64  `json:"value"`
	SharePct *float64 `json:"share_pct"`
}

// BrandShare aggregates the chosen metric per platform and brand.
func (s *Service) BrandShare(ctx context.Context, p BrandShareParams) (domain.Output, error) {
	rows, meta, err := s.hitSet(ctx, p.Query, s.maxRows)
	if err != nil {
		return domain.Output{}, err
	}
	if len(rows) == 0 {
		return emptyOutput(meta, "no data"), nil
	}

	metric := p.Metric
	if metric != MetricRevenueEst {
		metric = MetricSKU
	}
	value := func(r domain.Row) float64 {
		if metric == MetricRevenueEst {
			return r.Price * r.Sold
		}
		return 1
	}

	keys, groups := groupRowsPair(rows, func(r domain.Row) (string, string) { return r.Platform, r.Brand })

	totals := make(map[string]float64)
	sums := make(map[pairKey]float64)
	for _, k := range keys {
		var sum float64
		for _, r := range groups[k] {
			sum += value(r)
		}
		sums[k] = sum
		totals[k.First] += sum
	}

	records := make([]BrandShareRecord, 0, len(keys))
	for _, k := range keys {
		rec := BrandShareRecord{Platform: k.First, Brand: k.Second, Value: sums[k]}
		if p.Normalize && totals[k.First] > 0 {
			pct := sums[k] / totals[k.First] * 100
			rec.SharePct = &pct
		}
		records = append(records, rec)
	}

	meta.AppendNote(fmt.Sprintf("brand_share metric=%s over search subset", metric))
	return domain.Output{Data: records, Meta: meta}, nil
}
