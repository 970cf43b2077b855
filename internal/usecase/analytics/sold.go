package analytics

import (
	"context"
	"fmt"

	"github.com/marketlens/marketlens/internal/domain"
)

// DefaultSoldBinEdges is the fixed bucket scheme for units-sold histograms.
var DefaultSoldBinEdges = []float64{0, 10, 50, 100, 500, 1000, 5000, 10000}

// SoldDistributionParams configures the sold histogram extractor. BinCount
// > 0 requests equal-width bins over the observed range instead of explicit
// edges; otherwise BinEdges (or the default scheme) applies.
type SoldDistributionParams struct {
	Query
	BinEdges []float64
	BinCount int
}

// SoldBucket is one non-empty bucket of a platform's sold histogram. Pct is
// the bucket's share of that platform's total hit count, including hits that
// fell outside the edge range.
type SoldBucket struct {
	Platform string  `json:"platform"`
	BinLeft  float64 `json:"bin_left"`
	BinRight float64 `json:"bin_right"`
	Count    int     `json:"count"`
	Pct      float64 `json:"pct"`
}

// SoldDistribution buckets units sold per platform.
func (s *Service) SoldDistribution(ctx context.Context, p SoldDistributionParams) (domain.Output, error) {
	if len(p.BinEdges) == 1 {
		return domain.Output{}, fmt.Errorf("%w: bin_edges needs at least two edges", domain.ErrInvalidRequest)
	}

	rows, meta, err := s.hitSet(ctx, p.Query, s.maxRows)
	if err != nil {
		return domain.Output{}, err
	}
	if len(rows) == 0 {
		return emptyOutput(meta, "no sold data"), nil
	}

	var edges []float64
	switch {
	case p.BinCount > 0:
		all := make([]float64, 0, len(rows))
		for _, r := range rows {
			all = append(all, r.Sold)
		}
		lo, hi := minMax(all)
		edges = linspace(lo, hi, p.BinCount)
	case len(p.BinEdges) > 0:
		edges = p.BinEdges
	default:
		edges = DefaultSoldBinEdges
	}

	var records []SoldBucket
	platforms, groups := groupRows(rows, func(r domain.Row) string { return r.Platform })
	for _, platform := range platforms {
		group := groups[platform]
		values := make([]float64, 0, len(group))
		for _, r := range group {
			values = append(values, r.Sold)
		}
		counts := histogram(values, edges)
		for i, c := range counts {
			if c == 0 {
				continue
			}
			records = append(records, SoldBucket{
				Platform: platform,
				BinLeft:  edges[i],
				BinRight: edges[i+1],
				Count:    c,
				Pct:      float64(c) / float64(len(values)),
			})
		}
	}

	meta.AppendNote("sold_distribution over search subset")
	meta.BinEdges = edges
	if records == nil {
		records = []SoldBucket{}
	}
	return domain.Output{Data: records, Meta: meta}, nil
}
