package analytics

import (
	"context"
	"math"

	"github.com/marketlens/marketlens/internal/domain"
)

// DefaultMinProducts excludes sellers with too few listings from the
// diversity index.
const DefaultMinProducts = 5

// entropyEpsilon keeps the logarithm defined at zero probability.
const entropyEpsilon = 1e-12

// SellerDiversityParams configures the seller diversity extractor.
type SellerDiversityParams struct {
	Query
	MinProducts int
}

// SellerDiversityRecord is one seller's catalog breadth on one platform.
type SellerDiversityRecord struct {
	SellerName       string  `json:"seller_name"`
	Platform         string  `json:"platform"`
	ProductCount     int     `json:"product_count"`
	UniqueCategories int     `json:"unique_categories"`
	DiversityIndex   float64 `json:"diversity_index"`
}

// SellerDiversity computes the Shannon entropy of each seller's category
// distribution. The index is never negative and is exactly zero when all of
// a seller's listings share one category.
func (s *Service) SellerDiversity(ctx context.Context, p SellerDiversityParams) (domain.Output, error) {
	rows, meta, err := s.hitSet(ctx, p.Query, s.maxRows)
	if err != nil {
		return domain.Output{}, err
	}
	if len(rows) == 0 {
		return emptyOutput(meta, "no data"), nil
	}

	minProducts := p.MinProducts
	if minProducts <= 0 {
		minProducts = DefaultMinProducts
	}

	var records []SellerDiversityRecord
	keys, groups := groupRowsPair(rows, func(r domain.Row) (string, string) { return r.Platform, r.SellerName })
	for _, k := range keys {
		group := groups[k]
		if len(group) < minProducts {
			continue
		}

		catCounts := make(map[string]int)
		for _, r := range group {
			catCounts[r.SuperCategory]++
		}

		total := float64(len(group))
		var index float64
		for _, c := range catCounts {
			prob := float64(c) / total
			index -= prob * math.Log(prob+entropyEpsilon)
		}
		if index < 0 {
			index = 0
		}

		records = append(records, SellerDiversityRecord{
			SellerName:       k.Second,
			Platform:         k.First,
			ProductCount:     len(group),
			UniqueCategories: len(catCounts),
			DiversityIndex:   index,
		})
	}

	meta.AppendNote("seller_diversity over search subset")
	if records == nil {
		records = []SellerDiversityRecord{}
	}
	return domain.Output{Data: records, Meta: meta}, nil
}
