package analytics

import (
	"context"
	"fmt"

	"github.com/marketlens/marketlens/internal/domain"
)

// Ranking metrics for TopSellers.
const (
	ByProductCount = "product_count"
	BySold         = "sold"
)

// TopSellersParams configures the seller ranking extractor.
type TopSellersParams struct {
	Query
	By   string
	TopK int
}

// SellerRankRecord is one ranked seller on one platform. Rank is 1-based
// within the platform.
type SellerRankRecord struct {
	Rank       int     `json:"rank"`
	SellerName string  `json:"seller_name"`
	Platform   string  `json:"platform"`
	Value      float64 `json:"value"`
}

// TopSellers ranks sellers per platform by listing count or units sold.
func (s *Service) TopSellers(ctx context.Context, p TopSellersParams) (domain.Output, error) {
	rows, meta, err := s.hitSet(ctx, p.Query, s.maxRows)
	if err != nil {
		return domain.Output{}, err
	}
	if len(rows) == 0 {
		return emptyOutput(meta, "no data"), nil
	}

	by := p.By
	if by != BySold {
		by = ByProductCount
	}

	keys, groups := groupRowsPair(rows, func(r domain.Row) (string, string) { return r.Platform, r.SellerName })
	sums := make(map[pairKey]float64, len(keys))
	for _, k := range keys {
		if by == BySold {
			for _, r := range groups[k] {
				sums[k] += r.Sold
			}
		} else {
			sums[k] = float64(len(groups[k]))
		}
	}

	var records []SellerRankRecord
	rank := 0
	lastPlatform := ""
	for _, e := range rankPerPlatform(keys, sums, p.TopK) {
		if e.Platform != lastPlatform {
			rank = 0
			lastPlatform = e.Platform
		}
		rank++
		records = append(records, SellerRankRecord{
			Rank:       rank,
			SellerName: e.Name,
			Platform:   e.Platform,
			Value:      e.Value,
		})
	}

	meta.AppendNote(fmt.Sprintf("top_sellers by=%s over search subset", by))
	return domain.Output{Data: records, Meta: meta}, nil
}
