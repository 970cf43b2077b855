package analytics

import (
	"context"
	"fmt"
	"math"

	"github.com/marketlens/marketlens/internal/domain"
)

// Grouping choices for ROITable.
const (
	GroupByPlatform = "platform"
	GroupByBrand    = "brand"
	GroupBySeller   = "seller"
)

// ROIParams configures the ROI table extractor.
type ROIParams struct {
	Query
	GroupBy string
}

// ROIRecord is one group's sold-per-price summary.
type ROIRecord struct {
	Group     string  `json:"group"`
	ROIMean   float64 `json:"roi_mean"`
	ROIMedian float64 `json:"roi_median"`
	Count     int     `json:"count"`
}

// ROITable computes mean/median sold-per-price ratios per platform, brand,
// or seller. Rows with zero price, or whose ratio is not finite, are
// excluded rather than poisoning the aggregate.
func (s *Service) ROITable(ctx context.Context, p ROIParams) (domain.Output, error) {
	rows, meta, err := s.hitSet(ctx, p.Query, s.maxRows)
	if err != nil {
		return domain.Output{}, err
	}
	if len(rows) == 0 {
		return emptyOutput(meta, "no data"), nil
	}

	groupBy := p.GroupBy
	var key func(domain.Row) string
	switch groupBy {
	case GroupBySeller:
		key = func(r domain.Row) string { return r.SellerName }
	case GroupByBrand:
		key = func(r domain.Row) string { return r.Brand }
	default:
		groupBy = GroupByPlatform
		key = func(r domain.Row) string { return r.Platform }
	}

	names, groups := groupRows(rows, key)
	var records []ROIRecord
	for _, name := range names {
		var ratios []float64
		for _, r := range groups[name] {
			if r.Price == 0 {
				continue
			}
			roi := r.Sold / r.Price
			if math.IsNaN(roi) || math.IsInf(roi, 0) {
				continue
			}
			ratios = append(ratios, roi)
		}
		if len(ratios) == 0 {
			continue
		}
		records = append(records, ROIRecord{
			Group:     name,
			ROIMean:   mean(ratios),
			ROIMedian: median(ratios),
			Count:     len(ratios),
		})
	}

	meta.AppendNote(fmt.Sprintf("roi_table group_by=%s over search subset", groupBy))
	if records == nil {
		records = []ROIRecord{}
	}
	return domain.Output{Data: records, Meta: meta}, nil
}
