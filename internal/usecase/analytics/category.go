package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/marketlens/marketlens/internal/domain"
)

// Category field selectors for CategoryCounts.
const (
	FieldCategories    = "categories"
	FieldSuperCategory = "super_category"
)

// CategoryCountsParams configures the category count extractor. Field picks
// the coarse or fine category column; TopK > 0 keeps only the most frequent
// values.
type CategoryCountsParams struct {
	Query
	Field string
	TopK  int
}

// CategoryCountRecord is one category with its listing count.
type CategoryCountRecord struct {
	Category     string `json:"category"`
	ProductCount int    `json:"product_count"`
}

// CategoryCounts returns value counts of the chosen category field over the
// hit set, most frequent first.
func (s *Service) CategoryCounts(ctx context.Context, p CategoryCountsParams) (domain.Output, error) {
	field := p.Field
	if field == "" {
		field = FieldCategories
	}
	var key func(domain.Row) string
	switch field {
	case FieldCategories:
		key = func(r domain.Row) string { return r.Categories }
	case FieldSuperCategory:
		key = func(r domain.Row) string { return r.SuperCategory }
	default:
		return domain.Output{}, fmt.Errorf("%w: unknown category field %q", domain.ErrInvalidRequest, field)
	}

	rows, meta, err := s.hitSet(ctx, p.Query, s.maxRows)
	if err != nil {
		return domain.Output{}, err
	}
	if len(rows) == 0 {
		return emptyOutput(meta, "no data"), nil
	}

	names, groups := groupRows(rows, key)
	records := make([]CategoryCountRecord, 0, len(names))
	for _, name := range names {
		records = append(records, CategoryCountRecord{Category: name, ProductCount: len(groups[name])})
	}
	// Most frequent first; names already ascending for equal counts.
	sort.SliceStable(records, func(i, j int) bool { return records[i].ProductCount > records[j].ProductCount })

	if p.TopK > 0 && len(records) > p.TopK {
		records = records[:p.TopK]
	}

	meta.AppendNote(fmt.Sprintf("category_counts field=%s over search subset", field))
	return domain.Output{Data: records, Meta: meta}, nil
}
