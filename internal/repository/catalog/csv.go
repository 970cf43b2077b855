package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/marketlens/marketlens/internal/domain"
)

// readCSV parses a catalog CSV file. Returns the rows and a keep-mask over
// the raw data rows (false marks repeated header lines that scrapers leave in
// concatenated exports); the embedding matrix must be filtered by the same
// mask to preserve alignment.
func readCSV(path string) ([]domain.Row, []bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"product_name", "platform"} {
		if _, ok := idx[required]; !ok {
			return nil, nil, fmt.Errorf("catalog csv missing column %q", required)
		}
	}

	var rows []domain.Row
	var keep []bool
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv record: %w", err)
		}
		field := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		// Repeated header row from concatenated exports.
		if field("product_name") == "product_name" {
			keep = append(keep, false)
			continue
		}
		keep = append(keep, true)
		rows = append(rows, coerceRow(
			field("sku"), field("product_name"), field("platform"),
			field("super_category"), field("categories"), field("brand"),
			field("price"), field("sold"), field("rating"), field("review_count"),
			field("seller_name"), field("url"),
		))
	}
	return rows, keep, nil
}

// coerceRow applies the lenient numeric coercion shared by all catalog
// readers: unparseable price/sold/review_count become 0, unparseable rating
// is marked absent.
func coerceRow(sku, name, platform, super, categories, brand,
	price, sold, rating, reviews, seller, url string) domain.Row {

	row := domain.Row{
		SKU:           sku,
		ProductName:   name,
		Platform:      platform,
		SuperCategory: super,
		Categories:    categories,
		Brand:         brand,
		SellerName:    seller,
		URL:           url,
	}
	row.Price = parseFloatOrZero(price)
	if row.Price < 0 {
		row.Price = 0
	}
	row.Sold = parseFloatOrZero(sold)
	if row.Sold < 0 {
		row.Sold = 0
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(rating), 64); err == nil {
		row.Rating = v
		row.HasRating = true
	}
	row.ReviewCount = int(parseFloatOrZero(reviews))
	if row.ReviewCount < 0 {
		row.ReviewCount = 0
	}
	return row
}

func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
