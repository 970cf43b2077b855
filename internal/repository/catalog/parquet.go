package catalog

import (
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/marketlens/marketlens/internal/domain"
)

// parquetRow mirrors the columns of the catalog parquet export, which may
// carry the per-row name embedding inline.
type parquetRow struct {
	SKU              string    `parquet:"sku,optional"`
	ProductName      string    `parquet:"product_name,optional"`
	Platform         string    `parquet:"platform,optional"`
	SuperCategory    string    `parquet:"super_category,optional"`
	Categories       string    `parquet:"categories,optional"`
	Brand            string    `parquet:"brand,optional"`
	Price            float64   `parquet:"price,optional"`
	Sold             float64   `parquet:"sold,optional"`
	Rating           *float64  `parquet:"rating,optional"`
	ReviewCount      int64     `parquet:"review_count,optional"`
	SellerName       string    `parquet:"seller_name,optional"`
	URL              string    `parquet:"url,optional"`
	ProductEmbedding []float32 `parquet:"product_embedding,list,optional"`
}

// readParquet parses a catalog parquet file. When the file carries inline
// product_embedding vectors, the returned matrix is built from them; it is
// nil otherwise.
func readParquet(path string) ([]domain.Row, *Matrix, error) {
	records, err := parquet.ReadFile[parquetRow](path)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog parquet: %w", err)
	}

	rows := make([]domain.Row, 0, len(records))
	var vecs []float32
	dim := 0
	for i, rec := range records {
		row := domain.Row{
			SKU:           rec.SKU,
			ProductName:   rec.ProductName,
			Platform:      rec.Platform,
			SuperCategory: rec.SuperCategory,
			Categories:    rec.Categories,
			Brand:         rec.Brand,
			Price:         rec.Price,
			Sold:          rec.Sold,
			ReviewCount:   int(rec.ReviewCount),
			SellerName:    rec.SellerName,
			URL:           rec.URL,
		}
		if row.Price < 0 {
			row.Price = 0
		}
		if row.Sold < 0 {
			row.Sold = 0
		}
		if row.ReviewCount < 0 {
			row.ReviewCount = 0
		}
		if rec.Rating != nil {
			row.Rating = *rec.Rating
			row.HasRating = true
		}
		rows = append(rows, row)

		if len(rec.ProductEmbedding) == 0 {
			continue
		}
		if dim == 0 {
			dim = len(rec.ProductEmbedding)
		}
		if len(rec.ProductEmbedding) != dim {
			return nil, nil, fmt.Errorf(
				"inconsistent embedding dimension at parquet row %d: %d vs %d",
				i, len(rec.ProductEmbedding), dim)
		}
		vecs = append(vecs, rec.ProductEmbedding...)
	}

	if dim == 0 {
		return rows, nil, nil
	}
	if len(vecs) != len(rows)*dim {
		return nil, nil, fmt.Errorf("%w: %d of %d parquet rows carry embeddings",
			domain.ErrEmbeddingMisaligned, len(vecs)/dim, len(rows))
	}
	m, err := NewMatrix(vecs, dim)
	if err != nil {
		return nil, nil, err
	}
	return rows, m, nil
}
