package search

import (
	"context"

	"github.com/marketlens/marketlens/internal/domain"
)

// stubCatalog implements Catalog over a fixed row slice.
type stubCatalog struct {
	rows  []domain.Row
	vocab domain.Vocabulary
}

func (c *stubCatalog) Len() int                      { return len(c.rows) }
func (c *stubCatalog) Row(i int) domain.Row          { return c.rows[i] }
func (c *stubCatalog) Vocabulary() domain.Vocabulary { return c.vocab }

func newStubCatalog(rows []domain.Row) *stubCatalog {
	vocab := domain.Vocabulary{}
	seen := map[string]bool{}
	for _, r := range rows {
		for _, pair := range []struct {
			val  string
			dest *[]string
		}{
			{r.SuperCategory, &vocab.Categories},
			{r.Brand, &vocab.Brands},
			{r.Platform, &vocab.Platforms},
		} {
			if pair.val != "" && !seen[pair.val] {
				seen[pair.val] = true
				*pair.dest = append(*pair.dest, pair.val)
			}
		}
	}
	return &stubCatalog{rows: rows, vocab: vocab}
}

// stubVectors implements VectorSource over explicit per-row vectors.
type stubVectors struct {
	vecs [][]float32
}

func (v *stubVectors) Rows() int { return len(v.vecs) }

func (v *stubVectors) Dot(i int, q []float32) float64 {
	var sum float64
	for j := range v.vecs[i] {
		if j >= len(q) {
			break
		}
		sum += float64(v.vecs[i][j]) * float64(q[j])
	}
	return sum
}

// stubEmbedder returns one fixed vector for every query.
type stubEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (e *stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	e.calls++
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{Embedding: e.vec, TotalTokens: 1}, nil
}

// fixtureRows is a small cross-platform catalog used by most tests.
func fixtureRows() []domain.Row {
	return []domain.Row{
		{SKU: "s1", ProductName: "iPhone 15 Pro Max", Platform: "Shopee", SuperCategory: "Phones & Accessories", Categories: "Smartphones", Brand: "Apple", Price: 1200, Sold: 50, ReviewCount: 120, SellerName: "TechWorld"},
		{SKU: "s2", ProductName: "Samsung Galaxy S24", Platform: "Lazada", SuperCategory: "Phones & Accessories", Categories: "Smartphones", Brand: "Samsung", Price: 900, Sold: 80, ReviewCount: 45, SellerName: "MobileHub"},
		{SKU: "s3", ProductName: "Gaming Laptop RTX", Platform: "Shopee", SuperCategory: "Laptops & PCs", Categories: "Gaming Laptops", Brand: "Asus", Price: 1500, Sold: 10, ReviewCount: 8, SellerName: "TechWorld"},
		{SKU: "s4", ProductName: "iPhone 15 case silicone", Platform: "Tiki", SuperCategory: "Phones & Accessories", Categories: "Phone Holders Mounts", Brand: "Generic", Price: 5, Sold: 900, ReviewCount: 300, SellerName: "CaseShop"},
	}
}
