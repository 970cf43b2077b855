package chi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/marketlens/marketlens/internal/domain"
	analyticsuc "github.com/marketlens/marketlens/internal/usecase/analytics"
	healthuc "github.com/marketlens/marketlens/internal/usecase/health"
	searchuc "github.com/marketlens/marketlens/internal/usecase/search"
)

// testCatalog is an in-memory catalog over a fixed row slice.
type testCatalog struct {
	rows  []domain.Row
	vocab domain.Vocabulary
}

func (c *testCatalog) Len() int                      { return len(c.rows) }
func (c *testCatalog) Row(i int) domain.Row          { return c.rows[i] }
func (c *testCatalog) Vocabulary() domain.Vocabulary { return c.vocab }

func newTestCatalog(rows []domain.Row) *testCatalog {
	var vocab domain.Vocabulary
	seen := map[string]map[string]bool{"cat": {}, "brand": {}, "platform": {}}
	for _, r := range rows {
		if r.SuperCategory != "" && !seen["cat"][r.SuperCategory] {
			seen["cat"][r.SuperCategory] = true
			vocab.Categories = append(vocab.Categories, r.SuperCategory)
		}
		if r.Brand != "" && !seen["brand"][r.Brand] {
			seen["brand"][r.Brand] = true
			vocab.Brands = append(vocab.Brands, r.Brand)
		}
		if r.Platform != "" && !seen["platform"][r.Platform] {
			seen["platform"][r.Platform] = true
			vocab.Platforms = append(vocab.Platforms, r.Platform)
		}
	}
	return &testCatalog{rows: rows, vocab: vocab}
}

func fixtureRows() []domain.Row {
	return []domain.Row{
		{
			SKU: "SKU-1", ProductName: "iPhone 15 Pro Max 256GB", Platform: "Shopee",
			SuperCategory: "Phones", Categories: "Mobile > Smartphones", Brand: "Apple",
			Price: 1200, Sold: 350, Rating: 4.8, HasRating: true, ReviewCount: 120,
			SellerName: "TechWorld",
		},
		{
			SKU: "SKU-2", ProductName: "iPhone 15 silicone case", Platform: "Lazada",
			SuperCategory: "Accessories", Categories: "Mobile > Cases", Brand: "Generic",
			Price: 8, Sold: 900, Rating: 4.2, HasRating: true, ReviewCount: 45,
			SellerName: "CaseHub",
		},
		{
			SKU: "SKU-3", ProductName: "Samsung Galaxy S24 Ultra", Platform: "Shopee",
			SuperCategory: "Phones", Categories: "Mobile > Smartphones", Brand: "Samsung",
			Price: 1100, Sold: 210, Rating: 4.6, HasRating: true, ReviewCount: 88,
			SellerName: "TechWorld",
		},
	}
}

// newTestServer wires a full router over the fixture catalog with
// lexical-only scoring and a fixed clock.
func newTestServer(rows []domain.Row) http.Handler {
	logger := zap.NewNop()
	cat := newTestCatalog(rows)
	scorer := searchuc.NewScorer(cat, nil, nil, 0, 0)
	resolver := searchuc.NewHintResolver(cat, scorer, 0)
	searchSvc := searchuc.New(cat, scorer, resolver, logger).
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) })
	analyticsSvc := analyticsuc.New(searchSvc, 0, logger)
	healthSvc := healthuc.New(cat, nil, nil)

	r := chi.NewRouter()
	NewServer(searchSvc, analyticsSvc, healthSvc, logger).Register(r)
	return r
}

func doJSON(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
