package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/marketlens/marketlens/internal/domain"
	analyticsuc "github.com/marketlens/marketlens/internal/usecase/analytics"
	searchuc "github.com/marketlens/marketlens/internal/usecase/search"
)

// stubCatalog is an in-memory catalog over a fixed row slice.
type stubCatalog struct {
	rows  []domain.Row
	vocab domain.Vocabulary
}

func (c *stubCatalog) Len() int                      { return len(c.rows) }
func (c *stubCatalog) Row(i int) domain.Row          { return c.rows[i] }
func (c *stubCatalog) Vocabulary() domain.Vocabulary { return c.vocab }

func newTestMCPServer() *Server {
	cat := &stubCatalog{
		rows: []domain.Row{
			{
				SKU: "SKU-1", ProductName: "iPhone 15 Pro Max", Platform: "Shopee",
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
		},
		vocab: domain.Vocabulary{
			Categories: []string{"Phones", "Accessories"},
			Brands:     []string{"Apple", "Generic"},
			Platforms:  []string{"Shopee", "Lazada"},
		},
	}
	logger := zap.NewNop()
	scorer := searchuc.NewScorer(cat, nil, nil, 0, 0)
	resolver := searchuc.NewHintResolver(cat, scorer, 0)
	searchSvc := searchuc.New(cat, scorer, resolver, logger).
		WithClock(func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) })
	analyticsSvc := analyticsuc.New(searchSvc, 0, logger)
	return NewServer(searchSvc, analyticsSvc, logger)
}

func callRequest(args map[string]any) mcplib.CallToolRequest {
	var req mcplib.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcplib.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcplib.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return text.Text
}

func TestHandleSearchProducts(t *testing.T) {
	s := newTestMCPServer()

	res, err := s.handleSearchProducts(context.Background(), callRequest(map[string]any{
		"query": "iphone 15",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, res)
	if !strings.Contains(text, `"iPhone 15 Pro Max"`) {
		t.Errorf("result missing matched listing: %s", text)
	}
	if !strings.Contains(text, "phrase_filter=true") {
		t.Errorf("result missing default phrase filter note: %s", text)
	}
}

func TestHandleSearchProducts_MissingQuery(t *testing.T) {
	s := newTestMCPServer()

	_, err := s.handleSearchProducts(context.Background(), callRequest(map[string]any{}))
	if err == nil {
		t.Fatal("expected error for missing query")
	}

	var mcpErr *MCPError
	if !errors.As(err, &mcpErr) {
		t.Fatalf("got %T, want *MCPError", err)
	}
	if mcpErr.Code != ErrorCodeInvalidParams {
		t.Errorf("got code %d, want %d", mcpErr.Code, ErrorCodeInvalidParams)
	}
}

func TestHandleResolveProduct_HintValidation(t *testing.T) {
	s := newTestMCPServer()

	res, err := s.handleResolveProduct(context.Background(), callRequest(map[string]any{
		"query": "iphone",
		"brand": "Apple",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, res)
	if !strings.Contains(text, `"brand_guess": "Apple"`) {
		t.Errorf("result missing validated brand guess: %s", text)
	}
}

func TestHandlePriceStats_PlatformsNarrowHitSet(t *testing.T) {
	s := newTestMCPServer()

	res, err := s.handlePriceStats(context.Background(), callRequest(map[string]any{
		"query":     "iphone",
		"platforms": []any{"Lazada"},
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, res)
	if strings.Contains(text, `"platform": "Shopee"`) {
		t.Errorf("Shopee rows leaked through platform constraint: %s", text)
	}
	if !strings.Contains(text, `"platform": "Lazada"`) {
		t.Errorf("result missing Lazada summary: %s", text)
	}
}

func TestHandleCategoryCounts_UnknownField(t *testing.T) {
	s := newTestMCPServer()

	_, err := s.handleCategoryCounts(context.Background(), callRequest(map[string]any{
		"query": "iphone",
		"field": "bogus",
	}))
	if err == nil {
		t.Fatal("expected error for unknown field")
	}

	var mcpErr *MCPError
	if !errors.As(err, &mcpErr) {
		t.Fatalf("got %T, want *MCPError", err)
	}
	if mcpErr.Code != ErrorCodeInvalidParams {
		t.Errorf("got code %d, want %d", mcpErr.Code, ErrorCodeInvalidParams)
	}
}

func TestHandleSoldDistribution_SingleBinEdge(t *testing.T) {
	s := newTestMCPServer()

	_, err := s.handleSoldDistribution(context.Background(), callRequest(map[string]any{
		"query":     "iphone",
		"bin_edges": []any{100.0},
	}))
	if err == nil {
		t.Fatal("expected error for a single bin edge")
	}

	var mcpErr *MCPError
	if !errors.As(err, &mcpErr) {
		t.Fatalf("got %T, want *MCPError", err)
	}
	if mcpErr.Code != ErrorCodeInvalidParams {
		t.Errorf("got code %d, want %d", mcpErr.Code, ErrorCodeInvalidParams)
	}
}

func TestHandlePriceRange_QuantileOutOfRange(t *testing.T) {
	s := newTestMCPServer()

	_, err := s.handlePriceRange(context.Background(), callRequest(map[string]any{
		"query":  "iphone",
		"q_high": 2.0,
	}))
	if err == nil {
		t.Fatal("expected error for q_high above 1")
	}

	var mcpErr *MCPError
	if !errors.As(err, &mcpErr) {
		t.Fatalf("got %T, want *MCPError", err)
	}
	if mcpErr.Code != ErrorCodeInvalidParams {
		t.Errorf("got code %d, want %d", mcpErr.Code, ErrorCodeInvalidParams)
	}
}

func TestHandleMarketReport_AllSections(t *testing.T) {
	s := newTestMCPServer()

	res, err := s.handleMarketReport(context.Background(), callRequest(map[string]any{
		"query": "iphone",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, res)
	for _, section := range []string{
		"price_stats", "rating_distribution", "sold_distribution", "category_counts",
		"brand_share", "top_sellers", "top_brands", "seller_diversity", "price_range", "roi",
	} {
		if !strings.Contains(text, `"`+section+`"`) {
			t.Errorf("report missing section %q", section)
		}
	}
}

func TestArgumentHelpers(t *testing.T) {
	args := map[string]any{
		"int_as_float": float64(7),
		"flag":         false,
		"edges":        []any{1.0, 2.5},
		"names":        []any{"a", "b"},
	}

	if got := getIntDefault(args, "int_as_float", 0); got != 7 {
		t.Errorf("getIntDefault: got %d, want 7", got)
	}
	if got := getIntDefault(args, "missing", 42); got != 42 {
		t.Errorf("getIntDefault default: got %d, want 42", got)
	}
	if got := getBoolDefault(args, "flag", true); got {
		t.Error("getBoolDefault should honor explicit false")
	}
	if got := getFloatSlice(args, "edges"); len(got) != 2 || got[1] != 2.5 {
		t.Errorf("getFloatSlice: got %v", got)
	}
	if got := getStringSlice(args, "names"); len(got) != 2 || got[0] != "a" {
		t.Errorf("getStringSlice: got %v", got)
	}
}
