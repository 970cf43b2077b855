package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/marketlens/marketlens/internal/domain"
	analyticsuc "github.com/marketlens/marketlens/internal/usecase/analytics"
	searchuc "github.com/marketlens/marketlens/internal/usecase/search"
)

// MCP error codes
const (
	ErrorCodeInvalidParams  = -32602 // Invalid method parameters
	ErrorCodeInternalError  = -32603 // Internal JSON-RPC error
	ErrorCodeEmbeddingError = -32001 // Embedding provider unavailable
)

// handleResolveProduct handles the resolve_product tool invocation
func (s *Server) handleResolveProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, query, err := parseArgs(request)
	if err != nil {
		return nil, err
	}

	out, err := s.search.Resolve(ctx, query, parseHint(args))
	if err != nil {
		return nil, s.toolError("resolve_product", err)
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handleSearchProducts handles the search_products tool invocation
func (s *Server) handleSearchProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, query, err := parseArgs(request)
	if err != nil {
		return nil, err
	}

	out, err := s.search.Search(ctx, searchuc.Params{
		Query:         query,
		Hint:          parseHint(args),
		MaxRows:       getIntDefault(args, "max_rows", 0),
		EnforcePhrase: getBoolDefault(args, "enforce_phrase", true),
	})
	if err != nil {
		return nil, s.toolError("search_products", err)
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handlePriceStats handles the price_stats tool invocation
func (s *Server) handlePriceStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _, err := parseArgs(request)
	if err != nil {
		return nil, err
	}

	out, err := s.analytics.PriceStats(ctx, analyticsuc.PriceStatsParams{
		Query:      parseQuery(args),
		ByPlatform: getBoolDefault(args, "by_platform", true),
	})
	if err != nil {
		return nil, s.toolError("price_stats", err)
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handleRatingDistribution handles the rating_distribution tool invocation
func (s *Server) handleRatingDistribution(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _, err := parseArgs(request)
	if err != nil {
		return nil, err
	}

	out, err := s.analytics.RatingDistribution(ctx, analyticsuc.RatingDistributionParams{
		Query:        parseQuery(args),
		Bins:         getIntDefault(args, "bins", 0),
		GroupByBrand: getBoolDefault(args, "group_by_brand", true),
	})
	if err != nil {
		return nil, s.toolError("rating_distribution", err)
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handleSoldDistribution handles the sold_distribution tool invocation
func (s *Server) handleSoldDistribution(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _, err := parseArgs(request)
	if err != nil {
		return nil, err
	}

	out, err := s.analytics.SoldDistribution(ctx, analyticsuc.SoldDistributionParams{
		Query:    parseQuery(args),
		BinEdges: getFloatSlice(args, "bin_edges"),
		BinCount: getIntDefault(args, "bin_count", 0),
	})
	if err != nil {
		return nil, s.toolError("sold_distribution", err)
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handleCategoryCounts handles the category_counts tool invocation
func (s *Server) handleCategoryCounts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _, err := parseArgs(request)
	if err != nil {
		return nil, err
	}

	out, err := s.analytics.CategoryCounts(ctx, analyticsuc.CategoryCountsParams{
		Query: parseQuery(args),
		Field: getStringDefault(args, "field", ""),
		TopK:  getIntDefault(args, "top_k", 0),
	})
	if err != nil {
		return nil, s.toolError("category_counts", err)
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handleBrandShare handles the brand_share tool invocation
func (s *Server) handleBrandShare(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _, err := parseArgs(request)
	if err != nil {
		return nil, err
	}

	out, err := s.analytics.BrandShare(ctx, analyticsuc.BrandShareParams{
		Query:     parseQuery(args),
		Metric:    getStringDefault(args, "metric", ""),
		Normalize: getBoolDefault(args, "normalize", true),
	})
	if err != nil {
		return nil, s.toolError("brand_share", err)
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handleTopSellers handles the top_sellers tool invocation
func (s *Server) handleTopSellers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _, err := parseArgs(request)
	if err != nil {
		return nil, err
	}

	out, err := s.analytics.TopSellers(ctx, analyticsuc.TopSellersParams{
		Query: parseQuery(args),
		By:    getStringDefault(args, "by", ""),
		TopK:  getIntDefault(args, "top_k", 0),
	})
	if err != nil {
		return nil, s.toolError("top_sellers", err)
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handleTopBrands handles the top_brands tool invocation
func (s *Server) handleTopBrands(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _, err := parseArgs(request)
	if err != nil {
		return nil, err
	}

	out, err := s.analytics.TopBrands(ctx, analyticsuc.TopBrandsParams{
		Query: parseQuery(args),
		By:    getStringDefault(args, "by", ""),
		TopK:  getIntDefault(args, "top_k", 0),
	})
	if err != nil {
		return nil, s.toolError("top_brands", err)
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handleSellerDiversity handles the seller_diversity tool invocation
func (s *Server) handleSellerDiversity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _, err := parseArgs(request)
	if err != nil {
		return nil, err
	}

	out, err := s.analytics.SellerDiversity(ctx, analyticsuc.SellerDiversityParams{
		Query:       parseQuery(args),
		MinProducts: getIntDefault(args, "min_products", 0),
	})
	if err != nil {
		return nil, s.toolError("seller_diversity", err)
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handlePriceRange handles the price_range_by_category tool invocation
func (s *Server) handlePriceRange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _, err := parseArgs(request)
	if err != nil {
		return nil, err
	}

	out, err := s.analytics.PriceRangeByCategory(ctx, analyticsuc.PriceRangeParams{
		Query: parseQuery(args),
		Brand: getStringDefault(args, "brand", ""),
		QLow:  getFloatDefault(args, "q_low", 0),
		QHigh: getFloatDefault(args, "q_high", 0),
	})
	if err != nil {
		return nil, s.toolError("price_range_by_category", err)
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handleROITable handles the roi_table tool invocation
func (s *Server) handleROITable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _, err := parseArgs(request)
	if err != nil {
		return nil, err
	}

	out, err := s.analytics.ROITable(ctx, analyticsuc.ROIParams{
		Query:   parseQuery(args),
		GroupBy: getStringDefault(args, "group_by", ""),
	})
	if err != nil {
		return nil, s.toolError("roi_table", err)
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// handleMarketReport handles the market_report tool invocation
func (s *Server) handleMarketReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _, err := parseArgs(request)
	if err != nil {
		return nil, err
	}

	report, err := s.analytics.Report(ctx, analyticsuc.MarketReportParams{
		Query: parseQuery(args),
		TopK:  getIntDefault(args, "top_k", 0),
	})
	if err != nil {
		return nil, s.toolError("market_report", err)
	}
	return mcp.NewToolResultText(formatJSON(report)), nil
}

// Helper functions

// parseArgs extracts the argument map and the required query parameter.
func parseArgs(request mcp.CallToolRequest) (map[string]any, string, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return nil, "", newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	query, ok := args["query"].(string)
	if !ok {
		return nil, "", newMCPError(ErrorCodeInvalidParams, "query parameter is required", map[string]any{
			"param":  "query",
			"reason": "missing or not a string",
		})
	}
	return args, query, nil
}

// parseHint builds a search hint from the optional constraint parameters.
func parseHint(args map[string]any) domain.Hint {
	return domain.Hint{
		Platforms:  getStringSlice(args, "platforms"),
		Category:   getStringDefault(args, "category", ""),
		Brand:      getStringDefault(args, "brand", ""),
		MinReviews: getIntDefault(args, "min_reviews", 0),
	}
}

// parseQuery builds the shared analytics query from tool arguments.
func parseQuery(args map[string]any) analyticsuc.Query {
	return analyticsuc.Query{
		Query:      getStringDefault(args, "query", ""),
		Platforms:  getStringSlice(args, "platforms"),
		MinReviews: getIntDefault(args, "min_reviews", 0),
		Hint: domain.Hint{
			Category: getStringDefault(args, "category", ""),
			Brand:    getStringDefault(args, "brand", ""),
		},
	}
}

// toolError maps a domain error to a properly coded MCP error.
func (s *Server) toolError(tool string, err error) error {
	s.logger.Warn("tool failed", zap.String("tool", tool), zap.Error(err))
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return newMCPError(ErrorCodeInvalidParams, err.Error(), nil)
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		return newMCPError(ErrorCodeEmbeddingError, "embedding provider unavailable", map[string]any{
			"error": err.Error(),
		})
	default:
		return newMCPError(ErrorCodeInternalError, "extraction failed", map[string]any{
			"error": err.Error(),
		})
	}
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data any) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    any
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON renders a tool result payload as indented JSON
func formatJSON(v any) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]any, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]any, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getFloatDefault extracts a number parameter with a default value
func getFloatDefault(args map[string]any, key string, defaultValue float64) float64 {
	if val, ok := args[key].(float64); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]any, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts a string array parameter
func getStringSlice(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// getFloatSlice extracts a number array parameter
func getFloatSlice(args map[string]any, key string) []float64 {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(float64); ok {
			out = append(out, f)
		}
	}
	return out
}
