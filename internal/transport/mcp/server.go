package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	analyticsuc "github.com/marketlens/marketlens/internal/usecase/analytics"
	searchuc "github.com/marketlens/marketlens/internal/usecase/search"
)

const (
	// ServerName is the MCP server name
	ServerName = "marketlens-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server exposes the search engine and analytics extractors as MCP tools
// so LLM agents can call them over stdio.
type Server struct {
	mcp       *server.MCPServer
	search    *searchuc.Service
	analytics *analyticsuc.Service
	logger    *zap.Logger
}

// NewServer creates an MCP server over already-wired services.
func NewServer(search *searchuc.Service, analytics *analyticsuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		mcp:       server.NewMCPServer(ServerName, ServerVersion, server.WithRecovery()),
		search:    search,
		analytics: analytics,
		logger:    logger,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(resolveProductTool(), s.handleResolveProduct)
	s.mcp.AddTool(searchProductsTool(), s.handleSearchProducts)
	s.mcp.AddTool(priceStatsTool(), s.handlePriceStats)
	s.mcp.AddTool(ratingDistributionTool(), s.handleRatingDistribution)
	s.mcp.AddTool(soldDistributionTool(), s.handleSoldDistribution)
	s.mcp.AddTool(categoryCountsTool(), s.handleCategoryCounts)
	s.mcp.AddTool(brandShareTool(), s.handleBrandShare)
	s.mcp.AddTool(topSellersTool(), s.handleTopSellers)
	s.mcp.AddTool(topBrandsTool(), s.handleTopBrands)
	s.mcp.AddTool(sellerDiversityTool(), s.handleSellerDiversity)
	s.mcp.AddTool(priceRangeTool(), s.handlePriceRange)
	s.mcp.AddTool(roiTableTool(), s.handleROITable)
	s.mcp.AddTool(marketReportTool(), s.handleMarketReport)
}
