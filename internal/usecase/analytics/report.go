package analytics

import (
	"context"
	"fmt"

	"github.com/marketlens/marketlens/internal/domain"
)

// MarketReportParams configures the combined report.
type MarketReportParams struct {
	Query
	TopK int
}

// MarketReport bundles the individual extractor outputs for one query.
type MarketReport struct {
	PriceStats         domain.Output `json:"price_stats"`
	RatingDistribution domain.Output `json:"rating_distribution"`
	SoldDistribution   domain.Output `json:"sold_distribution"`
	CategoryCounts     domain.Output `json:"category_counts"`
	BrandShare         domain.Output `json:"brand_share"`
	TopSellers         domain.Output `json:"top_sellers"`
	TopBrands          domain.Output `json:"top_brands"`
	SellerDiversity    domain.Output `json:"seller_diversity"`
	PriceRange         domain.Output `json:"price_range"`
	ROI                domain.Output `json:"roi"`
}

// Report runs every extractor for the query and composes the results. The
// extractors stay independent; the report is only the composition of their
// outputs.
func (s *Service) Report(ctx context.Context, p MarketReportParams) (MarketReport, error) {
	var (
		report MarketReport
		err    error
	)

	if report.PriceStats, err = s.PriceStats(ctx, PriceStatsParams{Query: p.Query, ByPlatform: true}); err != nil {
		return MarketReport{}, fmt.Errorf("price stats: %w", err)
	}
	if report.RatingDistribution, err = s.RatingDistribution(ctx, RatingDistributionParams{Query: p.Query, GroupByBrand: true}); err != nil {
		return MarketReport{}, fmt.Errorf("rating distribution: %w", err)
	}
	if report.SoldDistribution, err = s.SoldDistribution(ctx, SoldDistributionParams{Query: p.Query}); err != nil {
		return MarketReport{}, fmt.Errorf("sold distribution: %w", err)
	}
	if report.CategoryCounts, err = s.CategoryCounts(ctx, CategoryCountsParams{Query: p.Query, TopK: p.TopK}); err != nil {
		return MarketReport{}, fmt.Errorf("category counts: %w", err)
	}
	if report.BrandShare, err = s.BrandShare(ctx, BrandShareParams{Query: p.Query, Normalize: true}); err != nil {
		return MarketReport{}, fmt.Errorf("brand share: %w", err)
	}
	if report.TopSellers, err = s.TopSellers(ctx, TopSellersParams{Query: p.Query, TopK: p.TopK}); err != nil {
		return MarketReport{}, fmt.Errorf("top sellers: %w", err)
	}
	if report.TopBrands, err = s.TopBrands(ctx, TopBrandsParams{Query: p.Query, TopK: p.TopK}); err != nil {
		return MarketReport{}, fmt.Errorf("top brands: %w", err)
	}
	if report.SellerDiversity, err = s.SellerDiversity(ctx, SellerDiversityParams{Query: p.Query}); err != nil {
		return MarketReport{}, fmt.Errorf("seller diversity: %w", err)
	}
	if report.PriceRange, err = s.PriceRangeByCategory(ctx, PriceRangeParams{Query: p.Query}); err != nil {
		return MarketReport{}, fmt.Errorf("price range: %w", err)
	}
	if report.ROI, err = s.ROITable(ctx, ROIParams{Query: p.Query}); err != nil {
		return MarketReport{}, fmt.Errorf("roi table: %w", err)
	}

	return report, nil
}
