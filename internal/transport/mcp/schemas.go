package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// querySchema builds the shared input schema of every analytics tool: the
// product query plus the optional search constraints, merged with the
// tool-specific properties.
func querySchema(extra map[string]any) mcp.ToolInputSchema {
	props := map[string]any{
		"query": map[string]any{
			"type":        "string",
			"description": "Product search phrase, e.g. 'wireless earbuds'",
		},
		"platforms": map[string]any{
			"type":        "array",
			"description": "Restrict results to these marketplaces (default: all known)",
			"items":       map[string]any{"type": "string"},
		},
		"min_reviews": map[string]any{
			"type":        "integer",
			"description": "Drop listings with fewer reviews than this",
			"default":     0,
		},
		"category": map[string]any{
			"type":        "string",
			"description": "Category hint; ignored when not in the catalog vocabulary",
		},
		"brand": map[string]any{
			"type":        "string",
			"description": "Brand hint; ignored when not in the catalog vocabulary",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   []string{"query"},
	}
}

// resolveProductTool returns the tool definition for resolve_product
func resolveProductTool() mcp.Tool {
	return mcp.Tool{
		Name:        "resolve_product",
		Description: "Resolve a product query into platforms, category, brand and confidence without returning listings",
		InputSchema: querySchema(nil),
	}
}

// searchProductsTool returns the tool definition for search_products
func searchProductsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_products",
		Description: "Hybrid lexical+vector search over the product catalog, returning matching listings",
		InputSchema: querySchema(map[string]any{
			"max_rows": map[string]any{
				"type":        "integer",
				"description": "Maximum listings to return (default 50)",
				"minimum":     1,
			},
			"enforce_phrase": map[string]any{
				"type":        "boolean",
				"description": "Require the normalized query as a substring of the product name",
				"default":     true,
			},
		}),
	}
}

// priceStatsTool returns the tool definition for price_stats
func priceStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "price_stats",
		Description: "Price summary statistics (min/quantiles/mean/max/stddev) over the search hit set",
		InputSchema: querySchema(map[string]any{
			"by_platform": map[string]any{
				"type":        "boolean",
				"description": "Group the summary per marketplace",
				"default":     true,
			},
		}),
	}
}

// ratingDistributionTool returns the tool definition for rating_distribution
func ratingDistributionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rating_distribution",
		Description: "Histogram of product ratings over the search hit set",
		InputSchema: querySchema(map[string]any{
			"bins": map[string]any{
				"type":        "integer",
				"description": "Number of equal-width histogram bins (default 20)",
				"minimum":     1,
			},
			"group_by_brand": map[string]any{
				"type":        "boolean",
				"description": "Compute a separate histogram per brand",
				"default":     true,
			},
		}),
	}
}

// soldDistributionTool returns the tool definition for sold_distribution
func soldDistributionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sold_distribution",
		Description: "Per-platform histogram of units sold over the search hit set",
		InputSchema: querySchema(map[string]any{
			"bin_edges": map[string]any{
				"type":        "array",
				"description": "Explicit histogram bin edges (overrides bin_count)",
				"items":       map[string]any{"type": "number"},
			},
			"bin_count": map[string]any{
				"type":        "integer",
				"description": "Number of equal-width bins over the observed range",
				"minimum":     1,
			},
		}),
	}
}

// categoryCountsTool returns the tool definition for category_counts
func categoryCountsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "category_counts",
		Description: "Listing counts per category over the search hit set",
		InputSchema: querySchema(map[string]any{
			"field": map[string]any{
				"type":        "string",
				"description": "Category field to count",
				"enum":        []string{"categories", "super_category"},
				"default":     "categories",
			},
			"top_k": map[string]any{
				"type":        "integer",
				"description": "Keep only the K most frequent categories (default 20)",
				"minimum":     1,
			},
		}),
	}
}

// brandShareTool returns the tool definition for brand_share
func brandShareTool() mcp.Tool {
	return mcp.Tool{
		Name:        "brand_share",
		Description: "Per-platform brand share by SKU count or estimated revenue",
		InputSchema: querySchema(map[string]any{
			"metric": map[string]any{
				"type":        "string",
				"description": "Share metric",
				"enum":        []string{"sku", "revenue_est"},
				"default":     "sku",
			},
			"normalize": map[string]any{
				"type":        "boolean",
				"description": "Express each brand as percent of platform total",
				"default":     true,
			},
		}),
	}
}

// topSellersTool returns the tool definition for top_sellers
func topSellersTool() mcp.Tool {
	return mcp.Tool{
		Name:        "top_sellers",
		Description: "Ranked sellers per platform by units sold or listing count",
		InputSchema: querySchema(map[string]any{
			"by": map[string]any{
				"type":        "string",
				"description": "Ranking metric",
				"enum":        []string{"sold", "product_count"},
				"default":     "sold",
			},
			"top_k": map[string]any{
				"type":        "integer",
				"description": "Sellers to keep per platform (default 20)",
				"minimum":     1,
			},
		}),
	}
}

// topBrandsTool returns the tool definition for top_brands
func topBrandsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "top_brands",
		Description: "Ranked brands per platform by estimated revenue or units sold",
		InputSchema: querySchema(map[string]any{
			"by": map[string]any{
				"type":        "string",
				"description": "Ranking metric",
				"enum":        []string{"revenue_est", "sold"},
				"default":     "revenue_est",
			},
			"top_k": map[string]any{
				"type":        "integer",
				"description": "Brands to keep per platform (default 20)",
				"minimum":     1,
			},
		}),
	}
}

// sellerDiversityTool returns the tool definition for seller_diversity
func sellerDiversityTool() mcp.Tool {
	return mcp.Tool{
		Name:        "seller_diversity",
		Description: "Shannon diversity of each seller's category mix over the search hit set",
		InputSchema: querySchema(map[string]any{
			"min_products": map[string]any{
				"type":        "integer",
				"description": "Skip sellers with fewer listings than this (default 5)",
				"minimum":     1,
			},
		}),
	}
}

// priceRangeTool returns the tool definition for price_range_by_category
func priceRangeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "price_range_by_category",
		Description: "Price spread per platform and category, optionally restricted to one brand",
		InputSchema: querySchema(map[string]any{
			"brand": map[string]any{
				"type":        "string",
				"description": "Restrict the hit set to this brand",
			},
			"q_low": map[string]any{
				"type":        "number",
				"description": "Lower quantile (default 0.1)",
				"minimum":     0.0,
				"maximum":     1.0,
			},
			"q_high": map[string]any{
				"type":        "number",
				"description": "Upper quantile (default 0.9)",
				"minimum":     0.0,
				"maximum":     1.0,
			},
		}),
	}
}

// roiTableTool returns the tool definition for roi_table
func roiTableTool() mcp.Tool {
	return mcp.Tool{
		Name:        "roi_table",
		Description: "Units-sold-per-price ratio summarized per platform, brand or seller",
		InputSchema: querySchema(map[string]any{
			"group_by": map[string]any{
				"type":        "string",
				"description": "Grouping column",
				"enum":        []string{"platform", "brand", "seller"},
				"default":     "platform",
			},
		}),
	}
}

// marketReportTool returns the tool definition for market_report
func marketReportTool() mcp.Tool {
	return mcp.Tool{
		Name:        "market_report",
		Description: "Run every analytics extractor for one query and bundle the results",
		InputSchema: querySchema(map[string]any{
			"top_k": map[string]any{
				"type":        "integer",
				"description": "Ranking depth for the seller/brand sections (default 20)",
				"minimum":     1,
			},
		}),
	}
}
