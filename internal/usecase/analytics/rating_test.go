package analytics

import (
	"context"
	"strings"
	"testing"

	"github.com/marketlens/marketlens/internal/domain"
)

func TestRatingDistribution_Conservation(t *testing.T) {
	svc := newTestService(earbudRows())

	out, err := svc.RatingDistribution(context.Background(), RatingDistributionParams{
		Query: Query{Query: "wireless earbuds"},
		Bins:  4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buckets := out.Data.([]RatingBucket)
	total := 0
	for _, b := range buckets {
		if b.Count == 0 {
			t.Error("zero-count bucket should be omitted")
		}
		if b.Brand != nil {
			t.Errorf("expected null brand for ungrouped histogram, got %q", *b.Brand)
		}
		total += b.Count
	}
	// 4 of the 5 fixture rows carry a rating.
	if total != 4 {
		t.Errorf("expected bucket counts to sum to 4 rated rows, got %d", total)
	}
	if len(out.Meta.BinEdges) != 5 {
		t.Errorf("expected 5 bin edges, got %v", out.Meta.BinEdges)
	}
}

func TestRatingDistribution_GroupByBrand(t *testing.T) {
	svc := newTestService(earbudRows())

	out, err := svc.RatingDistribution(context.Background(), RatingDistributionParams{
		Query:        Query{Query: "wireless earbuds"},
		Bins:         4,
		GroupByBrand: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buckets := out.Data.([]RatingBucket)
	total := 0
	brands := map[string]bool{}
	for _, b := range buckets {
		if b.Brand == nil {
			t.Fatal("expected brand on grouped bucket")
		}
		brands[*b.Brand] = true
		total += b.Count
	}
	if total != 4 {
		t.Errorf("expected grouped counts to sum to 4, got %d", total)
	}
	for _, want := range []string{"Soundcore", "JBL", "Generic"} {
		if !brands[want] {
			t.Errorf("expected brand %q in buckets", want)
		}
	}
}

func TestRatingDistribution_NoRatings(t *testing.T) {
	rows := []domain.Row{
		{ProductName: "wireless earbuds", Platform: "Shopee", Price: 10},
	}
	svc := newTestService(rows)

	out, err := svc.RatingDistribution(context.Background(), RatingDistributionParams{
		Query: Query{Query: "wireless earbuds"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.Meta.Notes, "no rating data") {
		t.Errorf("expected no-rating note, got %q", out.Meta.Notes)
	}
}

func TestSoldDistribution_DefaultEdges(t *testing.T) {
	svc := newTestService(earbudRows())

	out, err := svc.SoldDistribution(context.Background(), SoldDistributionParams{
		Query: Query{Query: "wireless earbuds"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buckets := out.Data.([]SoldBucket)
	if len(buckets) == 0 {
		t.Fatal("expected buckets")
	}

	// Shopee sold values: 50, 30, 20 — all in [10,50) and [50,100).
	pctByPlatform := map[string]float64{}
	countByPlatform := map[string]int{}
	for _, b := range buckets {
		pctByPlatform[b.Platform] += b.Pct
		countByPlatform[b.Platform] += b.Count
	}
	if countByPlatform["Shopee"] != 3 {
		t.Errorf("expected 3 Shopee values counted, got %d", countByPlatform["Shopee"])
	}
	if pct := pctByPlatform["Shopee"]; pct < 0.999 || pct > 1.001 {
		t.Errorf("expected Shopee pcts to sum to 1, got %f", pct)
	}
	if len(out.Meta.BinEdges) != len(DefaultSoldBinEdges) {
		t.Errorf("expected default edges in meta, got %v", out.Meta.BinEdges)
	}
}

func TestSoldDistribution_EqualWidthBins(t *testing.T) {
	svc := newTestService(earbudRows())

	out, err := svc.SoldDistribution(context.Background(), SoldDistributionParams{
		Query:    Query{Query: "wireless earbuds"},
		BinCount: 4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Meta.BinEdges) != 5 {
		t.Errorf("expected 5 equal-width edges, got %v", out.Meta.BinEdges)
	}
}
