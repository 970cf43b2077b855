package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/marketlens/marketlens/internal/domain"
)

func TestPriceRangeByCategory_DefaultQuantiles(t *testing.T) {
	svc := newTestService(earbudRows())

	out, err := svc.PriceRangeByCategory(context.Background(), PriceRangeParams{
		Query: Query{Query: "wireless earbuds"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records := out.Data.([]PriceRangeRecord)
	if len(records) != 3 {
		t.Fatalf("expected 3 platform+category groups, got %d: %+v", len(records), records)
	}

	// Groups sort by platform then category; Lazada/True Wireless holds
	// prices 10 and 20, so the 0.1/0.9 defaults interpolate to 11 and 19.
	first := records[0]
	if first.Platform != "Lazada" || first.Categories != "True Wireless" {
		t.Fatalf("unexpected first group: %+v", first)
	}
	if first.MinPrice != 10 || first.MaxPrice != 20 || first.Count != 2 {
		t.Errorf("unexpected price spread: %+v", first)
	}
	if first.QLow != 11 || first.MedianPrice != 15 || first.QHigh != 19 {
		t.Errorf("unexpected quantiles: %+v", first)
	}

	// Single-row group: every statistic collapses to the one price.
	sport := records[1]
	if sport.Categories != "Sport Headphones" || sport.QLow != 300 || sport.QHigh != 300 {
		t.Errorf("unexpected single-row group: %+v", sport)
	}
}

func TestPriceRangeByCategory_QuantileOverride(t *testing.T) {
	svc := newTestService(earbudRows())

	out, err := svc.PriceRangeByCategory(context.Background(), PriceRangeParams{
		Query: Query{Query: "wireless earbuds"},
		QLow:  0,
		QHigh: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, rec := range out.Data.([]PriceRangeRecord) {
		if rec.QLow != rec.MinPrice || rec.QHigh != rec.MaxPrice {
			t.Errorf("expected 0/1 quantiles to match min/max: %+v", rec)
		}
	}
}

func TestPriceRangeByCategory_BrandFilter(t *testing.T) {
	svc := newTestService(earbudRows())

	out, err := svc.PriceRangeByCategory(context.Background(), PriceRangeParams{
		Query: Query{Query: "wireless earbuds"},
		Brand: "Generic",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records := out.Data.([]PriceRangeRecord)
	if len(records) != 1 {
		t.Fatalf("expected a single Lazada group, got %+v", records)
	}
	if records[0].Platform != "Lazada" || records[0].Count != 2 {
		t.Errorf("unexpected brand-narrowed group: %+v", records[0])
	}
}

func TestPriceRangeByCategory_QuantilesOutOfRange(t *testing.T) {
	svc := newTestService(earbudRows())

	for _, p := range []PriceRangeParams{
		{Query: Query{Query: "wireless earbuds"}, QHigh: 2},
		{Query: Query{Query: "wireless earbuds"}, QLow: -0.5, QHigh: 0.9},
		{Query: Query{Query: "wireless earbuds"}, QLow: 0.9, QHigh: 0.1},
	} {
		if _, err := svc.PriceRangeByCategory(context.Background(), p); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("expected ErrInvalidRequest for q_low=%v q_high=%v, got %v", p.QLow, p.QHigh, err)
		}
	}
}
