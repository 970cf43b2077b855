package analytics

import (
	"context"

	"github.com/marketlens/marketlens/internal/domain"
)

// DefaultRatingBins is the rating histogram resolution.
const DefaultRatingBins = 20

// RatingDistributionParams configures the rating histogram extractor.
type RatingDistributionParams struct {
	Query
	Bins         int
	GroupByBrand bool
}

// RatingBucket is one non-empty histogram bucket. Brand is null when the
// histogram is not grouped.
type RatingBucket struct {
	BucketLeft  float64 `json:"bucket_left"`
	BucketRight float64 `json:"bucket_right"`
	Count       int     `json:"count"`
	Brand       *string `json:"brand"`
}

// RatingDistribution buckets ratings into equal-width bins spanning the
// observed range. Rows without a rating are dropped first; zero-count
// buckets are omitted from the output.
func (s *Service) RatingDistribution(ctx context.Context, p RatingDistributionParams) (domain.Output, error) {
	rows, meta, err := s.hitSet(ctx, p.Query, s.maxRows)
	if err != nil {
		return domain.Output{}, err
	}

	rated := rows[:0:0]
	for _, r := range rows {
		if r.HasRating {
			rated = append(rated, r)
		}
	}
	if len(rated) == 0 {
		return emptyOutput(meta, "no rating data"), nil
	}

	bins := p.Bins
	if bins <= 0 {
		bins = DefaultRatingBins
	}

	all := ratings(rated)
	lo, hi := minMax(all)
	edges := linspace(lo, hi, bins)

	var records []RatingBucket
	if p.GroupByBrand {
		brands, groups := groupRows(rated, func(r domain.Row) string { return r.Brand })
		for _, brand := range brands {
			brand := brand
			records = appendBuckets(records, ratings(groups[brand]), edges, &brand)
		}
	} else {
		records = appendBuckets(records, all, edges, nil)
	}

	meta.AppendNote("rating_distribution over search subset")
	meta.BinEdges = edges
	if records == nil {
		records = []RatingBucket{}
	}
	return domain.Output{Data: records, Meta: meta}, nil
}

func ratings(rows []domain.Row) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Rating)
	}
	return out
}

func appendBuckets(records []RatingBucket, values, edges []float64, brand *string) []RatingBucket {
	counts := histogram(values, edges)
	for i, c := range counts {
		if c == 0 {
			continue
		}
		records = append(records, RatingBucket{
			BucketLeft:  edges[i],
			BucketRight: edges[i+1],
			Count:       c,
			Brand:       brand,
		})
	}
	return records
}
