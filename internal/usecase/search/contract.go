package search

import (
	"context"

	"github.com/marketlens/marketlens/internal/domain"
)

// Catalog reads product rows and the scanned vocabulary.
type Catalog interface {
	Len() int
	Row(i int) domain.Row
	Vocabulary() domain.Vocabulary
}

// VectorSource exposes per-row similarity against a query vector. Row i must
// correspond to catalog row i.
type VectorSource interface {
	Rows() int
	Dot(i int, q []float32) float64
}

// Embedder vectorizes query text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Resolver maps a query and hint to a resolution record. The default
// implementation is hint-only; the interface exists so an inferring resolver
// can be swapped in without touching the search pipeline.
type Resolver interface {
	Resolve(ctx context.Context, query string, hint domain.Hint) (domain.Resolution, error)
}
