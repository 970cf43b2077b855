package health

import "context"

// CatalogSource reports how many catalog rows are loaded.
type CatalogSource interface {
	Len() int
}

// CachePinger checks cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
