package domain

import "errors"

var (
	// ErrEmbeddingMisaligned signals that the embedding matrix row count no
	// longer matches the catalog row count. This is a fatal precondition
	// violation: scoring must fail loudly rather than return wrong
	// similarities.
	ErrEmbeddingMisaligned = errors.New("embedding matrix misaligned with catalog")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrInvalidRequest signals an unusable request parameter.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrCatalogNotLoaded signals that no catalog has been installed.
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
)
