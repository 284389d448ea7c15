// Package cache wraps an embedding service with an in-process LRU of
// previously embedded texts. Repeated questions on the ask path skip the
// round trip to the provider.
package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultSize is the cache capacity used when the caller passes zero.
const DefaultSize = 512

// EmbeddingService delegates to an inner embedding service, memoising
// results keyed by the exact input text.
type EmbeddingService struct {
	inner driven.EmbeddingService
	lru   *lru.Cache[string, []float32]
}

// Wrap decorates inner with an LRU of the given capacity. A negative
// capacity returns inner unchanged; zero uses DefaultSize.
func Wrap(inner driven.EmbeddingService, size int) (driven.EmbeddingService, error) {
	if size < 0 {
		return inner, nil
	}
	if size == 0 {
		size = DefaultSize
	}

	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}

	return &EmbeddingService{
		inner: inner,
		lru:   cache,
	}, nil
}

// Embed returns the cached vector for text, or delegates and caches.
// Callers must not mutate the returned slice.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if embedding, ok := s.lru.Get(text); ok {
		return embedding, nil
	}

	embedding, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	s.lru.Add(text, embedding)
	return embedding, nil
}

// Dimensions returns the embedding vector size of the inner service.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the inner service model name.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates to the inner service.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close purges the cache and closes the inner service.
func (s *EmbeddingService) Close() error {
	s.lru.Purge()
	return s.inner.Close()
}
