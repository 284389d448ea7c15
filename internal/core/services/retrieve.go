package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
)

// Ensure Retriever implements the interface.
var _ driving.RetrieveService = (*Retriever)(nil)

// DefaultTopK is the number of hits retrieved when the caller does not
// specify one.
const DefaultTopK = 3

// Retriever embeds a query and finds the most similar stored chunks.
type Retriever struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	topK     int
	logger   *zap.Logger
}

// NewRetriever creates a retriever. topK <= 0 falls back to DefaultTopK.
func NewRetriever(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	topK int,
	logger *zap.Logger,
) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		embedder: embedder,
		index:    index,
		topK:     topK,
		logger:   logger,
	}
}

// Retrieve embeds the query and searches the index. Hits come back most
// similar first; an empty index yields an empty slice, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.SearchHit, error) {
	if k <= 0 {
		k = r.topK
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	r.logger.Debug("retrieved similar chunks",
		zap.Int("k", k),
		zap.Int("hits", len(hits)))

	return hits, nil
}
