package driven

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// IndexSchema describes the vector index to create. Besides the vector
// field it always carries a free-text "text" field and an exact-match
// "source" keyword field.
type IndexSchema struct {
	// Dimension is the embedding vector size.
	Dimension int

	// EFSearch is the HNSW query-time candidate list size.
	EFSearch int

	// EFConstruction is the HNSW build-time candidate list size.
	EFConstruction int

	// M is the HNSW maximum connections per node.
	M int
}

// VectorIndex stores chunk records and answers nearest-neighbour queries.
// Remote implementations (OpenSearch, pgvector) delegate similarity to
// the backing service; local ones (SQLite, memory) scan exactly.
type VectorIndex interface {
	// Exists reports whether the index has been created.
	Exists(ctx context.Context) (bool, error)

	// Create builds the index with the given schema. Writes to an
	// index whose schema dimension differs from a record's vector are
	// rejected by the backend.
	Create(ctx context.Context, schema IndexSchema) error

	// Dimension returns the vector size of the existing index.
	// Implementations that cannot read it back return
	// domain.ErrDimensionUnknown.
	Dimension(ctx context.Context) (int, error)

	// Index writes one chunk record {text, embedding, source, position}.
	// Writes are unbuffered; visibility of unrefreshed writes is
	// whatever the backend guarantees.
	Index(ctx context.Context, chunk domain.Chunk) error

	// Search returns up to k hits most similar to the query vector,
	// most similar first. An empty index yields no hits and no error.
	Search(ctx context.Context, vector []float32, k int) ([]domain.SearchHit, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)

	// Drop removes the index and all records.
	Drop(ctx context.Context) error

	// Close releases resources.
	Close() error
}
