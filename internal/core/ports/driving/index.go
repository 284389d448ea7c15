package driving

import "context"

// IndexStats summarises the state of the vector index.
type IndexStats struct {
	// Name is the configured index name.
	Name string

	// Records is the number of stored chunk records.
	Records int64

	// Dimension is the index vector size, or 0 when the provider
	// cannot report it.
	Dimension int
}

// IndexAdmin manages the vector index lifecycle.
type IndexAdmin interface {
	// Ensure creates the index if it does not exist. Calling it again
	// is a no-op; an existing index with a conflicting dimension fails
	// loudly instead of being silently reused.
	Ensure(ctx context.Context) error

	// Stats reports the current index state.
	Stats(ctx context.Context) (IndexStats, error)

	// Reset drops and recreates the index.
	Reset(ctx context.Context) error
}
