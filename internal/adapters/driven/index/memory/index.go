// Package memory provides an in-process vector index. Records live in a
// slice and searches scan them exactly with cosine similarity. Nothing
// survives a restart; it backs tests and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex stores chunk records in memory. Safe for concurrent use.
type VectorIndex struct {
	mu        sync.RWMutex
	created   bool
	dimension int
	records   []domain.Chunk
}

// NewVectorIndex creates an empty, not-yet-created index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{}
}

// Exists reports whether Create has been called.
func (v *VectorIndex) Exists(_ context.Context) (bool, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.created, nil
}

// Create marks the index created with the schema dimension.
func (v *VectorIndex) Create(_ context.Context, schema driven.IndexSchema) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.created {
		return domain.NewServiceError("memory", "create",
			fmt.Errorf("index already exists"))
	}

	v.created = true
	v.dimension = schema.Dimension
	return nil
}

// Dimension returns the schema dimension the index was created with.
func (v *VectorIndex) Dimension(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if !v.created {
		return 0, domain.NewServiceError("memory", "dimension",
			fmt.Errorf("index does not exist"))
	}
	return v.dimension, nil
}

// Index appends one chunk record. A vector whose width differs from the
// schema dimension is rejected, as a remote backend would.
func (v *VectorIndex) Index(_ context.Context, chunk domain.Chunk) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.created {
		return domain.NewServiceError("memory", "index",
			fmt.Errorf("index does not exist"))
	}
	if len(chunk.Embedding) != v.dimension {
		return domain.NewServiceError("memory", "index",
			fmt.Errorf("%w: record has dimension %d, index %d",
				domain.ErrDimensionMismatch, len(chunk.Embedding), v.dimension))
	}

	v.records = append(v.records, chunk)
	return nil
}

// Search scans every record and returns the k most similar, most similar
// first. Ties keep insertion order, so a fixed index and query always
// rank the same way.
func (v *VectorIndex) Search(_ context.Context, vector []float32, k int) ([]domain.SearchHit, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if len(v.records) == 0 || k <= 0 {
		return nil, nil
	}

	hits := make([]domain.SearchHit, 0, len(v.records))
	for _, rec := range v.records {
		hits = append(hits, domain.SearchHit{
			Content:   rec.Content,
			SourceKey: rec.SourceKey,
			Score:     cosineSimilarity(vector, rec.Embedding),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of stored records.
func (v *VectorIndex) Count(_ context.Context) (int64, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return int64(len(v.records)), nil
}

// Drop discards the index and all records.
func (v *VectorIndex) Drop(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.created = false
	v.dimension = 0
	v.records = nil
	return nil
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	return nil
}

// cosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths or zero vectors score zero rather than erroring;
// such records simply rank last.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
