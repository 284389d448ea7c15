package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

func newCreated(t *testing.T, dim int) *VectorIndex {
	t.Helper()
	v := NewVectorIndex()
	require.NoError(t, v.Create(context.Background(), driven.IndexSchema{Dimension: dim}))
	return v
}

func TestVectorIndex_Lifecycle(t *testing.T) {
	ctx := context.Background()
	v := NewVectorIndex()

	exists, err := v.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, v.Create(ctx, driven.IndexSchema{Dimension: 3}))

	exists, err = v.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	dim, err := v.Dimension(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, dim)

	err = v.Create(ctx, driven.IndexSchema{Dimension: 3})
	require.Error(t, err, "double create must fail like a remote backend")

	require.NoError(t, v.Drop(ctx))
	exists, err = v.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestVectorIndex_Index_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	v := newCreated(t, 3)

	err := v.Index(ctx, domain.Chunk{Content: "x", Embedding: []float32{1, 0}})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestVectorIndex_Search_Empty(t *testing.T) {
	v := newCreated(t, 3)

	hits, err := v.Search(context.Background(), []float32{1, 0, 0}, 3)

	require.NoError(t, err)
	assert.Empty(t, hits, "empty index yields no hits and no error")
}

func TestVectorIndex_Search_RanksBySimilarity(t *testing.T) {
	ctx := context.Background()
	v := newCreated(t, 2)

	require.NoError(t, v.Index(ctx, domain.Chunk{
		Content: "orthogonal", SourceKey: "b.txt", Embedding: []float32{0, 1},
	}))
	require.NoError(t, v.Index(ctx, domain.Chunk{
		Content: "aligned", SourceKey: "a.txt", Embedding: []float32{1, 0},
	}))
	require.NoError(t, v.Index(ctx, domain.Chunk{
		Content: "diagonal", SourceKey: "c.txt", Embedding: []float32{1, 1},
	}))

	hits, err := v.Search(ctx, []float32{1, 0}, 2)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "aligned", hits[0].Content)
	assert.Equal(t, "diagonal", hits[1].Content)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestVectorIndex_Search_RankStable(t *testing.T) {
	ctx := context.Background()
	v := newCreated(t, 2)

	// Two records with identical vectors: rank must follow insertion
	// order on every call.
	require.NoError(t, v.Index(ctx, domain.Chunk{
		Content: "first", SourceKey: "doc1.txt", Embedding: []float32{1, 0},
	}))
	require.NoError(t, v.Index(ctx, domain.Chunk{
		Content: "second", SourceKey: "doc1.txt", Embedding: []float32{1, 0},
	}))

	for i := 0; i < 5; i++ {
		hits, err := v.Search(ctx, []float32{1, 0}, 2)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, "first", hits[0].Content)
		assert.Equal(t, "second", hits[1].Content)
	}
}

func TestVectorIndex_Count(t *testing.T) {
	ctx := context.Background()
	v := newCreated(t, 2)

	count, err := v.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, v.Index(ctx, domain.Chunk{Embedding: []float32{1, 0}}))
	require.NoError(t, v.Index(ctx, domain.Chunk{Embedding: []float32{0, 1}}))

	count, err = v.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}), "mismatched lengths score zero")
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}), "zero vector scores zero")
}
