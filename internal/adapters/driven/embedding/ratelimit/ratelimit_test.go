package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder records Embed calls.
type countingEmbedder struct {
	calls int
}

func (c *countingEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	c.calls++
	return []float32{1}, nil
}

func (c *countingEmbedder) Dimensions() int { return 1 }

func (c *countingEmbedder) ModelName() string { return "counting" }

func (c *countingEmbedder) Ping(_ context.Context) error { return nil }

func (c *countingEmbedder) Close() error { return nil }

func TestWrap_NoLimitReturnsInner(t *testing.T) {
	inner := &countingEmbedder{}

	assert.Same(t, inner, Wrap(inner, 0).(*countingEmbedder))
	assert.Same(t, inner, Wrap(inner, -1).(*countingEmbedder))
}

func TestEmbeddingService_Delegates(t *testing.T) {
	inner := &countingEmbedder{}
	svc := Wrap(inner, 1000)

	embedding, err := svc.Embed(context.Background(), "text")

	require.NoError(t, err)
	assert.Equal(t, []float32{1}, embedding)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, svc.Dimensions())
	assert.Equal(t, "counting", svc.ModelName())
}

func TestEmbeddingService_Throttles(t *testing.T) {
	inner := &countingEmbedder{}
	// 20 rps with burst 1: the third call cannot start before ~100ms.
	svc := Wrap(inner, 20)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := svc.Embed(ctx, "text")
		require.NoError(t, err)
	}

	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	assert.Equal(t, 3, inner.calls)
}

func TestEmbeddingService_CancelledContext(t *testing.T) {
	// 1 rps with burst 1: the second call must wait, and the cancelled
	// context aborts that wait.
	svc := Wrap(&countingEmbedder{}, 1)

	_, err := svc.Embed(context.Background(), "text")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Embed(ctx, "text")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
}
