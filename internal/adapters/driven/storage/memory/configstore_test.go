package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("index.name", "rag-documents"))
	require.NoError(t, store.Set("search.top_k", 3))
	require.NoError(t, store.Set("embedding.requests_per_second", 1.5))
	require.NoError(t, store.Set("verbose", true))
	require.NoError(t, store.Set("storage.extensions", []string{".txt"}))

	assert.Equal(t, "rag-documents", store.GetString("index.name"))
	assert.Equal(t, 3, store.GetInt("search.top_k"))
	assert.Equal(t, 1.5, store.GetFloat("embedding.requests_per_second"))
	assert.True(t, store.GetBool("verbose"))
	assert.Equal(t, []string{".txt"}, store.GetStringSlice("storage.extensions"))
}

func TestConfigStore_Missing(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("absent")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("absent"))
	assert.Zero(t, store.GetInt("absent"))
	assert.Zero(t, store.GetFloat("absent"))
	assert.False(t, store.GetBool("absent"))
	assert.Nil(t, store.GetStringSlice("absent"))
}

func TestConfigStore_TypeConversions(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("as_int64", int64(42)))
	require.NoError(t, store.Set("as_float", 42.0))
	require.NoError(t, store.Set("slice_any", []any{"a", "b", 3}))

	assert.Equal(t, 42, store.GetInt("as_int64"))
	assert.Equal(t, 42, store.GetInt("as_float"))
	assert.Equal(t, 42.0, store.GetFloat("as_int64"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("slice_any"))
}

func TestConfigStore_Overwrite(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("key", "first"))
	require.NoError(t, store.Set("key", "second"))

	assert.Equal(t, "second", store.GetString("key"))
}

func TestConfigStore_NoopPersistence(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("key", "value"))

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())

	assert.Equal(t, "value", store.GetString("key"))
	assert.Equal(t, ":memory:", store.Path())
}
