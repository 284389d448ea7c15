package services

import (
	"context"
	"errors"
	"strings"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	embedding []float32
	embedErr  error
	failOn    string
	dims      int
	calls     int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.failOn != "" && strings.Contains(text, m.failOn) {
		return nil, errors.New("embedding failed")
	}
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.embedding != nil {
		return m.embedding, nil
	}
	return make([]float32, m.Dimensions()), nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 1536
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	exists       bool
	existsErr    error
	createErr    error
	dimension    int
	dimensionErr error
	indexErr     error
	searchErr    error
	count        int64
	countErr     error
	dropErr      error
	hits         []domain.SearchHit
	indexed      []domain.Chunk
	created      *driven.IndexSchema
	dropped      bool
}

func (m *mockVectorIndex) Exists(_ context.Context) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.exists, nil
}

func (m *mockVectorIndex) Create(_ context.Context, schema driven.IndexSchema) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = &schema
	m.exists = true
	return nil
}

func (m *mockVectorIndex) Dimension(_ context.Context) (int, error) {
	if m.dimensionErr != nil {
		return 0, m.dimensionErr
	}
	return m.dimension, nil
}

func (m *mockVectorIndex) Index(_ context.Context, chunk domain.Chunk) error {
	if m.indexErr != nil {
		return m.indexErr
	}
	m.indexed = append(m.indexed, chunk)
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]domain.SearchHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Count(_ context.Context) (int64, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	if m.count > 0 {
		return m.count, nil
	}
	return int64(len(m.indexed)), nil
}

func (m *mockVectorIndex) Drop(_ context.Context) error {
	if m.dropErr != nil {
		return m.dropErr
	}
	m.dropped = true
	m.exists = false
	m.indexed = nil
	return nil
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	response    string
	generateErr error
	lastPrompt  string
	lastOpts    driven.GenerateOptions
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.lastPrompt = prompt
	m.lastOpts = opts
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockRetrieveService implements driving.RetrieveService for testing.
type mockRetrieveService struct {
	hits        []domain.SearchHit
	retrieveErr error
	lastQuery   string
	lastK       int
}

func (m *mockRetrieveService) Retrieve(_ context.Context, query string, k int) ([]domain.SearchHit, error) {
	m.lastQuery = query
	m.lastK = k
	if m.retrieveErr != nil {
		return nil, m.retrieveErr
	}
	return m.hits, nil
}

// mockObjectStore implements driven.ObjectStore for testing.
type mockObjectStore struct {
	objects []driven.ObjectInfo
	listErr error
	data    map[string][]byte
	getErr  map[string]error
}

func (m *mockObjectStore) List(_ context.Context) ([]driven.ObjectInfo, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.objects, nil
}

func (m *mockObjectStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := m.getErr[key]; err != nil {
		return nil, err
	}
	return m.data[key], nil
}

func (m *mockObjectStore) Close() error {
	return nil
}

// mockConfigStore implements driven.ConfigStore for testing.
type mockConfigStore struct {
	values map[string]any
	setErr error
	path   string
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	switch v := m.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfigStore) GetStringSlice(key string) []string {
	if v, ok := m.values[key].([]string); ok {
		return v
	}
	return nil
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error {
	return nil
}

func (m *mockConfigStore) Load() error {
	return nil
}

func (m *mockConfigStore) Path() string {
	return m.path
}
