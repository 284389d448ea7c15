package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or completion.
type AIProvider string

// Available AI providers.
const (
	// AIProviderBedrock is AWS Bedrock runtime.
	AIProviderBedrock AIProvider = "bedrock"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderBedrock, AIProviderOpenAI, AIProviderAnthropic, AIProviderOllama:
		return true
	default:
		return false
	}
}

// SupportsEmbedding returns true if this provider can serve embedding requests.
func (p AIProvider) SupportsEmbedding() bool {
	return p == AIProviderBedrock || p == AIProviderOpenAI || p == AIProviderOllama
}

// SupportsLLM returns true if this provider can serve completion requests.
func (p AIProvider) SupportsLLM() bool {
	return p == AIProviderBedrock || p == AIProviderAnthropic || p == AIProviderOllama
}

// RequiresAPIKey returns true if this provider needs an API key.
// Bedrock authenticates with AWS credentials instead.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderBedrock:
		return "AWS Bedrock (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// IndexProvider identifies a vector index backend.
type IndexProvider string

// Available index providers.
const (
	// IndexProviderOpenSearch is an OpenSearch endpoint with a knn index.
	IndexProviderOpenSearch IndexProvider = "opensearch"

	// IndexProviderPGVector is PostgreSQL with the pgvector extension.
	IndexProviderPGVector IndexProvider = "pgvector"

	// IndexProviderSQLite is a local SQLite file with exact scan search.
	IndexProviderSQLite IndexProvider = "sqlite"

	// IndexProviderMemory is an in-process index. Nothing survives restart.
	IndexProviderMemory IndexProvider = "memory"
)

// IsValid returns true if the index provider is recognised.
func (p IndexProvider) IsValid() bool {
	switch p {
	case IndexProviderOpenSearch, IndexProviderPGVector, IndexProviderSQLite, IndexProviderMemory:
		return true
	default:
		return false
	}
}

// RequiresEndpoint returns true if this provider needs a remote endpoint
// or connection string. Missing endpoint for such a provider is a hard
// startup error.
func (p IndexProvider) RequiresEndpoint() bool {
	return p == IndexProviderOpenSearch || p == IndexProviderPGVector
}

// String returns the string representation.
func (p IndexProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p IndexProvider) Description() string {
	switch p {
	case IndexProviderOpenSearch:
		return "OpenSearch (remote knn index)"
	case IndexProviderPGVector:
		return "PostgreSQL + pgvector (remote)"
	case IndexProviderSQLite:
		return "SQLite (local file)"
	case IndexProviderMemory:
		return "Memory (ephemeral)"
	default:
		return unknownDescription
	}
}

// StorageProvider identifies where documents are ingested from.
type StorageProvider string

// Available storage providers.
const (
	// StorageProviderS3 lists and reads objects from an S3 bucket.
	StorageProviderS3 StorageProvider = "s3"

	// StorageProviderFilesystem reads files from a local directory.
	StorageProviderFilesystem StorageProvider = "filesystem"
)

// IsValid returns true if the storage provider is recognised.
func (p StorageProvider) IsValid() bool {
	switch p {
	case StorageProviderS3, StorageProviderFilesystem:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p StorageProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p StorageProvider) Description() string {
	switch p {
	case StorageProviderS3:
		return "Amazon S3 bucket"
	case StorageProviderFilesystem:
		return "Local directory"
	default:
		return unknownDescription
	}
}

// AllEmbeddingProviders returns providers that can serve embeddings,
// in menu order.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderBedrock, AIProviderOpenAI, AIProviderOllama}
}

// AllLLMProviders returns providers that can serve completions, in menu order.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderBedrock, AIProviderAnthropic, AIProviderOllama}
}

// AllIndexProviders returns the vector index backends, in menu order.
func AllIndexProviders() []IndexProvider {
	return []IndexProvider{IndexProviderSQLite, IndexProviderOpenSearch, IndexProviderPGVector, IndexProviderMemory}
}

// AllStorageProviders returns the document storage backends, in menu order.
func AllStorageProviders() []StorageProvider {
	return []StorageProvider{StorageProviderS3, StorageProviderFilesystem}
}

// DefaultEmbeddingModels maps each embedding provider to its default model.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderBedrock: DefaultEmbeddingModel,
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderOllama:  "nomic-embed-text",
	}
}

// DefaultLLMModels maps each completion provider to its default model.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderBedrock:   DefaultLLMModel,
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderOllama:    "llama3",
	}
}

// EmbeddingDimensions maps known embedding models to their vector size.
// Models not listed here fall back to DefaultEmbeddingDimension.
var EmbeddingDimensions = map[string]int{
	"amazon.titan-embed-text-v1":   1536,
	"amazon.titan-embed-text-v2:0": 1024,
	"text-embedding-3-small":       1536,
	"text-embedding-3-large":       3072,
	"text-embedding-ada-002":       1536,
	"nomic-embed-text":             768,
	"mxbai-embed-large":            1024,
	"all-minilm":                   384,
}

// DefaultEmbeddingDimension is used when a model is not in EmbeddingDimensions.
const DefaultEmbeddingDimension = 1536

// DimensionForModel returns the embedding vector size for a model name.
func DimensionForModel(model string) int {
	if dim, ok := EmbeddingDimensions[model]; ok {
		return dim
	}
	return DefaultEmbeddingDimension
}

// Default model identifiers.
const (
	// DefaultEmbeddingModel is the Bedrock Titan text embedding model.
	DefaultEmbeddingModel = "amazon.titan-embed-text-v1"

	// DefaultLLMModel is the Bedrock Claude completion model.
	DefaultLLMModel = "us.anthropic.claude-3-5-sonnet-20241022-v2:0"
)

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// RequestsPerSecond throttles embedding calls during ingestion.
	// Zero means unlimited.
	RequestsPerSecond float64

	// CacheSize is the number of query embeddings kept in the LRU
	// cache on the retrieval path. Zero disables the cache.
	CacheSize int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || !e.Provider.SupportsEmbedding() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds completion provider configuration.
type LLMSettings struct {
	// Provider is the completion service provider.
	Provider AIProvider

	// Model is the completion model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for Anthropic).
	APIKey string

	// MaxTokens bounds the generated output length.
	MaxTokens int
}

// IsConfigured returns true if the completion provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || !l.Provider.SupportsLLM() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// IndexSettings holds vector index configuration.
type IndexSettings struct {
	// Provider is the index backend.
	Provider IndexProvider

	// Name is the index name (OpenSearch index, Postgres table,
	// SQLite logical index).
	Name string

	// Endpoint is the OpenSearch URL or Postgres connection string.
	Endpoint string

	// Path is the SQLite database file. Empty means the default
	// location under the config directory.
	Path string

	// TimeoutSeconds is the client timeout for remote index calls.
	TimeoutSeconds int
}

// IsConfigured returns true if the index provider is set up.
func (i IndexSettings) IsConfigured() bool {
	if !i.Provider.IsValid() {
		return false
	}
	if i.Provider.RequiresEndpoint() && i.Endpoint == "" {
		return false
	}
	return true
}

// StorageSettings holds document storage configuration.
type StorageSettings struct {
	// Provider is the storage backend.
	Provider StorageProvider

	// Bucket is the S3 bucket name.
	Bucket string

	// Prefix restricts S3 listing to a key prefix.
	Prefix string

	// Dir is the local directory for the filesystem provider.
	Dir string

	// Extensions are the recognised document extensions.
	Extensions []string
}

// IsConfigured returns true if the storage provider is set up.
func (s StorageSettings) IsConfigured() bool {
	switch s.Provider {
	case StorageProviderS3:
		return s.Bucket != ""
	case StorageProviderFilesystem:
		return s.Dir != ""
	default:
		return false
	}
}

// ChunkingSettings holds word-window chunking parameters.
type ChunkingSettings struct {
	// Size is the window length in words.
	Size int

	// Overlap is the number of words shared by consecutive chunks.
	Overlap int
}

// SearchSettings holds retrieval configuration.
type SearchSettings struct {
	// TopK is the number of hits retrieved per question.
	TopK int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Region is the AWS region for S3, Bedrock and SigV4 signing.
	Region string

	// Storage holds document storage settings.
	Storage StorageSettings

	// Chunking holds chunking parameters.
	Chunking ChunkingSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds completion provider settings.
	LLM LLMSettings

	// Index holds vector index settings.
	Index IndexSettings

	// Search holds retrieval settings.
	Search SearchSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The index defaults to a local SQLite file so the CLI works without
// a remote collection; storage and AI default to the AWS stack and
// pick up credentials from the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Region: "us-east-1",
		Storage: StorageSettings{
			Provider:   StorageProviderS3,
			Extensions: []string{".txt"},
		},
		Chunking: ChunkingSettings{
			Size:    500,
			Overlap: 50,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderBedrock,
			Model:    DefaultEmbeddingModel,
		},
		LLM: LLMSettings{
			Provider:  AIProviderBedrock,
			Model:     DefaultLLMModel,
			MaxTokens: 1000,
		},
		Index: IndexSettings{
			Provider:       IndexProviderSQLite,
			Name:           "rag-documents",
			TimeoutSeconds: 300,
		},
		Search: SearchSettings{
			TopK: 3,
		},
	}
}
