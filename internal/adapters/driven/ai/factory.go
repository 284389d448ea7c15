// Package ai builds the external collaborator clients from settings:
// embedding service, LLM, vector index and object store. It is the one
// place provider names turn into concrete adapters; everything above it
// sees only the driven ports.
package ai

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	bedrockembed "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/embedding/bedrock"
	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/embedding/cache"
	ollamaembed "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/embedding/ratelimit"
	indexmemory "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/index/memory"
	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/index/opensearch"
	indexpgvector "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/index/pgvector"
	indexsqlite "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/index/sqlite"
	anthropicllm "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/llm/anthropic"
	bedrockllm "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/llm/bedrock"
	ollamallm "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/llm/ollama"
	fsstore "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/objectstore/filesystem"
	s3store "github.com/custodia-labs/retrieva-cli/internal/adapters/driven/objectstore/s3"
	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Clients bundles the external collaborators one process needs,
// constructed once at startup and injected into the services.
type Clients struct {
	Embedding driven.EmbeddingService
	LLM       driven.LLMService
	Index     driven.VectorIndex
	Store     driven.ObjectStore
}

// Close releases all resources held by the clients.
func (c *Clients) Close() {
	if c.Embedding != nil {
		c.Embedding.Close()
	}
	if c.LLM != nil {
		c.LLM.Close()
	}
	if c.Index != nil {
		c.Index.Close()
	}
	if c.Store != nil {
		c.Store.Close()
	}
}

// Setup builds every collaborator the settings describe. The embedding
// service comes wrapped in the rate-limit and cache decorators when
// those knobs are set. The object store is only built when storage is
// configured; ask-only deployments run without one.
func Setup(ctx context.Context, settings *domain.AppSettings) (*Clients, error) {
	clients := &Clients{}

	embedder, err := CreateEmbeddingService(ctx, settings.Region, &settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	embedder = ratelimit.Wrap(embedder, settings.Embedding.RequestsPerSecond)
	if settings.Embedding.CacheSize > 0 {
		embedder, err = cache.Wrap(embedder, settings.Embedding.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
	}
	clients.Embedding = embedder

	clients.LLM, err = CreateLLMService(ctx, settings.Region, &settings.LLM)
	if err != nil {
		clients.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	clients.Index, err = CreateVectorIndex(ctx, settings.Region, &settings.Index)
	if err != nil {
		clients.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}

	if settings.Storage.IsConfigured() {
		clients.Store, err = CreateObjectStore(ctx, settings.Region, &settings.Storage)
		if err != nil {
			clients.Close()
			return nil, err
		}
	}

	return clients, nil
}

// CreateEmbeddingService creates the embedding service the settings name.
func CreateEmbeddingService(ctx context.Context, region string, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("embedding provider is not configured")
	}

	switch settings.Provider {
	case domain.AIProviderBedrock:
		client, err := bedrockClient(ctx, region)
		if err != nil {
			return nil, err
		}
		return bedrockembed.NewEmbeddingService(client, bedrockembed.Config{
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions[settings.Model],
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions[settings.Model],
		})

	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions[settings.Model],
		}), nil

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("anthropic does not serve embeddings, use bedrock, openai or ollama")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the completion service the settings name.
func CreateLLMService(ctx context.Context, region string, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("LLM provider is not configured")
	}

	switch settings.Provider {
	case domain.AIProviderBedrock:
		client, err := bedrockClient(ctx, region)
		if err != nil {
			return nil, err
		}
		return bedrockllm.NewLLMService(client, bedrockllm.Config{
			Model: settings.Model,
		}), nil

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return nil, fmt.Errorf("openai completion is not wired, use bedrock, anthropic or ollama")

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateVectorIndex creates the vector index backend the settings name.
func CreateVectorIndex(ctx context.Context, region string, settings *domain.IndexSettings) (driven.VectorIndex, error) {
	if settings == nil || !settings.IsConfigured() {
		if settings != nil && settings.Provider.RequiresEndpoint() {
			return nil, fmt.Errorf("%w: index provider %s needs an endpoint",
				domain.ErrNotConfigured, settings.Provider)
		}
		return nil, fmt.Errorf("%w: index provider", domain.ErrNotConfigured)
	}

	switch settings.Provider {
	case domain.IndexProviderOpenSearch:
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return opensearch.NewVectorIndex(opensearch.Config{
			Endpoint:    settings.Endpoint,
			Index:       settings.Name,
			Timeout:     time.Duration(settings.TimeoutSeconds) * time.Second,
			Credentials: cfg.Credentials,
			Region:      region,
		})

	case domain.IndexProviderPGVector:
		return indexpgvector.NewVectorIndex(ctx, settings.Endpoint, settings.Name)

	case domain.IndexProviderSQLite:
		return indexsqlite.NewVectorIndex(settings.Path, settings.Name)

	case domain.IndexProviderMemory:
		return indexmemory.NewVectorIndex(), nil

	default:
		return nil, fmt.Errorf("unsupported index provider: %s", settings.Provider)
	}
}

// CreateObjectStore creates the document storage backend the settings name.
func CreateObjectStore(ctx context.Context, region string, settings *domain.StorageSettings) (driven.ObjectStore, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: storage provider", domain.ErrNotConfigured)
	}

	switch settings.Provider {
	case domain.StorageProviderS3:
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return s3store.NewObjectStore(awss3.NewFromConfig(cfg), s3store.Config{
			Bucket: settings.Bucket,
			Prefix: settings.Prefix,
		})

	case domain.StorageProviderFilesystem:
		return fsstore.NewObjectStore(settings.Dir)

	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", settings.Provider)
	}
}

// bedrockClient builds a Bedrock runtime client for the region using the
// default credential chain.
func bedrockClient(ctx context.Context, region string) (*bedrockruntime.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return bedrockruntime.NewFromConfig(cfg), nil
}
