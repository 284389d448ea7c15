package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyRegion            = "region"
	keyStorageProvider   = "storage.provider"
	keyStorageBucket     = "storage.bucket"
	keyStoragePrefix     = "storage.prefix"
	keyStorageDir        = "storage.dir"
	keyStorageExtensions = "storage.extensions"
	keyChunkSize         = "chunking.size"
	keyChunkOverlap      = "chunking.overlap"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedRPS          = "embedding.requests_per_second"
	keyEmbedCacheSize    = "embedding.cache_size"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMMaxTokens      = "llm.max_tokens"
	keyIndexProvider     = "index.provider"
	keyIndexName         = "index.name"
	keyIndexEndpoint     = "index.endpoint"
	keyIndexPath         = "index.path"
	keyIndexTimeout      = "index.timeout_seconds"
	keySearchTopK        = "search.top_k"
)

// Environment variables that override stored settings. Deployments set
// these instead of shipping a config file.
const (
	envRegion       = "AWS_REGION"
	envBucket       = "S3_BUCKET_NAME"
	envEndpoint     = "COLLECTION_ENDPOINT"
	envIndexName    = "INDEX_NAME"
	envOpenAIKey    = "OPENAI_API_KEY"
	envAnthropicKey = "ANTHROPIC_API_KEY"
)

// SettingsService manages application settings. Resolution order is
// environment variable, then stored value, then default.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Region: s.getEnvOrString(envRegion, keyRegion, defaults.Region),
		Storage: domain.StorageSettings{
			Provider:   s.getStorageProvider(defaults.Storage.Provider),
			Bucket:     s.getEnvOrString(envBucket, keyStorageBucket, ""),
			Prefix:     s.configStore.GetString(keyStoragePrefix),
			Dir:        s.configStore.GetString(keyStorageDir),
			Extensions: s.getStringSlice(keyStorageExtensions, defaults.Storage.Extensions),
		},
		Chunking: domain.ChunkingSettings{
			Size:    s.getInt(keyChunkSize, defaults.Chunking.Size),
			Overlap: s.getIntAllowZero(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getAIProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			RequestsPerSecond: s.configStore.GetFloat(keyEmbedRPS),
			CacheSize:         s.configStore.GetInt(keyEmbedCacheSize),
		},
		LLM: domain.LLMSettings{
			Provider:  s.getAIProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:     s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:   s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:    s.configStore.GetString(keyLLMAPIKey),
			MaxTokens: s.getInt(keyLLMMaxTokens, defaults.LLM.MaxTokens),
		},
		Index: domain.IndexSettings{
			Provider:       s.getIndexProvider(defaults.Index.Provider),
			Name:           s.getEnvOrString(envIndexName, keyIndexName, defaults.Index.Name),
			Endpoint:       s.getEnvOrString(envEndpoint, keyIndexEndpoint, ""),
			Path:           s.configStore.GetString(keyIndexPath),
			TimeoutSeconds: s.getInt(keyIndexTimeout, defaults.Index.TimeoutSeconds),
		},
		Search: domain.SearchSettings{
			TopK: s.getInt(keySearchTopK, defaults.Search.TopK),
		},
	}

	// An endpoint from the environment implies the remote index even
	// when the stored provider says otherwise.
	if os.Getenv(envEndpoint) != "" && !s.hasStored(keyIndexProvider) {
		settings.Index.Provider = domain.IndexProviderOpenSearch
	}

	// API keys fall back to the conventional environment variables.
	if settings.Embedding.APIKey == "" && settings.Embedding.Provider == domain.AIProviderOpenAI {
		settings.Embedding.APIKey = os.Getenv(envOpenAIKey)
	}
	if settings.LLM.APIKey == "" && settings.LLM.Provider == domain.AIProviderAnthropic {
		settings.LLM.APIKey = os.Getenv(envAnthropicKey)
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyRegion, settings.Region); err != nil {
		return fmt.Errorf("save region: %w", err)
	}

	// Save storage settings
	if err := s.configStore.Set(keyStorageProvider, settings.Storage.Provider.String()); err != nil {
		return fmt.Errorf("save storage provider: %w", err)
	}
	if err := s.configStore.Set(keyStorageBucket, settings.Storage.Bucket); err != nil {
		return fmt.Errorf("save storage bucket: %w", err)
	}
	if err := s.configStore.Set(keyStoragePrefix, settings.Storage.Prefix); err != nil {
		return fmt.Errorf("save storage prefix: %w", err)
	}
	if err := s.configStore.Set(keyStorageDir, settings.Storage.Dir); err != nil {
		return fmt.Errorf("save storage dir: %w", err)
	}
	if err := s.configStore.Set(keyStorageExtensions, settings.Storage.Extensions); err != nil {
		return fmt.Errorf("save storage extensions: %w", err)
	}

	// Save chunking settings
	if err := s.configStore.Set(keyChunkSize, settings.Chunking.Size); err != nil {
		return fmt.Errorf("save chunk size: %w", err)
	}
	if err := s.configStore.Set(keyChunkOverlap, settings.Chunking.Overlap); err != nil {
		return fmt.Errorf("save chunk overlap: %w", err)
	}

	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyEmbedRPS, settings.Embedding.RequestsPerSecond); err != nil {
		return fmt.Errorf("save embedding rate: %w", err)
	}
	if err := s.configStore.Set(keyEmbedCacheSize, settings.Embedding.CacheSize); err != nil {
		return fmt.Errorf("save embedding cache size: %w", err)
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyLLMMaxTokens, settings.LLM.MaxTokens); err != nil {
		return fmt.Errorf("save llm max_tokens: %w", err)
	}

	// Save index settings
	if err := s.configStore.Set(keyIndexProvider, settings.Index.Provider.String()); err != nil {
		return fmt.Errorf("save index provider: %w", err)
	}
	if err := s.configStore.Set(keyIndexName, settings.Index.Name); err != nil {
		return fmt.Errorf("save index name: %w", err)
	}
	if err := s.configStore.Set(keyIndexEndpoint, settings.Index.Endpoint); err != nil {
		return fmt.Errorf("save index endpoint: %w", err)
	}
	if err := s.configStore.Set(keyIndexPath, settings.Index.Path); err != nil {
		return fmt.Errorf("save index path: %w", err)
	}
	if err := s.configStore.Set(keyIndexTimeout, settings.Index.TimeoutSeconds); err != nil {
		return fmt.Errorf("save index timeout: %w", err)
	}

	// Save search settings
	if err := s.configStore.Set(keySearchTopK, settings.Search.TopK); err != nil {
		return fmt.Errorf("save search top_k: %w", err)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Validate checks that current settings can run the pipeline.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Storage.IsConfigured() {
		return fmt.Errorf("storage provider %q is not configured", settings.Storage.Provider)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %q is not configured", settings.Embedding.Provider)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("llm provider %q is not configured", settings.LLM.Provider)
	}
	if !settings.Index.IsConfigured() {
		return fmt.Errorf("index provider %q is not configured", settings.Index.Provider)
	}

	if settings.Chunking.Size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", settings.Chunking.Size)
	}
	if settings.Chunking.Overlap < 0 || settings.Chunking.Overlap >= settings.Chunking.Size {
		return fmt.Errorf("chunk overlap %d must be in [0, %d)",
			settings.Chunking.Overlap, settings.Chunking.Size)
	}
	if settings.Search.TopK <= 0 {
		return fmt.Errorf("search top_k must be positive, got %d", settings.Search.TopK)
	}

	return nil
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getEnvOrString(env, key, defaultVal string) string {
	if val := os.Getenv(env); val != "" {
		return val
	}
	return s.getString(key, defaultVal)
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntAllowZero distinguishes a stored zero from an absent key, so an
// explicit zero (e.g. no chunk overlap) survives the round trip.
func (s *SettingsService) getIntAllowZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) hasStored(key string) bool {
	_, exists := s.configStore.Get(key)
	return exists
}

func (s *SettingsService) getAIProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getStorageProvider(defaultVal domain.StorageProvider) domain.StorageProvider {
	val := s.configStore.GetString(keyStorageProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.StorageProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getIndexProvider(defaultVal domain.IndexProvider) domain.IndexProvider {
	val := s.configStore.GetString(keyIndexProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.IndexProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
