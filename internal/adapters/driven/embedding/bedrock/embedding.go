// Package bedrock provides an embedding service adapter using AWS Bedrock.
package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const serviceName = "bedrock"

// Default configuration values.
const (
	DefaultModel      = "amazon.titan-embed-text-v1"
	DefaultDimensions = 1536 // titan-embed-text-v1 output size
)

// Model dimensions for Bedrock embedding models.
var modelDimensions = map[string]int{
	"amazon.titan-embed-text-v1":   1536,
	"amazon.titan-embed-text-v2:0": 1024,
}

// Client is the part of the Bedrock runtime API this adapter invokes.
// *bedrockruntime.Client satisfies it.
type Client interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Config holds configuration for the Bedrock embedding service.
type Config struct {
	// Model is the embedding model to invoke (default: amazon.titan-embed-text-v1).
	Model string

	// Dimensions overrides the known dimension for the model.
	Dimensions int
}

// EmbeddingService generates embeddings by invoking a Titan text
// embedding model through the Bedrock runtime.
type EmbeddingService struct {
	client     Client
	model      string
	dimensions int
}

// titanRequest is the Titan embedding request body.
type titanRequest struct {
	InputText string `json:"inputText"`
}

// titanResponse is the Titan embedding response body.
type titanResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// NewEmbeddingService creates a new Bedrock embedding service. The client
// carries region and credentials; build it with bedrockruntime.NewFromConfig.
func NewEmbeddingService(client Client, cfg Config) *EmbeddingService {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	dimensions := cfg.Dimensions
	if dimensions == 0 {
		var ok bool
		dimensions, ok = modelDimensions[cfg.Model]
		if !ok {
			dimensions = DefaultDimensions
		}
	}

	return &EmbeddingService{
		client:     client,
		model:      cfg.Model,
		dimensions: dimensions,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	jsonBody, err := json.Marshal(titanRequest{InputText: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	out, err := s.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        jsonBody,
	})
	if err != nil {
		return nil, domain.NewServiceError(serviceName, "embed",
			fmt.Errorf("invoke model %s: %w", s.model, err))
	}

	var embedResp titanResponse
	if err := json.Unmarshal(out.Body, &embedResp); err != nil {
		return nil, domain.NewServiceError(serviceName, "embed",
			fmt.Errorf("decode response: %w", err))
	}

	if len(embedResp.Embedding) == 0 {
		return nil, domain.NewServiceError(serviceName, "embed",
			errors.New("no embedding returned"))
	}

	return embedResp.Embedding, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the model is invocable by embedding a single word.
// Bedrock has no cheaper call that also exercises model access rights.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.Embed(ctx, "ping"); err != nil {
		return fmt.Errorf("bedrock: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	// The SDK client holds no connections that need explicit cleanup
	return nil
}
