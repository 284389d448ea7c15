// Package bedrock provides an LLM service adapter using AWS Bedrock.
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

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

const serviceName = "bedrock"

// Default configuration values.
const (
	DefaultModel     = "us.anthropic.claude-3-5-sonnet-20241022-v2:0"
	DefaultMaxTokens = 1000

	// anthropicVersion is the fixed version marker Bedrock requires in
	// the request body for Claude models.
	anthropicVersion = "bedrock-2023-05-31"
)

// Client is the part of the Bedrock runtime API this adapter invokes.
// *bedrockruntime.Client satisfies it.
type Client interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Config holds configuration for the Bedrock LLM service.
type Config struct {
	// Model is the model or inference profile to invoke
	// (default: us.anthropic.claude-3-5-sonnet-20241022-v2:0).
	Model string
}

// LLMService produces completions by invoking a Claude model through the
// Bedrock runtime messages payload.
type LLMService struct {
	client Client
	model  string
}

// messagesRequest is the Claude-on-Bedrock request body.
type messagesRequest struct {
	AnthropicVersion string            `json:"anthropic_version"`
	MaxTokens        int               `json:"max_tokens"`
	Messages         []messagesMessage `json:"messages"`
	Temperature      float64           `json:"temperature,omitempty"`
	StopSequences    []string          `json:"stop_sequences,omitempty"`
}

// messagesMessage is one conversation turn.
type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Claude-on-Bedrock response body.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// NewLLMService creates a new Bedrock LLM service. The client carries
// region and credentials; build it with bedrockruntime.NewFromConfig.
func NewLLMService(client Client, cfg Config) *LLMService {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	return &LLMService{
		client: client,
		model:  cfg.Model,
	}
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	reqBody := messagesRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Messages: []messagesMessage{
			{Role: "user", Content: prompt},
		},
	}
	if opts.Temperature > 0 {
		reqBody.Temperature = opts.Temperature
	}
	if len(opts.StopSequences) > 0 {
		reqBody.StopSequences = opts.StopSequences
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	out, err := s.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        jsonBody,
	})
	if err != nil {
		return "", domain.NewServiceError(serviceName, "generate",
			fmt.Errorf("invoke model %s: %w", s.model, err))
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(out.Body, &msgResp); err != nil {
		return "", domain.NewServiceError(serviceName, "generate",
			fmt.Errorf("decode response: %w", err))
	}

	if len(msgResp.Content) == 0 {
		return "", domain.NewServiceError(serviceName, "generate",
			errors.New("no response content returned"))
	}

	return msgResp.Content[0].Text, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the model is invocable with a one-token completion.
// Bedrock has no cheaper call that also exercises model access rights.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.Generate(ctx, "ping", driven.GenerateOptions{MaxTokens: 1}); err != nil {
		return fmt.Errorf("bedrock: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// The SDK client holds no connections that need explicit cleanup
	return nil
}
