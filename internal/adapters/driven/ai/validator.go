package ai

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates AI provider configurations. The settings
// wizard runs it before saving so bad credentials fail at configuration
// time, not on the first question.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding validates an embedding configuration by creating the
// service and pinging it.
func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, region string, config *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(ctx, region, config)
	if err != nil {
		return err
	}
	defer svc.Close()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(pingCtx)
}

// ValidateLLM validates an LLM configuration by creating the service and
// pinging it.
func (v *ConfigValidator) ValidateLLM(ctx context.Context, region string, config *domain.LLMSettings) error {
	svc, err := CreateLLMService(ctx, region, config)
	if err != nil {
		return err
	}
	defer svc.Close()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(pingCtx)
}
