package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

func TestConfigValidator_ValidateEmbedding_Unconfigured(t *testing.T) {
	v := NewConfigValidator()

	err := v.ValidateEmbedding(context.Background(), "us-east-1", &domain.EmbeddingSettings{})

	require.Error(t, err, "an unconfigured provider cannot validate")
}

func TestConfigValidator_ValidateLLM_Unconfigured(t *testing.T) {
	v := NewConfigValidator()

	err := v.ValidateLLM(context.Background(), "us-east-1", &domain.LLMSettings{
		Provider: domain.AIProviderAnthropic, // no API key
	})

	require.Error(t, err)
}
