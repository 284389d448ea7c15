package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrEmptyQuestion", ErrEmptyQuestion},
		{"ErrNotConfigured", ErrNotConfigured},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrInvalidChunking", ErrInvalidChunking},
		{"ErrDimensionUnknown", ErrDimensionUnknown},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrIndexUnavailable", ErrIndexUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrEmptyQuestion tests the validation sentinel
func TestErrEmptyQuestion(t *testing.T) {
	assert.Equal(t, "no question provided", ErrEmptyQuestion.Error())
	assert.True(t, errors.Is(ErrEmptyQuestion, ErrEmptyQuestion))
	assert.False(t, errors.Is(ErrEmptyQuestion, ErrInvalidInput))
}

// TestServiceError_Error tests message formatting
func TestServiceError_Error(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewServiceError("opensearch", "search", cause)

	assert.Equal(t, "opensearch: search: connection refused", err.Error())
}

// TestServiceError_Unwrap tests that the cause is reachable via errors.Is
func TestServiceError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewServiceError("bedrock", "invoke", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, cause, err.Unwrap())
}

// TestIsServiceError tests detection through wrapping
func TestIsServiceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "direct service error",
			err:      NewServiceError("s3", "list", errors.New("denied")),
			expected: true,
		},
		{
			name:     "wrapped service error",
			err:      fmt.Errorf("ingest: %w", NewServiceError("s3", "get", errors.New("denied"))),
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("denied"),
			expected: false,
		},
		{
			name:     "validation sentinel",
			err:      ErrEmptyQuestion,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsServiceError(tt.err))
		})
	}
}

// TestIsValidation tests the validation classifier
func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrEmptyQuestion))
	assert.True(t, IsValidation(fmt.Errorf("ask: %w", ErrEmptyQuestion)))
	assert.True(t, IsValidation(ErrInvalidInput))
	assert.False(t, IsValidation(NewServiceError("llm", "generate", errors.New("boom"))))
	assert.False(t, IsValidation(nil))
}
