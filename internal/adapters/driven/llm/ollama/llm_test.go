package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

func TestLLMService_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "the prompt", req.Prompt)
		assert.False(t, req.Stream)

		_, _ = w.Write([]byte(`{"response": "generated answer", "done": true}`))
	}))
	defer srv.Close()

	svc := NewLLMService(Config{BaseURL: srv.URL})

	text, err := svc.Generate(context.Background(), "the prompt", driven.GenerateOptions{})

	require.NoError(t, err)
	assert.Equal(t, "generated answer", text)
}

func TestLLMService_Generate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewLLMService(Config{BaseURL: srv.URL})

	_, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{})

	require.Error(t, err)
	var svcErr *domain.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "ollama", svcErr.Service)
	assert.Equal(t, "generate", svcErr.Op)
	assert.Contains(t, err.Error(), "status 404")
}

func TestLLMService_Generate_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	svc := NewLLMService(Config{BaseURL: srv.URL})

	_, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{})

	require.Error(t, err)
	assert.True(t, domain.IsServiceError(err))
}

func TestLLMService_Generate_BadResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	svc := NewLLMService(Config{BaseURL: srv.URL})

	_, err := svc.Generate(context.Background(), "prompt", driven.GenerateOptions{})

	require.Error(t, err)
	assert.True(t, domain.IsServiceError(err))
	assert.Contains(t, err.Error(), "decode response")
}
