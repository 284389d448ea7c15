package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

func TestAsker_Ask_EmptyQuestion(t *testing.T) {
	tests := []struct {
		name     string
		question string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"tabs and newlines", " \t\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retriever := &mockRetrieveService{}
			llm := &mockLLMService{}
			asker := NewAsker(retriever, llm, 0, zap.NewNop())

			_, err := asker.Ask(context.Background(), tt.question)

			require.ErrorIs(t, err, domain.ErrEmptyQuestion)
			assert.True(t, domain.IsValidation(err))
			assert.Empty(t, retriever.lastQuery, "retriever must not be called")
			assert.Empty(t, llm.lastPrompt, "llm must not be called")
		})
	}
}

func TestAsker_Ask(t *testing.T) {
	retriever := &mockRetrieveService{hits: testHits()}
	llm := &mockLLMService{response: "Alpha is the first letter."}
	asker := NewAsker(retriever, llm, 0, zap.NewNop())

	answer, err := asker.Ask(context.Background(), "What is alpha?")

	require.NoError(t, err)
	assert.Equal(t, "What is alpha?", answer.Question)
	assert.Equal(t, "Alpha is the first letter.", answer.Text)
	assert.Equal(t, []string{"a.txt", "b.txt"}, answer.Sources)
	assert.Equal(t, "What is alpha?", retriever.lastQuery)
}

func TestAsker_Ask_PromptShape(t *testing.T) {
	retriever := &mockRetrieveService{hits: []domain.SearchHit{
		{Content: "chunk one", SourceKey: "one.txt", Score: 0.9},
		{Content: "chunk two", SourceKey: "two.txt", Score: 0.8},
	}}
	llm := &mockLLMService{response: "answer"}
	asker := NewAsker(retriever, llm, 0, zap.NewNop())

	_, err := asker.Ask(context.Background(), "How many chunks?")
	require.NoError(t, err)

	prompt := llm.lastPrompt
	assert.True(t, strings.HasPrefix(prompt, answerInstruction))
	assert.Contains(t, prompt, "[From one.txt]\nchunk one")
	assert.Contains(t, prompt, "[From two.txt]\nchunk two")
	assert.Contains(t, prompt, "\n\nQuestion: How many chunks?\n\nAnswer:")

	// Blocks are separated by a blank line.
	assert.Contains(t, prompt, "chunk one\n\n[From two.txt]")
}

func TestAsker_Ask_NoHits(t *testing.T) {
	retriever := &mockRetrieveService{}
	llm := &mockLLMService{response: "I don't have enough context."}
	asker := NewAsker(retriever, llm, 0, zap.NewNop())

	answer, err := asker.Ask(context.Background(), "Anything there?")

	require.NoError(t, err)
	assert.Equal(t, "I don't have enough context.", answer.Text)
	assert.NotNil(t, answer.Sources)
	assert.Empty(t, answer.Sources)

	// The model is still consulted, with an empty context section.
	assert.Contains(t, llm.lastPrompt, "Context:\n\n\nQuestion:")
}

func TestAsker_Ask_MaxTokens(t *testing.T) {
	retriever := &mockRetrieveService{hits: testHits()}
	llm := &mockLLMService{response: "answer"}

	asker := NewAsker(retriever, llm, 0, zap.NewNop())
	_, err := asker.Ask(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTokens, llm.lastOpts.MaxTokens)

	asker = NewAsker(retriever, llm, 256, zap.NewNop())
	_, err = asker.Ask(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, 256, llm.lastOpts.MaxTokens)
}

func TestAsker_Ask_RetrieveError(t *testing.T) {
	retriever := &mockRetrieveService{retrieveErr: errors.New("index down")}
	llm := &mockLLMService{}
	asker := NewAsker(retriever, llm, 0, zap.NewNop())

	_, err := asker.Ask(context.Background(), "question")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieve context")
	assert.Empty(t, llm.lastPrompt, "llm must not be called")
}

func TestAsker_Ask_GenerateError(t *testing.T) {
	retriever := &mockRetrieveService{hits: testHits()}
	llm := &mockLLMService{generateErr: errors.New("model overloaded")}
	asker := NewAsker(retriever, llm, 0, zap.NewNop())

	_, err := asker.Ask(context.Background(), "question")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate answer")
}

func TestBuildContext(t *testing.T) {
	hits := []domain.SearchHit{
		{Content: "first", SourceKey: "a.txt"},
		{Content: "second", SourceKey: "b.txt"},
	}

	got := buildContext(hits)

	assert.Equal(t, "[From a.txt]\nfirst\n\n[From b.txt]\nsecond", got)
}

func TestBuildContext_Empty(t *testing.T) {
	assert.Equal(t, "", buildContext(nil))
}

func TestBuildPrompt(t *testing.T) {
	got := buildPrompt("why?", "[From a.txt]\nbecause")

	want := "Based on the following context, please answer the question." +
		"\n\nContext:\n[From a.txt]\nbecause\n\nQuestion: why?\n\nAnswer:"
	assert.Equal(t, want, got)
}
