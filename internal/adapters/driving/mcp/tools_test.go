package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

func TestHandleAsk(t *testing.T) {
	ask := &mockAskService{answer: domain.Answer{
		Text:    "42",
		Sources: []string{"guide.txt"},
	}}
	server, err := NewServer(&Ports{Ask: ask, Retrieve: &mockRetrieveService{}})
	require.NoError(t, err)

	_, output, err := server.handleAsk(context.Background(), nil, AskInput{Question: "the answer?"})

	require.NoError(t, err)
	assert.Equal(t, "the answer?", ask.asked)
	assert.Equal(t, "42", output.Answer)
	assert.Equal(t, []string{"guide.txt"}, output.Sources)
}

func TestHandleAsk_EmptySourcesIsNotNil(t *testing.T) {
	server, err := NewServer(&Ports{
		Ask:      &mockAskService{answer: domain.Answer{Text: "ok"}},
		Retrieve: &mockRetrieveService{},
	})
	require.NoError(t, err)

	_, output, err := server.handleAsk(context.Background(), nil, AskInput{Question: "q"})

	require.NoError(t, err)
	assert.NotNil(t, output.Sources)
	assert.Empty(t, output.Sources)
}

func TestHandleAsk_Error(t *testing.T) {
	server, err := NewServer(&Ports{
		Ask:      &mockAskService{err: errors.New("llm down")},
		Retrieve: &mockRetrieveService{},
	})
	require.NoError(t, err)

	_, _, err = server.handleAsk(context.Background(), nil, AskInput{Question: "q"})

	assert.EqualError(t, err, "llm down")
}

func TestHandleSearch(t *testing.T) {
	retrieve := &mockRetrieveService{hits: []domain.SearchHit{
		{Content: "first", SourceKey: "a.txt", Score: 0.9},
		{Content: "second", SourceKey: "b.txt", Score: 0.8},
	}}
	server, err := NewServer(&Ports{Ask: &mockAskService{}, Retrieve: retrieve})
	require.NoError(t, err)

	_, output, err := server.handleSearch(context.Background(), nil, SearchInput{Query: "q", K: 2})

	require.NoError(t, err)
	assert.Equal(t, 2, retrieve.gotK)
	assert.Equal(t, 2, output.Count)
	assert.Equal(t, "a.txt", output.Results[0].Source)
	assert.InDelta(t, 0.9, output.Results[0].Score, 1e-9)
	assert.Equal(t, "second", output.Results[1].Content)
}

func TestHandleSearch_Error(t *testing.T) {
	server, err := NewServer(&Ports{
		Ask:      &mockAskService{},
		Retrieve: &mockRetrieveService{err: errors.New("index gone")},
	})
	require.NoError(t, err)

	_, _, err = server.handleSearch(context.Background(), nil, SearchInput{Query: "q"})

	assert.EqualError(t, err, "index gone")
}
