package mcp

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
)

type mockAskService struct {
	answer domain.Answer
	err    error
	asked  string
}

func (m *mockAskService) Ask(_ context.Context, question string) (domain.Answer, error) {
	m.asked = question
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	answer := m.answer
	answer.Question = question
	return answer, nil
}

type mockRetrieveService struct {
	hits []domain.SearchHit
	err  error
	gotK int
}

func (m *mockRetrieveService) Retrieve(_ context.Context, _ string, k int) ([]domain.SearchHit, error) {
	m.gotK = k
	return m.hits, m.err
}

type mockIndexAdmin struct {
	stats driving.IndexStats
	err   error
}

func (m *mockIndexAdmin) Ensure(_ context.Context) error { return m.err }

func (m *mockIndexAdmin) Stats(_ context.Context) (driving.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockIndexAdmin) Reset(_ context.Context) error { return m.err }

func validPorts() *Ports {
	return &Ports{
		Ask:      &mockAskService{},
		Retrieve: &mockRetrieveService{},
	}
}
