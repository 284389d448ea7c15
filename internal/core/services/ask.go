package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
)

// Ensure Asker implements the interface.
var _ driving.AskService = (*Asker)(nil)

// DefaultMaxTokens caps the length of a generated answer.
const DefaultMaxTokens = 1000

// answerInstruction is the fixed preamble placed before the retrieved
// context and the question.
const answerInstruction = "Based on the following context, please answer the question."

// Asker answers questions over the indexed corpus. It retrieves the most
// similar chunks, assembles them into a prompt and asks the language model
// for an answer grounded in that context.
type Asker struct {
	retriever driving.RetrieveService
	llm       driven.LLMService
	maxTokens int
	logger    *zap.Logger
}

// NewAsker creates an ask service. maxTokens <= 0 falls back to
// DefaultMaxTokens.
func NewAsker(
	retriever driving.RetrieveService,
	llm driven.LLMService,
	maxTokens int,
	logger *zap.Logger,
) *Asker {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Asker{
		retriever: retriever,
		llm:       llm,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

// Ask answers the question from the indexed corpus. A blank question fails
// with domain.ErrEmptyQuestion before any backend is touched. The answer
// carries the deduplicated source keys of the chunks that informed it, in
// retrieval order.
func (a *Asker) Ask(ctx context.Context, question string) (domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return domain.Answer{}, domain.ErrEmptyQuestion
	}

	hits, err := a.retriever.Retrieve(ctx, question, 0)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("retrieve context: %w", err)
	}

	prompt := buildPrompt(question, buildContext(hits))

	text, err := a.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	a.logger.Debug("answered question",
		zap.Int("hits", len(hits)),
		zap.Int("answer_len", len(text)))

	return domain.Answer{
		Question: question,
		Text:     text,
		Sources:  domain.UniqueSources(hits),
	}, nil
}

// buildContext renders the retrieved chunks as attributed blocks. Each
// block names the source object the chunk came from so the model can cite
// it in the answer.
func buildContext(hits []domain.SearchHit) string {
	blocks := make([]string, 0, len(hits))
	for _, hit := range hits {
		blocks = append(blocks, fmt.Sprintf("[From %s]\n%s", hit.SourceKey, hit.Content))
	}
	return strings.Join(blocks, "\n\n")
}

// buildPrompt assembles the full prompt sent to the model. The shape is
// fixed so answers stay comparable across providers.
func buildPrompt(question, context string) string {
	return fmt.Sprintf("%s\n\nContext:\n%s\n\nQuestion: %s\n\nAnswer:",
		answerInstruction, context, question)
}
