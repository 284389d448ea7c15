package driving

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// AskService answers a question grounded in retrieved context.
type AskService interface {
	// Ask retrieves context for the question, generates an answer and
	// returns it with the de-duplicated evidence sources. Blank or
	// whitespace-only questions fail with domain.ErrEmptyQuestion
	// before any retrieval happens.
	Ask(ctx context.Context, question string) (domain.Answer, error)
}
