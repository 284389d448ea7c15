package driving

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// RetrieveService finds the stored chunks most similar to a query.
type RetrieveService interface {
	// Retrieve embeds the query and returns up to k hits, most similar
	// first. Non-positive k falls back to the configured default.
	Retrieve(ctx context.Context, query string, k int) ([]domain.SearchHit, error)
}
