package domain

// SearchHit represents a single similarity match from the vector index.
// Hits are returned most similar first; rank order is the return order.
type SearchHit struct {
	// Content is the stored chunk text.
	Content string

	// SourceKey identifies the document the chunk came from.
	SourceKey string

	// Score is the similarity score reported by the index.
	// Higher is more similar. Scores from different index providers
	// are not comparable with each other.
	Score float64
}

// UniqueSources returns the de-duplicated source keys of the given hits.
// First occurrence order is preserved so output is stable for a fixed
// hit ranking, but callers must not attach meaning to the order.
func UniqueSources(hits []SearchHit) []string {
	seen := make(map[string]struct{}, len(hits))
	sources := make([]string, 0, len(hits))
	for _, hit := range hits {
		if _, ok := seen[hit.SourceKey]; ok {
			continue
		}
		seen[hit.SourceKey] = struct{}{}
		sources = append(sources, hit.SourceKey)
	}
	return sources
}
