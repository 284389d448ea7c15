package domain

// Document represents a text object read from storage during ingestion.
// It is the canonical representation after decoding, before chunking.
type Document struct {
	// SourceKey is the storage identifier the document was read from
	// (object key or relative file path). It is carried onto every
	// chunk for attribution.
	SourceKey string

	// Content is the full decoded text.
	Content string
}

// Chunk represents an overlapping word-window slice of a document.
// Chunks are the unit of embedding and retrieval.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// SourceKey identifies the document the chunk was derived from.
	SourceKey string

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the document.
	// The first chunk of a document has position 0.
	Position int

	// Embedding is the vector representation for similarity search.
	// Populated during ingestion, immediately before indexing.
	Embedding []float32
}
