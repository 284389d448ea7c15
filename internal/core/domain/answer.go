package domain

// Answer is the result of a single ask operation.
type Answer struct {
	// Question is the question as asked.
	Question string

	// Text is the generated answer.
	Text string

	// Sources is the de-duplicated set of source keys whose chunks
	// grounded the answer. Order carries no meaning.
	Sources []string
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// ObjectsSeen is the number of objects listed at the storage
	// location, before extension filtering.
	ObjectsSeen int

	// ObjectsIngested is the number of objects fully processed.
	ObjectsIngested int

	// ChunksIndexed is the total number of chunk records written to
	// the index across all processed objects.
	ChunksIndexed int

	// Failures is the number of objects skipped after an error.
	// Chunks written before the failure stay in the index.
	Failures int
}
