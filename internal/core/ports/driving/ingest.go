package driving

import (
	"context"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// IngestService runs the storage-to-index pipeline.
type IngestService interface {
	// Ingest lists the storage location, chunks and embeds every
	// recognised document and writes the records to the index.
	// One bad document never aborts the batch; its error is logged,
	// counted in the report and the run continues.
	Ingest(ctx context.Context) (domain.IngestReport, error)

	// IngestObject runs the pipeline for a single object and returns
	// how many chunks were written. Keys that do not pass the
	// extension filter are skipped with no error. Watch mode uses this
	// to re-ingest files as they change.
	IngestObject(ctx context.Context, key string) (int, error)
}
