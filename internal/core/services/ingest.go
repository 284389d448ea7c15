package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/custodia-labs/retrieva-cli/internal/chunker"
	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
	"github.com/custodia-labs/retrieva-cli/internal/normalisers/plaintext"
)

// Ensure Ingestor implements the interface.
var _ driving.IngestService = (*Ingestor)(nil)

// Ingestor walks the object store and indexes every matching object:
// fetch, decode, chunk, embed, write. Objects are processed one at a time
// and a failing object never aborts the run.
type Ingestor struct {
	store      driven.ObjectStore
	embedder   driven.EmbeddingService
	index      driven.VectorIndex
	chunker    *chunker.Chunker
	extensions []string
	logger     *zap.Logger
}

// NewIngestor creates an ingestor. extensions filters store listings by
// key suffix; an empty list admits every object.
func NewIngestor(
	store driven.ObjectStore,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	ch *chunker.Chunker,
	extensions []string,
	logger *zap.Logger,
) *Ingestor {
	return &Ingestor{
		store:      store,
		embedder:   embedder,
		index:      index,
		chunker:    ch,
		extensions: extensions,
		logger:     logger,
	}
}

// Ingest lists the store and indexes each matching object in turn. A per
// object failure is logged, counted and skipped; only a failed listing
// aborts the run. The report totals what was actually written, including
// chunks indexed before a mid-object failure.
func (ing *Ingestor) Ingest(ctx context.Context) (domain.IngestReport, error) {
	var report domain.IngestReport

	objects, err := ing.store.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list objects: %w", err)
	}

	for _, obj := range objects {
		report.ObjectsSeen++
		if !ing.matches(obj.Key) {
			continue
		}

		indexed, err := ing.ingestObject(ctx, obj.Key)
		report.ChunksIndexed += indexed
		if err != nil {
			report.Failures++
			ing.logger.Warn("skipping object",
				zap.String("key", obj.Key),
				zap.Error(err))
			continue
		}
		report.ObjectsIngested++

		ing.logger.Info("ingested object",
			zap.String("key", obj.Key),
			zap.Int("chunks", indexed))
	}

	return report, nil
}

// IngestObject runs the pipeline for the single object at key. Keys that
// fail the extension filter are skipped silently so a watch loop can feed
// every filesystem event through without filtering first.
func (ing *Ingestor) IngestObject(ctx context.Context, key string) (int, error) {
	if !ing.matches(key) {
		return 0, nil
	}

	indexed, err := ing.ingestObject(ctx, key)
	if err != nil {
		return indexed, err
	}

	ing.logger.Info("ingested object",
		zap.String("key", key),
		zap.Int("chunks", indexed))
	return indexed, nil
}

// ingestObject fetches, decodes, chunks, embeds and indexes one object.
// It returns how many chunks were written before any failure so callers
// can account for partial progress.
func (ing *Ingestor) ingestObject(ctx context.Context, key string) (int, error) {
	raw, err := ing.store.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("get object: %w", err)
	}

	doc := plaintext.Normalise(key, raw)

	indexed := 0
	for _, chunk := range ing.chunker.Chunks(doc) {
		vector, err := ing.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return indexed, fmt.Errorf("embed chunk %d: %w", chunk.Position, err)
		}
		chunk.Embedding = vector

		if err := ing.index.Index(ctx, chunk); err != nil {
			return indexed, fmt.Errorf("index chunk %d: %w", chunk.Position, err)
		}
		indexed++
	}

	return indexed, nil
}

// matches reports whether the key passes the extension filter.
func (ing *Ingestor) matches(key string) bool {
	if len(ing.extensions) == 0 {
		return true
	}
	for _, ext := range ing.extensions {
		if strings.HasSuffix(key, ext) {
			return true
		}
	}
	return false
}
