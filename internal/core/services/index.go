package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driving"
)

// Ensure IndexManager implements the interface.
var _ driving.IndexAdmin = (*IndexManager)(nil)

// HNSW graph parameters applied when an index is created.
const (
	DefaultEFSearch       = 512
	DefaultEFConstruction = 512
	DefaultM              = 16
)

// IndexManager owns the lifecycle of the vector index: it creates the
// index when missing, verifies its shape when present and reports stats.
type IndexManager struct {
	name      string
	index     driven.VectorIndex
	dimension int
	logger    *zap.Logger
}

// NewIndexManager creates an index manager for the named index. dimension
// is the embedding width the index must accept.
func NewIndexManager(name string, index driven.VectorIndex, dimension int, logger *zap.Logger) *IndexManager {
	return &IndexManager{
		name:      name,
		index:     index,
		dimension: dimension,
		logger:    logger,
	}
}

// Ensure makes the index ready for writes. A missing index is created
// with the configured dimension and HNSW parameters; an existing one is
// left untouched after its dimension is checked. An existing index with a
// different dimension fails rather than silently corrupting searches.
// Calling Ensure repeatedly is safe.
func (m *IndexManager) Ensure(ctx context.Context) error {
	exists, err := m.index.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}

	if exists {
		dim, err := m.index.Dimension(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrDimensionUnknown) {
				m.logger.Debug("index dimension not reported, skipping check",
					zap.String("index", m.name))
				return nil
			}
			return fmt.Errorf("read index dimension: %w", err)
		}
		if dim != m.dimension {
			return domain.NewServiceError("index", "ensure",
				fmt.Errorf("%w: index %q has dimension %d, configured %d",
					domain.ErrDimensionMismatch, m.name, dim, m.dimension))
		}
		m.logger.Debug("index already exists",
			zap.String("index", m.name),
			zap.Int("dimension", dim))
		return nil
	}

	schema := driven.IndexSchema{
		Dimension:      m.dimension,
		EFSearch:       DefaultEFSearch,
		EFConstruction: DefaultEFConstruction,
		M:              DefaultM,
	}
	if err := m.index.Create(ctx, schema); err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	m.logger.Info("created index",
		zap.String("index", m.name),
		zap.Int("dimension", m.dimension))

	return nil
}

// Stats reports the index name, record count and dimension. A backend
// that cannot report its dimension yields zero for it.
func (m *IndexManager) Stats(ctx context.Context) (driving.IndexStats, error) {
	stats := driving.IndexStats{Name: m.name}

	count, err := m.index.Count(ctx)
	if err != nil {
		return stats, fmt.Errorf("count records: %w", err)
	}
	stats.Records = count

	dim, err := m.index.Dimension(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrDimensionUnknown) {
			return stats, fmt.Errorf("read index dimension: %w", err)
		}
		dim = 0
	}
	stats.Dimension = dim

	return stats, nil
}

// Reset drops the index and recreates it empty with the configured shape.
func (m *IndexManager) Reset(ctx context.Context) error {
	exists, err := m.index.Exists(ctx)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		if err := m.index.Drop(ctx); err != nil {
			return fmt.Errorf("drop index: %w", err)
		}
		m.logger.Info("dropped index", zap.String("index", m.name))
	}
	return m.Ensure(ctx)
}
