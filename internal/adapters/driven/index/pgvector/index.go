// Package pgvector provides a vector index backed by PostgreSQL with the
// pgvector extension. Similarity search is delegated to the database
// through its cosine distance operator and HNSW index.
package pgvector

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

const serviceName = "pgvector"

// tableNamePattern restricts index names to identifiers that are safe to
// splice into DDL. Table names cannot be bound as statement parameters.
var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

// vectorTypePattern extracts the dimension from a formatted type like
// "vector(1536)" as reported by information_schema.
var vectorTypePattern = regexp.MustCompile(`^vector\((\d+)\)$`)

// VectorIndex stores chunk records in one PostgreSQL table per logical
// index. The embedding column is a pgvector VECTOR of fixed dimension.
type VectorIndex struct {
	conn  *pgx.Conn
	table string
}

// NewVectorIndex connects to connString and prepares the pgvector types.
// name becomes the table name, so it must be a plain identifier. The
// vector extension is created if the role has the privilege; when it
// does not, extension setup is the operator's job and Create will fail
// with the database's error.
func NewVectorIndex(ctx context.Context, connString, name string) (*VectorIndex, error) {
	if !tableNamePattern.MatchString(name) {
		return nil, fmt.Errorf("pgvector: index name %q is not a valid identifier", name)
	}

	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, domain.NewServiceError(serviceName, "connect", err)
	}

	// Managed databases often pre-install the extension but deny
	// CREATE EXTENSION to the application role; failure here is
	// tolerated and Create surfaces any real problem.
	_, _ = conn.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")

	if err := pgxvector.RegisterTypes(ctx, conn); err != nil {
		conn.Close(ctx)
		return nil, domain.NewServiceError(serviceName, "register types", err)
	}

	return &VectorIndex{
		conn:  conn,
		table: sanitizeTable(name),
	}, nil
}

// sanitizeTable converts an index name to a table identifier. Hyphens
// are common in index names (rag-documents) but invalid in unquoted SQL
// identifiers.
func sanitizeTable(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if r == '-' {
			out = append(out, '_')
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// Exists reports whether the index table has been created.
func (v *VectorIndex) Exists(ctx context.Context) (bool, error) {
	var exists bool
	err := v.conn.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)",
		v.table).Scan(&exists)
	if err != nil {
		return false, domain.NewServiceError(serviceName, "exists", err)
	}
	return exists, nil
}

// Create builds the table and its HNSW cosine index. The schema
// dimension is baked into the column type, so writes of a different
// width are rejected by the database.
func (v *VectorIndex) Create(ctx context.Context, schema driven.IndexSchema) error {
	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGSERIAL PRIMARY KEY,
			chunk_id TEXT NOT NULL,
			source TEXT NOT NULL,
			position INTEGER NOT NULL,
			content TEXT NOT NULL,
			embedding VECTOR(%d),
			created_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(source, position)
		)
	`, v.table, schema.Dimension)

	if _, err := v.conn.Exec(ctx, createTable); err != nil {
		return domain.NewServiceError(serviceName, "create", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s USING hnsw (embedding vector_cosine_ops)
		WITH (m = %d, ef_construction = %d)
	`, v.table, v.table, schema.M, schema.EFConstruction)

	if _, err := v.conn.Exec(ctx, createIndex); err != nil {
		return domain.NewServiceError(serviceName, "create index", err)
	}

	return nil
}

// Dimension reads the vector column width back from the catalog.
func (v *VectorIndex) Dimension(ctx context.Context) (int, error) {
	var formatted string
	err := v.conn.QueryRow(ctx, `
		SELECT format_type(atttypid, atttypmod)
		FROM pg_attribute
		WHERE attrelid = $1::regclass AND attname = 'embedding'
	`, v.table).Scan(&formatted)
	if err != nil {
		return 0, domain.NewServiceError(serviceName, "dimension", err)
	}

	m := vectorTypePattern.FindStringSubmatch(formatted)
	if m == nil {
		// A bare "vector" column has no declared dimension.
		return 0, domain.ErrDimensionUnknown
	}
	dim, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, domain.ErrDimensionUnknown
	}
	return dim, nil
}

// Index upserts one chunk record keyed by (source, position), so
// re-ingesting a document overwrites its chunks instead of duplicating
// them.
func (v *VectorIndex) Index(ctx context.Context, chunk domain.Chunk) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (chunk_id, source, position, content, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (source, position)
		DO UPDATE SET
			chunk_id = EXCLUDED.chunk_id,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			created_at = NOW()
	`, v.table)

	_, err := v.conn.Exec(ctx, query,
		chunk.ID, chunk.SourceKey, chunk.Position, chunk.Content,
		pgvector.NewVector(chunk.Embedding))
	if err != nil {
		return domain.NewServiceError(serviceName, "index", err)
	}
	return nil
}

// Search orders by cosine distance and converts it to a similarity
// score (1 - distance) so higher still means more similar.
func (v *VectorIndex) Search(ctx context.Context, vector []float32, k int) ([]domain.SearchHit, error) {
	if k <= 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT content, source, embedding <=> $1 AS distance
		FROM %s
		ORDER BY embedding <=> $1, id
		LIMIT $2
	`, v.table)

	rows, err := v.conn.Query(ctx, query, pgvector.NewVector(vector), k)
	if err != nil {
		return nil, domain.NewServiceError(serviceName, "search", err)
	}
	defer rows.Close()

	var hits []domain.SearchHit
	for rows.Next() {
		var (
			content  string
			source   string
			distance float64
		)
		if err := rows.Scan(&content, &source, &distance); err != nil {
			return nil, domain.NewServiceError(serviceName, "search", err)
		}
		hits = append(hits, domain.SearchHit{
			Content:   content,
			SourceKey: source,
			Score:     1 - distance,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewServiceError(serviceName, "search", err)
	}

	return hits, nil
}

// Count returns the number of stored records.
func (v *VectorIndex) Count(ctx context.Context) (int64, error) {
	var count int64
	err := v.conn.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s", v.table)).Scan(&count)
	if err != nil {
		return 0, domain.NewServiceError(serviceName, "count", err)
	}
	return count, nil
}

// Drop removes the table and all records.
func (v *VectorIndex) Drop(ctx context.Context) error {
	_, err := v.conn.Exec(ctx,
		fmt.Sprintf("DROP TABLE IF EXISTS %s", v.table))
	if err != nil {
		return domain.NewServiceError(serviceName, "drop", err)
	}
	return nil
}

// Close closes the database connection.
func (v *VectorIndex) Close() error {
	err := v.conn.Close(context.Background())
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
