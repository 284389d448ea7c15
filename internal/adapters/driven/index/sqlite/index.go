// Package sqlite provides a vector index backed by a local SQLite file.
//
// Embeddings are stored as little-endian float32 blobs and searched with
// an exact cosine scan in Go. That is linear in the number of chunks,
// which is fine for the corpus sizes a local CLI ingests; remote
// backends take over when approximate search matters.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/index/sqlite/migrations"
	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

const serviceName = "sqlite"

// VectorIndex stores chunk records for one named logical index in a
// SQLite database file.
type VectorIndex struct {
	db   *sql.DB
	name string
	path string
}

// NewVectorIndex opens (or creates) the database file and prepares the
// schema. If dataDir is empty the file lives at ~/.retrieva/data/index.db.
// name scopes all operations to one logical index within the file.
func NewVectorIndex(dataDir, name string) (*VectorIndex, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".retrieva", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// WAL mode so a search during ingestion does not block on writes.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	v := &VectorIndex{
		db:   db,
		name: name,
		path: dbPath,
	}

	if err := v.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return v, nil
}

// Path returns the database file path.
func (v *VectorIndex) Path() string {
	return v.path
}

// Close closes the database connection.
func (v *VectorIndex) Close() error {
	return v.db.Close()
}

// Exists reports whether the logical index has been created.
func (v *VectorIndex) Exists(ctx context.Context) (bool, error) {
	var one int
	err := v.db.QueryRowContext(ctx,
		"SELECT 1 FROM vector_indexes WHERE name = ?", v.name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, domain.NewServiceError(serviceName, "exists", err)
	}
	return true, nil
}

// Create registers the logical index with its dimension. The HNSW
// parameters in the schema do not apply to an exact scan and are ignored.
func (v *VectorIndex) Create(ctx context.Context, schema driven.IndexSchema) error {
	_, err := v.db.ExecContext(ctx,
		"INSERT INTO vector_indexes (name, dimension) VALUES (?, ?)",
		v.name, schema.Dimension)
	if err != nil {
		return domain.NewServiceError(serviceName, "create", err)
	}
	return nil
}

// Dimension returns the dimension the logical index was created with.
func (v *VectorIndex) Dimension(ctx context.Context) (int, error) {
	var dim int
	err := v.db.QueryRowContext(ctx,
		"SELECT dimension FROM vector_indexes WHERE name = ?", v.name).Scan(&dim)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NewServiceError(serviceName, "dimension",
			fmt.Errorf("index %q does not exist", v.name))
	}
	if err != nil {
		return 0, domain.NewServiceError(serviceName, "dimension", err)
	}
	return dim, nil
}

// Index writes one chunk record. Vectors whose width differs from the
// registered dimension are rejected.
func (v *VectorIndex) Index(ctx context.Context, chunk domain.Chunk) error {
	dim, err := v.Dimension(ctx)
	if err != nil {
		return err
	}
	if len(chunk.Embedding) != dim {
		return domain.NewServiceError(serviceName, "index",
			fmt.Errorf("%w: record has dimension %d, index %d",
				domain.ErrDimensionMismatch, len(chunk.Embedding), dim))
	}

	_, err = v.db.ExecContext(ctx, `
		INSERT INTO chunks (id, index_name, source, position, content, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`, chunk.ID, v.name, chunk.SourceKey, chunk.Position, chunk.Content,
		encodeVector(chunk.Embedding))
	if err != nil {
		return domain.NewServiceError(serviceName, "index", err)
	}
	return nil
}

// Search scans every stored record and returns the k most similar by
// cosine similarity, most similar first. Ties keep insertion order.
func (v *VectorIndex) Search(ctx context.Context, vector []float32, k int) ([]domain.SearchHit, error) {
	if k <= 0 {
		return nil, nil
	}

	rows, err := v.db.QueryContext(ctx, `
		SELECT content, source, embedding
		FROM chunks
		WHERE index_name = ?
		ORDER BY rowid
	`, v.name)
	if err != nil {
		return nil, domain.NewServiceError(serviceName, "search", err)
	}
	defer rows.Close()

	var hits []domain.SearchHit
	for rows.Next() {
		var (
			content string
			source  string
			blob    []byte
		)
		if err := rows.Scan(&content, &source, &blob); err != nil {
			return nil, domain.NewServiceError(serviceName, "search", err)
		}
		hits = append(hits, domain.SearchHit{
			Content:   content,
			SourceKey: source,
			Score:     cosineSimilarity(vector, decodeVector(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewServiceError(serviceName, "search", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of stored records.
func (v *VectorIndex) Count(ctx context.Context) (int64, error) {
	var count int64
	err := v.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE index_name = ?", v.name).Scan(&count)
	if err != nil {
		return 0, domain.NewServiceError(serviceName, "count", err)
	}
	return count, nil
}

// Drop removes the logical index and all its records.
func (v *VectorIndex) Drop(ctx context.Context) error {
	_, err := v.db.ExecContext(ctx,
		"DELETE FROM vector_indexes WHERE name = ?", v.name)
	if err != nil {
		return domain.NewServiceError(serviceName, "drop", err)
	}
	return nil
}

// migrate runs all pending .up.sql migrations in lexical order.
func (v *VectorIndex) migrate(fsys embed.FS) error {
	_, err := v.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := v.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for i, name := range upFiles {
		version := i + 1
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := v.db.Exec(string(content)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := v.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// encodeVector packs a vector as a little-endian float32 blob.
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, f := range vector {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

// decodeVector unpacks a little-endian float32 blob.
func decodeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vector
}

// cosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths or zero vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
