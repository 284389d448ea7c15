// Package chunker provides fixed-size word-window text chunking.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

// DefaultSize is the default window length in words.
const DefaultSize = 500

// DefaultOverlap is the default number of words shared by consecutive windows.
const DefaultOverlap = 50

// Chunker splits document text into overlapping word windows.
// It is pure: identical input always produces identical windows.
type Chunker struct {
	size    int
	overlap int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithSize sets the window length in words.
func WithSize(size int) Option {
	return func(c *Chunker) {
		c.size = size
	}
}

// WithOverlap sets the overlap between consecutive windows in words.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// New creates a chunker with the given options. Parameters that cannot
// advance the window (size <= 0, negative overlap, overlap >= size)
// return domain.ErrInvalidChunking rather than looping in Split.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		size:    DefaultSize,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.size <= 0 || c.overlap < 0 || c.overlap >= c.size {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", domain.ErrInvalidChunking, c.size, c.overlap)
	}

	return c, nil
}

// Size returns the configured window length in words.
func (c *Chunker) Size() int {
	return c.size
}

// Overlap returns the configured overlap in words.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split breaks text into overlapping word windows. Words are whitespace
// separated; each window holds up to size words and the start advances
// by size-overlap words per step. Empty or whitespace-only text
// produces no windows.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.size - c.overlap
	chunks := make([]string, 0, len(words)/step+1)

	for start := 0; start < len(words); start += step {
		end := start + c.size
		if end > len(words) {
			end = len(words)
		}

		chunk := strings.Join(words[start:end], " ")
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	return chunks
}

// Chunks splits a document and wraps each window as a domain.Chunk
// carrying the document's source key and its ordinal position.
func (c *Chunker) Chunks(doc domain.Document) []domain.Chunk {
	parts := c.Split(doc.Content)
	if len(parts) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, 0, len(parts))
	for i, content := range parts {
		chunks = append(chunks, domain.Chunk{
			ID:        uuid.New().String(),
			SourceKey: doc.SourceKey,
			Content:   content,
			Position:  i,
		})
	}

	return chunks
}
