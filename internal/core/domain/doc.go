// Package domain defines the core business entities for Retrieva.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Decoded text read from object storage
//   - Chunk: An overlapping word-window slice of a document
//   - SearchHit: A ranked similarity match from the vector index
//   - Answer: A generated answer with its evidence sources
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
