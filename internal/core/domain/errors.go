package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrEmptyQuestion indicates a blank or whitespace-only question.
	// It is a validation failure and never reaches the retriever.
	ErrEmptyQuestion = errors.New("no question provided")

	// ErrNotConfigured indicates a required configuration value is missing.
	ErrNotConfigured = errors.New("not configured")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidChunking indicates chunking parameters that cannot
	// make progress (size <= 0, negative overlap, overlap >= size).
	ErrInvalidChunking = errors.New("invalid chunking parameters")

	// ErrDimensionUnknown indicates the index provider cannot report
	// the dimension of an existing index. Schema validation is skipped
	// for such providers.
	ErrDimensionUnknown = errors.New("index dimension unknown")

	// ErrDimensionMismatch indicates an existing index was created for
	// a different embedding dimension than the configured model produces.
	ErrDimensionMismatch = errors.New("index dimension mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrIndexUnavailable indicates the vector index is not configured.
	ErrIndexUnavailable = errors.New("vector index unavailable")
)

// ServiceError reports a failed call to an external collaborator
// (object storage, embedding service, vector index, LLM). The core
// never retries; the error propagates to the boundary that invoked it.
type ServiceError struct {
	// Service names the collaborator, e.g. "bedrock" or "opensearch".
	Service string

	// Op is the operation that failed, e.g. "search" or "invoke".
	Op string

	// Err is the underlying cause.
	Err error
}

// NewServiceError wraps err as a collaborator failure.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}

// Error returns the formatted message.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Service, e.Op, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// IsServiceError reports whether err is (or wraps) a ServiceError.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}

// IsValidation reports whether err is a user input failure that should
// surface as a client error rather than a service failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyQuestion) || errors.Is(err, ErrInvalidInput)
}
