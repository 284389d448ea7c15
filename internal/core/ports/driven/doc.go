// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ObjectStore: Lists and reads documents from storage (ingestion only)
//   - EmbeddingService: Turns text into fixed-dimension vectors
//   - VectorIndex: Stores records and answers nearest-neighbour queries
//   - LLMService: Generates the grounded answer text (ask path only)
//   - ConfigStore: Application configuration
//
// All collaborator calls are blocking round-trips. The core never
// retries; failures wrap as domain.ServiceError and propagate to the
// boundary that invoked them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
