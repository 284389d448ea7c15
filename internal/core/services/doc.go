// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Every operation is synchronous and request-at-a-time: external
// calls are blocking round-trips and nothing here retries. Service
// instances hold no mutable state, so one instance may serve
// concurrent callers.
package services
