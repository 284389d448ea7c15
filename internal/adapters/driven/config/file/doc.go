// Package file provides a TOML-backed configuration store.
//
// Settings live in a single config.toml under the retrieva config
// directory (~/.retrieva by default). Nested TOML tables are flattened
// to dot-notation keys, so [index] name = "x" reads as "index.name".
package file
