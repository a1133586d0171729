// Package store provides the in-memory implementation of core.DocumentStore.
// It is safe for concurrent access and best suited for tests, examples and
// hosts that project persisted sidecar metadata into memory before running
// the orchestration loop. Beyond the DocumentStore contract it keeps the
// sidecar projections: append-only concept and outline version histories and
// the edit history of accepted or rejected suggestions.
package store
