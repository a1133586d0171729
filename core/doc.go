// Package core provides the foundational domain types and interfaces used by
// draftloop. It defines the core abstractions for:
//
//   - Messages (role-based conversation entries built from content blocks)
//   - Content blocks (text, tool use, tool result — a closed variant set)
//   - Document snapshots (content, outline, stage captured at a point in time)
//   - Concepts and outline sections (the structural state of a document)
//   - Edit suggestions (model-proposed text patches with character ranges)
//   - The DocumentStore contract through which all document state is accessed
//
// The package intentionally keeps implementation concerns (stores, transports,
// the orchestration loop) out of scope, exposing small interfaces to enable
// custom backends and in-memory fakes for testing.
package core
