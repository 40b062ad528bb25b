// Package services defines shared utilities consumed by the rename pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and the directory entry being
//     processed so log lines can be correlated.
//   - Structured error markers plus the Wrap helper so catalog, resolver, and
//     filesystem failures can be classified uniformly at the per-entry
//     boundary.
//
// Integrations with remote services live in subpackages (see bangumi).
package services
