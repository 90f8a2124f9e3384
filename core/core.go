// Package core implements the rank history and delta analytics engine:
// snapshot ingestion, day-over-day deltas, mover extraction, version-update
// detection and layered category resolution.
//
// A run processes the configured countries x platforms x charts cross-product
// strictly sequentially. Only external calls (metadata lookups, classifier
// requests) fan out concurrently; everything that touches the stores is
// single-writer within a run.
package core
