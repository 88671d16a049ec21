// Package card defines the serialization types shared across the cardgrid
// pipeline: decks of text cards, per-cell measurements, and computed grids.
//
// The types here are the canonical wire format. They are used for CLI file
// I/O, API requests and responses, caching, and storage, so every type
// carries both JSON and BSON tags. The format is human-readable and designed
// for round-trip fidelity: measure → allocate → export → re-import produces
// identical results.
package card
