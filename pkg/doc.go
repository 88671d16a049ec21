// Package pkg provides the core libraries for cardgrid layout computation.
//
// # Overview
//
// Cardgrid lays out a deck of text cards in a multi-column grid under a
// total height budget. The pkg directory is organized by pipeline stage:
//
//  1. [card] - Domain types (decks, measurements, grids) and file IO
//  2. [measure] - Text wrapping and per-cell natural line counts
//  3. [allocate] - Greedy line distribution under the height budget
//  4. [render] - SVG, PNG, JSON, and DOT output
//  5. [pipeline] - Orchestration (measure → allocate → render) with caching
//
// Supporting packages: [cache] (content-addressed result cache), [store]
// (grid persistence for the HTTP API), [watcher] (deck file watching),
// [errors] (structured error codes), [observability] (instrumentation
// hooks), and [buildinfo] (version metadata).
//
// # Architecture
//
// The typical data flow:
//
//	Deck file (YAML/JSON)
//	         ↓
//	measure: wrap card bodies at the column width
//	         ↓
//	allocate: distribute budget lines across rows
//	         ↓
//	render: draw the grid or its allocation diagram
//
// Each stage consumes the previous stage's output and can run standalone,
// which is how the measure, allocate, and render CLI commands compose.
package pkg
