// Package store provides persistence for computed grids.
//
// Two backends are available:
//   - memory: in-memory storage for development and testing
//   - mongo: MongoDB-backed storage for server deployments
//
// A stored record keeps the input deck alongside the computed grid, so a
// record can be re-rendered or re-planned with different options later
// without resubmitting the deck.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/mhertel/cardgrid/pkg/card"
)

// ErrNotFound is returned when no record exists for the requested ID.
var ErrNotFound = errors.New("grid not found")

// Record is one persisted pipeline result.
type Record struct {
	// ID is a server-assigned UUID.
	ID string `json:"id" bson:"_id"`

	// Title is the deck title at submission time.
	Title string `json:"title,omitempty" bson:"title,omitempty"`

	// Deck is the submitted input.
	Deck card.Deck `json:"deck" bson:"deck"`

	// Grid is the computed allocation.
	Grid card.Grid `json:"grid" bson:"grid"`

	// MeasureHash and GridHash are the content hashes of the intermediate
	// results, usable as cache keys for re-rendering.
	MeasureHash string `json:"measure_hash" bson:"measure_hash"`
	GridHash    string `json:"grid_hash" bson:"grid_hash"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store is the persistence interface for grid records.
type Store interface {
	// Save persists a record. The record's ID must be set by the caller.
	Save(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns the most recent records, newest first, up to limit.
	// A non-positive limit returns all records.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes a record by ID. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
