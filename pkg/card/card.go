package card

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mhertel/cardgrid/pkg/errors"
)

// =============================================================================
// Deck - Input Document
// =============================================================================

// Card is one text card in a deck. Body is the card's content; the
// measurement pass derives its natural line count from it.
type Card struct {
	ID    string `json:"id" yaml:"id" bson:"id"`
	Title string `json:"title,omitempty" yaml:"title,omitempty" bson:"title,omitempty"`
	Body  string `json:"body" yaml:"body" bson:"body"`
}

// Deck is an ordered collection of cards to be laid out as a grid.
// Cards fill the grid left-to-right, top-to-bottom.
type Deck struct {
	Title string `json:"title,omitempty" yaml:"title,omitempty" bson:"title,omitempty"`
	Cards []Card `json:"cards" yaml:"cards" bson:"cards"`
}

// Validate checks the deck for structural problems. A card without a body is
// a hard error: a silent zero-length measurement would distort the aggregate
// of its entire row.
func (d *Deck) Validate() error {
	if len(d.Cards) == 0 {
		return errors.New(errors.ErrCodeInvalidDeck, "deck contains no cards")
	}
	for i, c := range d.Cards {
		if strings.TrimSpace(c.Body) == "" {
			return errors.New(errors.ErrCodeInvalidDeck, "card %d (%s) has no body", i, c.DisplayID())
		}
	}
	return nil
}

// DisplayID returns the card ID if set, otherwise the title, otherwise "?".
func (c *Card) DisplayID() string {
	if c.ID != "" {
		return c.ID
	}
	if c.Title != "" {
		return c.Title
	}
	return "?"
}

// =============================================================================
// Deck Serialization API
// =============================================================================

// MarshalDeck serializes a Deck to pretty-printed JSON bytes.
func MarshalDeck(d Deck) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDeck deserializes JSON bytes into a Deck and validates it.
func UnmarshalDeck(data []byte) (Deck, error) {
	var d Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return Deck{}, fmt.Errorf("unmarshal deck: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Deck{}, err
	}
	return d, nil
}

// ReadDeckFile reads a deck from a JSON or YAML file, dispatching on the
// file extension (.json, .yaml, .yml).
func ReadDeckFile(path string) (Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var d Deck
		if err := yaml.Unmarshal(data, &d); err != nil {
			return Deck{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if err := d.Validate(); err != nil {
			return Deck{}, err
		}
		return d, nil
	case ".json":
		return UnmarshalDeck(data)
	default:
		return Deck{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported deck file extension: %s", filepath.Ext(path))
	}
}

// WriteDeckFile writes a deck to a JSON file.
func WriteDeckFile(d Deck, path string) error {
	data, err := MarshalDeck(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
