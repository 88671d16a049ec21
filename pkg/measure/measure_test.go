package measure

import (
	"strings"
	"testing"

	"github.com/mhertel/cardgrid/pkg/card"
)

func TestNaturalLines(t *testing.T) {
	tests := []struct {
		contentHeight float64
		lineHeight    float64
		want          int
	}{
		{100, 20, 5},
		{101, 20, 6}, // partial line rounds up
		{20, 20, 1},
		{1, 20, 1},
		{0, 20, 1},   // empty content still occupies one line
		{100, 0, 1},  // degenerate line height
		{-10, 20, 1}, // degenerate content height
	}

	for _, tt := range tests {
		got := NaturalLines(tt.contentHeight, tt.lineHeight)
		if got != tt.want {
			t.Errorf("NaturalLines(%g, %g) = %d, want %d", tt.contentHeight, tt.lineHeight, got, tt.want)
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"valid", Options{Columns: 2, ColumnWidth: 46}, false},
		{"zero overhead is valid", Options{Columns: 2, ColumnWidth: 46, Overhead: 0}, false},
		{"zero columns", Options{Columns: 0, ColumnWidth: 46}, true},
		{"zero column width", Options{Columns: 2, ColumnWidth: 0}, true},
		{"negative overhead", Options{Columns: 2, ColumnWidth: 46, Overhead: -1}, true},
	}

	for _, tt := range tests {
		err := tt.opts.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestGroupRows(t *testing.T) {
	cells := make([]card.CellMeasurement, 5)
	for i := range cells {
		cells[i] = card.CellMeasurement{CardID: string(rune('a' + i)), NaturalLines: 1, LineHeight: 20}
	}

	rows := GroupRows(cells, 2)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if len(rows[0].Cells) != 2 || len(rows[1].Cells) != 2 {
		t.Error("full rows should have 2 cells")
	}
	// Odd cell count: trailing partial row.
	if len(rows[2].Cells) != 1 {
		t.Errorf("trailing row = %d cells, want 1", len(rows[2].Cells))
	}
	if rows[2].Cells[0].CardID != "e" {
		t.Errorf("trailing cell = %q, want \"e\"", rows[2].Cells[0].CardID)
	}
}

func TestGroupRowsEmpty(t *testing.T) {
	if rows := GroupRows(nil, 2); len(rows) != 0 {
		t.Errorf("GroupRows(nil) = %d rows, want 0", len(rows))
	}
}

func TestDeck(t *testing.T) {
	deck := card.Deck{
		Title: "test",
		Cards: []card.Card{
			{ID: "intro", Body: "short"},
			{Body: strings.Repeat("word ", 40)}, // no ID, long content
			{ID: "outro", Body: "also short"},
		},
	}

	m, err := Deck(deck, Options{ColumnWidth: 10, Overhead: 16, Typeface: Typeface{LineHeight: 20}})
	if err != nil {
		t.Fatalf("Deck() error = %v", err)
	}

	if m.Columns != DefaultColumns {
		t.Errorf("Columns = %d, want default %d", m.Columns, DefaultColumns)
	}
	if m.CellCount() != 3 {
		t.Fatalf("cells = %d, want 3", m.CellCount())
	}
	if len(m.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(m.Rows))
	}

	first := m.Rows[0].Cells[0]
	if first.CardID != "intro" {
		t.Errorf("cell 0 ID = %q, want \"intro\"", first.CardID)
	}
	if first.NaturalLines != 1 {
		t.Errorf("short card = %d lines, want 1", first.NaturalLines)
	}
	if first.LineHeight != 20 || first.Overhead != 16 {
		t.Errorf("cell geometry = (%g, %g), want (20, 16)", first.LineHeight, first.Overhead)
	}

	// Missing IDs default to positional names.
	second := m.Rows[0].Cells[1]
	if second.CardID != "card-1" {
		t.Errorf("cell 1 ID = %q, want \"card-1\"", second.CardID)
	}
	// 40 words of 4 characters at width 10: two words per line.
	if second.NaturalLines != 20 {
		t.Errorf("long card = %d lines, want 20", second.NaturalLines)
	}

	if err := m.Validate(); err != nil {
		t.Errorf("measurements invalid: %v", err)
	}
}

func TestDeckRejectsEmptyBody(t *testing.T) {
	deck := card.Deck{Cards: []card.Card{{ID: "x", Body: "  "}}}
	if _, err := Deck(deck, Options{}); err == nil {
		t.Error("Deck() accepted a card with a blank body")
	}
}

func TestTypefaceResolve(t *testing.T) {
	tests := []struct {
		name    string
		tf      Typeface
		want    float64
		wantErr bool
	}{
		{"explicit height", Typeface{LineHeight: 24}, 24, false},
		{"fallback default", Typeface{}, DefaultLineHeight, false},
		{"negative rejected", Typeface{LineHeight: -5}, 0, true},
		{"missing font file", Typeface{FontPath: "/nonexistent/font.ttf"}, 0, true},
	}

	for _, tt := range tests {
		got, err := tt.tf.Resolve()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Resolve() error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("%s: Resolve() = %g, want %g", tt.name, got, tt.want)
		}
	}
}
