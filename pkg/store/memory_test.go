package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mhertel/cardgrid/pkg/card"
)

func testRecord(id string, created time.Time) *Record {
	return &Record{
		ID:        id,
		Title:     "deck " + id,
		Deck:      card.Deck{Cards: []card.Card{{ID: "a", Body: "x"}}},
		Grid:      card.Grid{Columns: 2, Rows: []card.RowPlan{{Lines: 8}}},
		CreatedAt: created,
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec := testRecord("id-1", time.Now())
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Get(ctx, "id-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != rec.Title || got.Grid.RowCount() != 1 {
		t.Errorf("Get() = %+v", got)
	}

	// The store hands out copies; mutating a result must not corrupt it.
	got.Title = "mutated"
	again, _ := s.Get(ctx, "id-1")
	if again.Title != rec.Title {
		t.Error("stored record aliased a returned copy")
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Save(ctx, testRecord("id-1", time.Now())); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "id-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "id-1"); !errors.Is(err, ErrNotFound) {
		t.Error("record still present after Delete()")
	}
}

func TestMemoryStoreList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"old", "mid", "new"} {
		if err := s.Save(ctx, testRecord(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("List() = %d records, want 3", len(recs))
	}
	// Newest first.
	if recs[0].ID != "new" || recs[2].ID != "old" {
		t.Errorf("order = [%s %s %s], want newest first", recs[0].ID, recs[1].ID, recs[2].ID)
	}

	limited, err := s.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 || limited[0].ID != "new" {
		t.Errorf("List(2) = %d records starting with %s", len(limited), limited[0].ID)
	}
}
