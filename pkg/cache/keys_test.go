package cache

import (
	"strings"
	"testing"
)

func TestDefaultKeyerStability(t *testing.T) {
	k := NewDefaultKeyer()
	opts := MeasureKeyOpts{Columns: 2, ColumnWidth: 46, Overhead: 16, LineHeight: 20}

	a := k.MeasureKey("deadbeef", opts)
	b := k.MeasureKey("deadbeef", opts)
	if a != b {
		t.Errorf("same inputs produced different keys: %q vs %q", a, b)
	}
	if !strings.HasPrefix(a, "measure:") {
		t.Errorf("measure key %q lacks stage prefix", a)
	}
}

func TestDefaultKeyerDiscriminates(t *testing.T) {
	k := NewDefaultKeyer()

	base := GridKeyOpts{HeightBudget: 740, MinRowHeight: 160, MaxIterations: 200}
	a := k.GridKey("hash1", base)

	if b := k.GridKey("hash2", base); a == b {
		t.Error("different content hashes share a key")
	}

	changed := base
	changed.HeightBudget = 600
	if b := k.GridKey("hash1", changed); a == b {
		t.Error("different budgets share a key")
	}
}

func TestDefaultKeyerStagesDisjoint(t *testing.T) {
	k := NewDefaultKeyer()
	m := k.MeasureKey("h", MeasureKeyOpts{})
	g := k.GridKey("h", GridKeyOpts{})
	a := k.ArtifactKey("h", ArtifactKeyOpts{})
	if m == g || g == a || m == a {
		t.Errorf("stage keys collide: %q %q %q", m, g, a)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "tenant1:")

	key := scoped.GridKey("h", GridKeyOpts{})
	if !strings.HasPrefix(key, "tenant1:") {
		t.Errorf("scoped key %q lacks prefix", key)
	}
	if strings.TrimPrefix(key, "tenant1:") != inner.GridKey("h", GridKeyOpts{}) {
		t.Error("scoped key does not wrap the inner key")
	}
}

func TestHash(t *testing.T) {
	a := Hash([]byte("hello"))
	b := Hash([]byte("hello"))
	c := Hash([]byte("world"))

	if a != b {
		t.Error("Hash is not deterministic")
	}
	if a == c {
		t.Error("different inputs share a hash")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}
