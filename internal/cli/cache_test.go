package cli

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/mhertel/cardgrid/pkg/cache"
)

func TestClearCacheDir(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	for _, key := range []string{"measure:a", "measure:b", "grid:c", "artifact:d"} {
		if err := c.Set(ctx, key, []byte("v"), time.Hour); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}

	counts, total := clearCacheDir(dir)

	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	want := map[string]int{"measure": 2, "grid": 1, "artifact": 1}
	for stage, n := range want {
		if counts[stage] != n {
			t.Errorf("counts[%q] = %d, want %d", stage, counts[stage], n)
		}
	}

	// Entries are gone and the shard directories are cleaned up.
	if _, hit, _ := c.Get(ctx, "measure:a"); hit {
		t.Error("entry survived clear")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("cache dir not empty after clear: %d entries left", len(entries))
	}
}

func TestClearCacheDirEmpty(t *testing.T) {
	counts, total := clearCacheDir(t.TempDir())
	if total != 0 || len(counts) != 0 {
		t.Errorf("clearCacheDir(empty) = %v, %d", counts, total)
	}
}
