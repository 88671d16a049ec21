package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheStages maps the file cache's stage directories to display labels, in
// pipeline order.
var cacheStages = []struct {
	dir   string
	label string
}{
	{"measure", "measurements"},
	{"grid", "grids"},
	{"artifact", "artifacts"},
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached measurements, grids, and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			counts, total := clearCacheDir(dir)

			printSuccess("Cleared %d cached entries", total)
			for _, stage := range cacheStages {
				if n := counts[stage.dir]; n > 0 {
					printDetail("%s: %d", stage.label, n)
				}
			}
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// clearCacheDir removes every cache entry under dir, counting removals per
// stage directory (the file cache shards entries by key stage). Unreadable
// entries are skipped.
func clearCacheDir(dir string) (map[string]int, int) {
	counts := make(map[string]int)
	total := 0

	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || path == dir || info.IsDir() {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return nil
		}
		total++
		if rel, err := filepath.Rel(dir, path); err == nil {
			stage, _, _ := strings.Cut(rel, string(filepath.Separator))
			counts[stage]++
		}
		return nil
	})

	// Clean up the now-empty shard directories, deepest first.
	var dirs []string
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err == nil && path != dir && info.IsDir() {
			dirs = append(dirs, path)
		}
		return nil
	})
	for i := len(dirs) - 1; i >= 0; i-- {
		os.Remove(dirs[i])
	}

	return counts, total
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
