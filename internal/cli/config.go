package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/mhertel/cardgrid/pkg/pipeline"
)

// Config is the user's TOML config file. All fields are optional; anything
// unset falls back to built-in defaults, and command-line flags override
// everything here.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig configures measurement and allocation defaults.
type LayoutConfig struct {
	Columns       int     `toml:"columns"`
	ColumnWidth   int     `toml:"column_width"`
	Overhead      float64 `toml:"overhead"`
	LineHeight    float64 `toml:"line_height"`
	FontPath      string  `toml:"font_path"`
	FontSize      float64 `toml:"font_size"`
	HeightBudget  float64 `toml:"height_budget"`
	MinRowHeight  float64 `toml:"min_row_height"`
	MaxIterations int     `toml:"max_iterations"`
}

// RenderConfig configures render defaults.
type RenderConfig struct {
	Viz       string   `toml:"viz"`
	Formats   []string `toml:"formats"`
	CellWidth float64  `toml:"cell_width"`
	Scale     float64  `toml:"scale"`
	Stats     bool     `toml:"stats"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr      string `toml:"addr"`
	RedisAddr string `toml:"redis_addr"`
	MongoURI  string `toml:"mongo_uri"`
}

// configPath returns the config file location (~/.config/cardgrid/config.toml),
// honoring XDG_CONFIG_HOME.
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		p, err := configPath()
		if err != nil {
			return Config{}, nil
		}
		path = p
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// PipelineOptions converts the config into pipeline options. Unset fields
// stay zero so pipeline defaults apply.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Columns:       c.Layout.Columns,
		ColumnWidth:   c.Layout.ColumnWidth,
		Overhead:      c.Layout.Overhead,
		LineHeight:    c.Layout.LineHeight,
		FontPath:      c.Layout.FontPath,
		FontSize:      c.Layout.FontSize,
		HeightBudget:  c.Layout.HeightBudget,
		MinRowHeight:  c.Layout.MinRowHeight,
		MaxIterations: c.Layout.MaxIterations,
		VizType:       c.Render.Viz,
		Formats:       c.Render.Formats,
		CellWidth:     c.Render.CellWidth,
		Scale:         c.Render.Scale,
		ShowStats:     c.Render.Stats,
	}
}
