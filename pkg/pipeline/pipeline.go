// Package pipeline provides the core layout pipeline for cardgrid.
//
// This package implements the complete measure → allocate → render pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Measure: derive per-cell natural line counts from the unclamped deck
//  2. Allocate: compute the per-row line budget under the height budget
//  3. Render: generate output in various formats (SVG, PNG, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
// The ordering is load-bearing: measurement always runs against unclamped
// content, and the allocation is handed to the render/apply side as an
// explicit Grid value — never fed back into measurement.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    HeightBudget: 740,
//	    Formats:      []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, deck, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	m, err := runner.Measure(ctx, deck, opts)
//	g, err := runner.Plan(ctx, m, opts)
//	artifacts, err := runner.Render(ctx, g, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mhertel/cardgrid/pkg/allocate"
	"github.com/mhertel/cardgrid/pkg/cache"
	"github.com/mhertel/cardgrid/pkg/card"
	"github.com/mhertel/cardgrid/pkg/errors"
	"github.com/mhertel/cardgrid/pkg/measure"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Visualization types.
const (
	// VizTypeGrid is the grid preview (boxes and line bars).
	VizTypeGrid = "grid"

	// VizTypeDiagram is the Graphviz structure diagram.
	VizTypeDiagram = "diagram"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeGrid

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeGrid:    true,
	VizTypeDiagram: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Measure options
	Columns     int     `json:"columns,omitempty"`
	ColumnWidth int     `json:"column_width,omitempty"`
	Overhead    float64 `json:"overhead,omitempty"`
	LineHeight  float64 `json:"line_height,omitempty"`
	FontPath    string  `json:"font_path,omitempty"`
	FontSize    float64 `json:"font_size,omitempty"`

	// Allocate options
	HeightBudget  float64 `json:"height_budget,omitempty"`
	MinRowHeight  float64 `json:"min_row_height,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty"`

	// Render options
	VizType   string   `json:"viz_type,omitempty"`
	Formats   []string `json:"formats,omitempty"`
	CellWidth float64  `json:"cell_width,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	ShowStats bool     `json:"show_stats,omitempty"`

	// Refresh bypasses the cache for this run.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Measurements is the measure-stage output.
	Measurements card.Measurements

	// MeasureHash is the content hash of the measurements.
	MeasureHash string

	// Grid is the computed allocation.
	Grid card.Grid

	// GridHash is the content hash of the grid.
	GridHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CardCount    int
	RowCount     int
	MeasureTime  time.Duration
	AllocateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	MeasureHit bool // Whether measurements came from cache
	GridHit    bool // Whether the grid came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidOptions, "invalid viz_type: %q (must be one of: grid, diagram)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForMeasure(); err != nil {
		return err
	}
	o.SetAllocateDefaults()
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetMeasureDefaults sets default values for measurement.
func (o *Options) SetMeasureDefaults() {
	if o.Columns == 0 {
		o.Columns = measure.DefaultColumns
	}
	if o.ColumnWidth == 0 {
		o.ColumnWidth = measure.DefaultColumnWidth
	}
	if o.Overhead == 0 {
		o.Overhead = measure.DefaultOverhead
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForMeasure validates and sets defaults for measurement.
func (o *Options) ValidateForMeasure() error {
	o.SetMeasureDefaults()
	mo := o.MeasureOptions()
	return mo.Validate()
}

// SetAllocateDefaults sets default values for allocation.
func (o *Options) SetAllocateDefaults() {
	if o.HeightBudget == 0 {
		o.HeightBudget = allocate.DefaultHeightBudget
	}
	if o.MinRowHeight == 0 {
		o.MinRowHeight = allocate.DefaultMinRowHeight
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = allocate.DefaultMaxIterations
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = 1.0
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// IsGrid returns true if this is a grid preview visualization.
func (o *Options) IsGrid() bool {
	return o.VizType == "" || o.VizType == VizTypeGrid
}

// IsDiagram returns true if this is a structure diagram visualization.
func (o *Options) IsDiagram() bool {
	return o.VizType == VizTypeDiagram
}

// MeasureOptions returns the measure-stage options.
func (o *Options) MeasureOptions() measure.Options {
	return measure.Options{
		Columns:     o.Columns,
		ColumnWidth: o.ColumnWidth,
		Overhead:    o.Overhead,
		Typeface: measure.Typeface{
			LineHeight: o.LineHeight,
			FontPath:   o.FontPath,
			FontSize:   o.FontSize,
		},
	}
}

// AllocateOptions returns the allocate-stage options.
func (o *Options) AllocateOptions() allocate.Options {
	return allocate.Options{
		MinRowHeight:  o.MinRowHeight,
		HeightBudget:  o.HeightBudget,
		MaxIterations: o.MaxIterations,
	}
}

// MeasureKeyOpts returns cache key options for measurement.
func (o *Options) MeasureKeyOpts() cache.MeasureKeyOpts {
	return cache.MeasureKeyOpts{
		Columns:     o.Columns,
		ColumnWidth: o.ColumnWidth,
		Overhead:    o.Overhead,
		LineHeight:  o.LineHeight,
		FontPath:    o.FontPath,
		FontSize:    o.FontSize,
	}
}

// GridKeyOpts returns cache key options for allocation.
func (o *Options) GridKeyOpts() cache.GridKeyOpts {
	return cache.GridKeyOpts{
		HeightBudget:  o.HeightBudget,
		MinRowHeight:  o.MinRowHeight,
		MaxIterations: o.MaxIterations,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    o.VizType + ":" + format,
		Scale:     o.Scale,
		ShowStats: o.ShowStats,
	}
}
