package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mhertel/cardgrid/pkg/allocate"
	"github.com/mhertel/cardgrid/pkg/cache"
	"github.com/mhertel/cardgrid/pkg/card"
	"github.com/mhertel/cardgrid/pkg/measure"
	"github.com/mhertel/cardgrid/pkg/observability"
)

// =============================================================================
// Runner - Orchestrates Pipeline Stages
// =============================================================================

// Runner executes pipeline operations with caching support.
type Runner struct {
	// Cache is the caching backend. Stages that hit the cache skip their
	// computation entirely.
	Cache cache.Cache

	// Keyer generates cache keys.
	Keyer cache.Keyer

	// Logger for pipeline operations.
	Logger *log.Logger
}

// NewRunner creates a pipeline runner. A nil cache disables caching, a nil
// keyer falls back to the default key scheme, and a nil logger discards
// output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Close releases the runner's cache backend.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Execute runs the complete pipeline: measure, allocate, render.
func (r *Runner) Execute(ctx context.Context, deck card.Deck, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := deck.Validate(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	start := time.Now()
	m, measureHit, err := r.MeasureWithCacheInfo(ctx, deck, opts)
	if err != nil {
		return nil, err
	}
	result.Measurements = m
	result.Stats.MeasureTime = time.Since(start)
	result.Stats.CardCount = m.CellCount()
	result.CacheInfo.MeasureHit = measureHit

	mData, err := card.MarshalMeasurements(m)
	if err != nil {
		return nil, fmt.Errorf("marshal measurements: %w", err)
	}
	result.MeasureHash = cache.Hash(mData)

	start = time.Now()
	g, gridHit, err := r.PlanWithCacheInfo(ctx, m, result.MeasureHash, opts)
	if err != nil {
		return nil, err
	}
	g.Title = deck.Title
	result.Grid = g
	result.Stats.AllocateTime = time.Since(start)
	result.Stats.RowCount = g.RowCount()
	result.CacheInfo.GridHit = gridHit

	gData, err := card.MarshalGrid(g)
	if err != nil {
		return nil, fmt.Errorf("marshal grid: %w", err)
	}
	result.GridHash = cache.Hash(gData)

	start = time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, result.GridHash, deck, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Debug("pipeline complete",
		"cards", result.Stats.CardCount,
		"rows", result.Stats.RowCount,
		"over_budget", g.OverBudget,
		"measure_hit", measureHit,
		"grid_hit", gridHit,
		"render_hit", renderHit)

	return result, nil
}

// =============================================================================
// Measure Stage
// =============================================================================

// Measure runs the measurement stage. See MeasureWithCacheInfo for caching
// details.
func (r *Runner) Measure(ctx context.Context, deck card.Deck, opts Options) (card.Measurements, error) {
	m, _, err := r.MeasureWithCacheInfo(ctx, deck, opts)
	return m, err
}

// MeasureWithCacheInfo measures the deck, returning whether the result came
// from cache. The cache key covers the deck content and all measurement
// options, so an edited deck never reuses stale measurements.
func (r *Runner) MeasureWithCacheInfo(ctx context.Context, deck card.Deck, opts Options) (card.Measurements, bool, error) {
	if err := opts.ValidateForMeasure(); err != nil {
		return card.Measurements{}, false, err
	}

	deckData, err := card.MarshalDeck(deck)
	if err != nil {
		return card.Measurements{}, false, fmt.Errorf("marshal deck: %w", err)
	}
	key := r.Keyer.MeasureKey(cache.Hash(deckData), opts.MeasureKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if m, err := card.UnmarshalMeasurements(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "measure")
				r.Logger.Debug("measurements cache hit", "key", key)
				return m, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "measure")
	}

	cardCount := len(deck.Cards)
	observability.Pipeline().OnMeasureStart(ctx, cardCount)
	start := time.Now()

	m, err := measure.Deck(deck, opts.MeasureOptions())
	observability.Pipeline().OnMeasureComplete(ctx, cardCount, time.Since(start), err)
	if err != nil {
		return card.Measurements{}, false, err
	}

	if data, err := card.MarshalMeasurements(m); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLMeasurements); err != nil {
			r.Logger.Warn("cache write failed", "stage", "measure", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "measure", len(data))
		}
	}

	return m, false, nil
}

// =============================================================================
// Allocate Stage
// =============================================================================

// Plan runs the allocation stage against measurements. See PlanWithCacheInfo
// for caching details.
func (r *Runner) Plan(ctx context.Context, m card.Measurements, opts Options) (card.Grid, error) {
	data, err := card.MarshalMeasurements(m)
	if err != nil {
		return card.Grid{}, fmt.Errorf("marshal measurements: %w", err)
	}
	g, _, err := r.PlanWithCacheInfo(ctx, m, cache.Hash(data), opts)
	return g, err
}

// PlanWithCacheInfo computes the grid allocation, returning whether the
// result came from cache. measureHash keys the cache entry; it must be the
// content hash of m.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, m card.Measurements, measureHash string, opts Options) (card.Grid, bool, error) {
	opts.SetAllocateDefaults()

	key := r.Keyer.GridKey(measureHash, opts.GridKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if g, err := card.UnmarshalGrid(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "grid")
				r.Logger.Debug("grid cache hit", "key", key)
				return g, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "grid")
	}

	observability.Pipeline().OnAllocateStart(ctx, len(m.Rows))
	start := time.Now()

	g, err := allocate.Plan(m, opts.AllocateOptions())
	observability.Pipeline().OnAllocateComplete(ctx, len(m.Rows), g.OverBudget, time.Since(start), err)
	if err != nil {
		return card.Grid{}, false, err
	}

	if data, err := card.MarshalGrid(g); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLGrid); err != nil {
			r.Logger.Warn("cache write failed", "stage", "allocate", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "grid", len(data))
		}
	}

	return g, false, nil
}

// =============================================================================
// Render Stage
// =============================================================================

// Render renders all requested formats for a grid. The deck argument is
// optional; when present, cell labels use card titles instead of IDs.
func (r *Runner) Render(ctx context.Context, g card.Grid, deck card.Deck, opts Options) (map[string][]byte, error) {
	data, err := card.MarshalGrid(g)
	if err != nil {
		return nil, fmt.Errorf("marshal grid: %w", err)
	}
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, cache.Hash(data), deck, opts)
	return artifacts, err
}

// RenderWithCacheInfo renders all requested formats, returning whether every
// artifact came from cache. gridHash keys the cache entries; it must be the
// content hash of g.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g card.Grid, gridHash string, deck card.Deck, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true
	var renderErr error

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(gridHash, opts.ArtifactKeyOpts(format))

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allHit = false

		data, err := renderArtifact(g, deck, format, opts)
		if err != nil {
			renderErr = fmt.Errorf("render %s: %w", format, err)
			break
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "stage", "render", "format", format, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), renderErr)
	if renderErr != nil {
		return nil, false, renderErr
	}
	return artifacts, allHit && len(opts.Formats) > 0, nil
}
