// Package sink renders computed grids to output artifacts.
//
// The sinks draw the grid preview: one band per row at its allocated
// height, one box per cell showing the clamped line count, with truncated
// content indicated. Available sinks:
//
//   - RenderSVG: vector preview (ajstarks/svgo)
//   - RenderPNG: raster preview (fogleman/gg)
//   - RenderJSON: the serialized grid itself
//
// All sinks are pure functions over the Grid; attaching the source deck via
// WithDeck adds card titles to the preview but never changes geometry.
package sink
