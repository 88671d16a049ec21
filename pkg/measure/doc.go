// Package measure implements the measurement collector feeding the
// allocator.
//
// Measurement always happens against the unclamped content: each card's
// natural line count is derived by wrapping its full body text at the
// configured column width, never from a previously clamped rendering. The
// collector also resolves the line-unit height to a concrete number before
// anything reaches the allocator — from configuration when given, otherwise
// by probing a rendered reference glyph (see Typeface).
package measure
