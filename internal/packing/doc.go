// Package packing assigns artwork items to boxes. Three interchangeable
// strategies share one placement loop: items are sorted by footprint, items
// that can never be boxed are set aside with a reason, and lines too large for
// a single box are split into fragments with derived ids.
package packing
