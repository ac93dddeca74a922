// Package catalog owns the box and container geometry, the per-category
// capacity table and the material weight factors consumed by the packing
// engine. Catalogs are immutable values; a MemoryStore swaps whole catalogs
// for the HTTP service.
package catalog
