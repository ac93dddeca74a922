// Package shipment orchestrates a packing run: it picks a strategy, packs
// items into boxes, loads the boxes onto pallets or crates and aggregates the
// work-order, weight, packing, business and freight summaries.
package shipment
