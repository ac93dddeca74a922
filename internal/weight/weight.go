// Package weight derives shipping weights from an item's material and raw
// footprint. Per-piece weights are rounded up before they are multiplied by
// quantity, so a line of eleven pieces weighs eleven rounded pieces.
package weight

import (
	"errors"
	"fmt"
	"maps"

	"github.com/shopspring/decimal"

	"github.com/eugenenazirov/shipment-planner/internal/model"
)

// ErrUnknownMaterial is returned when an item references a material missing
// from the factor table. It signals corrupted upstream data and aborts a run.
var ErrUnknownMaterial = errors.New("unknown material")

// Engine computes weights from a fixed table of per-square-inch factors.
type Engine struct {
	factors map[model.Material]decimal.Decimal
}

// New creates an Engine over a copy of factors.
func New(factors map[model.Material]decimal.Decimal) *Engine {
	return &Engine{factors: maps.Clone(factors)}
}

// PieceWeight returns the weight of a single piece, rounded up to whole pounds.
func (e *Engine) PieceWeight(it model.Item) (int, error) {
	factor, ok := e.factors[it.Material]
	if !ok {
		return 0, fmt.Errorf("item %s: %w %q", it.ID, ErrUnknownMaterial, it.Material)
	}
	area := decimal.NewFromFloat(it.Length).Mul(decimal.NewFromFloat(it.Width))
	return int(area.Mul(factor).Ceil().IntPart()), nil
}

// Weight returns the rounded per-piece weight multiplied by quantity.
func (e *Engine) Weight(it model.Item) (int, error) {
	piece, err := e.PieceWeight(it)
	if err != nil {
		return 0, err
	}
	return piece * it.Quantity, nil
}

// TotalWeight sums Weight over items and stops at the first unknown material.
func (e *Engine) TotalWeight(items []model.Item) (int, error) {
	total := 0
	for _, it := range items {
		w, err := e.Weight(it)
		if err != nil {
			return 0, err
		}
		total += w
	}
	return total, nil
}

// CeilPounds rounds a fractional pound value up to a non-negative integer.
func CeilPounds(v float64) int {
	d := decimal.NewFromFloat(v)
	if !d.IsPositive() {
		return 0
	}
	return int(d.Ceil().IntPart())
}
