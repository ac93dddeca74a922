package model

import (
	"fmt"
	"slices"
)

// Item is one line of artwork to ship. Items are values: splitting produces new
// records and never touches the original.
type Item struct {
	ID            string          `json:"id" validate:"required"`
	Category      ProductCategory `json:"category" validate:"required"`
	Material      Material        `json:"material" validate:"required"`
	Length        float64         `json:"length" validate:"gt=0"`
	Width         float64         `json:"width" validate:"gt=0"`
	Depth         float64         `json:"depth,omitempty" validate:"gte=0"`
	Quantity      int             `json:"quantity" validate:"gt=0"`
	Flags         []HandlingFlag  `json:"flags,omitempty" validate:"dive,oneof=tactile raised_float fragile high_value"`
	HardwareLabel string          `json:"hardwareLabel,omitempty"`
	HardwareCount int             `json:"hardwareCount,omitempty" validate:"gte=0"`
}

// Footprint returns the raw planar dimensions sorted descending.
func (it Item) Footprint() Footprint {
	return NewFootprint(it.Length, it.Width)
}

// RoundedDimensions returns the footprint rounded up to whole inches. It is
// meant for reporting only; fit decisions always use the raw values.
func (it Item) RoundedDimensions() (long, short int) {
	fp := it.Footprint()
	return CeilInch(fp.LongSide), CeilInch(fp.ShortSide)
}

// DepthOr returns the item's depth, or fallback when none was supplied.
func (it Item) DepthOr(fallback float64) float64 {
	if it.Depth > 0 {
		return it.Depth
	}
	return fallback
}

// HasFlag reports whether flag is set on the item.
func (it Item) HasFlag(flag HandlingFlag) bool {
	return slices.Contains(it.Flags, flag)
}

// HasAnyFlag reports whether any special-handling flag is set.
func (it Item) HasAnyFlag() bool {
	return len(it.Flags) > 0
}

// Validate checks the structural invariants of an item record.
func (it Item) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidItem)
	}
	if _, err := ParseCategory(string(it.Category)); err != nil {
		return fmt.Errorf("item %s: %w", it.ID, err)
	}
	if it.Length <= 0 || it.Width <= 0 {
		return fmt.Errorf("%w: item %s has non-positive dimensions", ErrInvalidItem, it.ID)
	}
	if it.Depth < 0 {
		return fmt.Errorf("%w: item %s has negative depth", ErrInvalidItem, it.ID)
	}
	if it.Quantity <= 0 {
		return fmt.Errorf("%w: item %s has non-positive quantity", ErrInvalidItem, it.ID)
	}
	return nil
}

// WithQuantity returns a copy of the item with a new id and quantity.
func (it Item) WithQuantity(id string, qty int) Item {
	cp := it
	cp.ID = id
	cp.Quantity = qty
	cp.Flags = slices.Clone(it.Flags)
	return cp
}

// SplitID derives the id of the n-th fragment of a split item.
func SplitID(parentID string, n int) string {
	return fmt.Sprintf("%s-split-%d", parentID, n)
}

// Split breaks an item into fragments of at most maxPerGroup pieces. The last
// fragment carries the remainder, so quantities always sum to the original.
func Split(it Item, maxPerGroup int) []Item {
	if maxPerGroup < 1 {
		maxPerGroup = 1
	}
	parts := make([]Item, 0, (it.Quantity+maxPerGroup-1)/maxPerGroup)
	remaining := it.Quantity
	for n := 1; remaining > 0; n++ {
		qty := min(remaining, maxPerGroup)
		parts = append(parts, it.WithQuantity(SplitID(it.ID, n), qty))
		remaining -= qty
	}
	return parts
}

// TotalQuantity sums quantities across items.
func TotalQuantity(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}
