// Package classify derives container eligibility from an item's raw footprint
// and attributes. Every decision works on unrounded dimensions.
package classify

import (
	"fmt"

	"github.com/eugenenazirov/shipment-planner/internal/catalog"
	"github.com/eugenenazirov/shipment-planner/internal/model"
)

// Classifier evaluates eligibility rules against a fixed set of thresholds.
type Classifier struct {
	th catalog.Thresholds
}

// New creates a Classifier bound to thresholds.
func New(th catalog.Thresholds) *Classifier {
	return &Classifier{th: th}
}

// Thresholds returns the constants the classifier was built with.
func (c *Classifier) Thresholds() catalog.Thresholds {
	return c.th
}

// NeedsCustomPackaging reports whether no box can hold the item: both sides
// exceed the large-box threshold, or the long side exceeds the telescoping
// maximum.
func (c *Classifier) NeedsCustomPackaging(it model.Item) bool {
	fp := it.Footprint()
	if fp.ShortSide > c.th.LargeBox && fp.LongSide > c.th.LargeBox {
		return true
	}
	return fp.LongSide > c.th.TelescopingMax
}

// RequiresCrateOnly reports whether the item must skip boxing entirely. No
// category is crate-only in the canonical rule set.
func (c *Classifier) RequiresCrateOnly(model.Item) bool {
	return false
}

// RequiresOversizeBox reports whether both sides exceed the standard-box
// threshold while neither exceeds the large-box threshold.
func (c *Classifier) RequiresOversizeBox(it model.Item) bool {
	fp := it.Footprint()
	return fp.ShortSide > c.th.StandardBox && fp.LongSide <= c.th.LargeBox
}

// FitsTelescopingBox reports whether a standard box, stretched if needed, can
// hold the item.
func (c *Classifier) FitsTelescopingBox(it model.Item) bool {
	fp := it.Footprint()
	return fp.ShortSide <= c.th.StandardBox && fp.LongSide <= c.th.TelescopingMax
}

// FitsAnyBox reports whether the item fits either a large box or a
// (possibly telescoped) standard box.
func (c *Classifier) FitsAnyBox(it model.Item) bool {
	return c.RequiresOversizeBox(it) || c.FitsTelescopingBox(it)
}

// IsOversized buckets items for work-order reporting. It plays no part in box
// selection.
func (c *Classifier) IsOversized(it model.Item) bool {
	return it.Footprint().LongSide > c.th.OversizedReport
}

// RequiresSpecialHandling reports whether the item carries any handling flag,
// belongs to a fragile category, or is glazed with glass.
func (c *Classifier) RequiresSpecialHandling(it model.Item) bool {
	return len(SpecialHandlingReasons(it)) > 0
}

// PreferredBoxType picks the box type the strategies open for this item.
func (c *Classifier) PreferredBoxType(it model.Item) model.BoxType {
	if c.RequiresOversizeBox(it) {
		return model.BoxLarge
	}
	return model.BoxStandard
}

// CustomPackagingReason explains why NeedsCustomPackaging or FitsAnyBox
// rejected the item.
func (c *Classifier) CustomPackagingReason(it model.Item) string {
	fp := it.Footprint()
	switch {
	case fp.ShortSide > c.th.LargeBox && fp.LongSide > c.th.LargeBox:
		return fmt.Sprintf("requires custom packaging: both sides exceed %gin", c.th.LargeBox)
	case fp.LongSide > c.th.TelescopingMax:
		return fmt.Sprintf("requires custom packaging: long side %gin exceeds telescoping maximum %gin", fp.LongSide, c.th.TelescopingMax)
	default:
		return fmt.Sprintf("requires custom packaging: %gx%gin fits neither a large nor a telescoping standard box", fp.LongSide, fp.ShortSide)
	}
}

// SpecialHandlingReasons lists why an item needs special handling, in a fixed
// order. An empty result means none is needed.
func SpecialHandlingReasons(it model.Item) []string {
	var reasons []string
	for _, flag := range it.Flags {
		reasons = append(reasons, "flag:"+string(flag))
	}
	if FlaggedCategory(it.Category) {
		reasons = append(reasons, "category:"+string(it.Category))
	}
	if it.Material == model.MaterialGlass {
		reasons = append(reasons, "material:glass")
	}
	return reasons
}

// FlaggedCategory reports whether a product category always needs special
// handling and extra shipping documentation.
func FlaggedCategory(c model.ProductCategory) bool {
	switch c {
	case model.CategoryMirror, model.CategoryWallDecor, model.CategoryAcousticPanelFramed:
		return true
	}
	return false
}
