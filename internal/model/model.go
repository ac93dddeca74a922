package model

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// ProductCategory is the closed set of artwork product lines.
type ProductCategory string

const (
	CategoryPaperPrint          ProductCategory = "paper_print"
	CategoryPaperPrintTitled    ProductCategory = "paper_print_titled"
	CategoryCanvasFloatFrame    ProductCategory = "canvas_float_frame"
	CategoryWallDecor           ProductCategory = "wall_decor"
	CategoryAcousticPanel       ProductCategory = "acoustic_panel"
	CategoryAcousticPanelFramed ProductCategory = "acoustic_panel_framed"
	CategoryMetalPrint          ProductCategory = "metal_print"
	CategoryMirror              ProductCategory = "mirror"
	CategoryPatientBoard        ProductCategory = "patient_board"
)

// Categories lists every known product category in a stable order.
func Categories() []ProductCategory {
	return []ProductCategory{
		CategoryPaperPrint,
		CategoryPaperPrintTitled,
		CategoryCanvasFloatFrame,
		CategoryWallDecor,
		CategoryAcousticPanel,
		CategoryAcousticPanelFramed,
		CategoryMetalPrint,
		CategoryMirror,
		CategoryPatientBoard,
	}
}

// ParseCategory validates a raw category identifier.
func ParseCategory(raw string) (ProductCategory, error) {
	c := ProductCategory(raw)
	if !slices.Contains(Categories(), c) {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
	return c, nil
}

// Material identifies the glazing or substrate that drives shipping weight.
type Material string

const (
	MaterialGlass        Material = "glass"
	MaterialAcrylic      Material = "acrylic"
	MaterialCanvas       Material = "canvas"
	MaterialMirror       Material = "mirror"
	MaterialAcousticFoam Material = "acoustic_foam"
	MaterialPatientBoard Material = "patient_board"
	MaterialAluminum     Material = "aluminum"
	// MaterialNoGlazing is the sentinel for unknown or absent glazing; it weighs nothing.
	MaterialNoGlazing Material = "no_glazing"
)

// Materials lists every material the default catalog prices.
func Materials() []Material {
	return []Material{
		MaterialGlass,
		MaterialAcrylic,
		MaterialCanvas,
		MaterialMirror,
		MaterialAcousticFoam,
		MaterialPatientBoard,
		MaterialAluminum,
		MaterialNoGlazing,
	}
}

// ParseMaterial normalizes a raw material name. Blank, "none" and "unknown"
// map to MaterialNoGlazing. Other names pass through; whether they are priced
// is decided by the catalog's factor table.
func ParseMaterial(raw string) Material {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.NewReplacer(" ", "_", "-", "_").Replace(name)
	switch name {
	case "", "none", "unknown":
		return MaterialNoGlazing
	}
	return Material(name)
}

// HandlingFlag marks a piece that needs attention beyond its category defaults.
type HandlingFlag string

const (
	FlagTactile     HandlingFlag = "tactile"
	FlagRaisedFloat HandlingFlag = "raised_float"
	FlagFragile     HandlingFlag = "fragile"
	FlagHighValue   HandlingFlag = "high_value"
)

// BoxType tags the inner container a piece is packed in.
type BoxType string

const (
	BoxStandard    BoxType = "standard"
	BoxLarge       BoxType = "large"
	BoxSmallParcel BoxType = "small_parcel"
	BoxLargeParcel BoxType = "large_parcel"
)

// BoxTypes lists every box type in a stable order.
func BoxTypes() []BoxType {
	return []BoxType{BoxStandard, BoxLarge, BoxSmallParcel, BoxLargeParcel}
}

// ContainerType tags the outer container boxes are consolidated on.
type ContainerType string

const (
	ContainerStandardPallet   ContainerType = "standard_pallet"
	ContainerOversizePallet   ContainerType = "oversize_pallet"
	ContainerGlassSmallPallet ContainerType = "glass_small_pallet"
	ContainerStandardCrate    ContainerType = "standard_crate"
)

// ContainerTypes lists every outer container type in a stable order.
func ContainerTypes() []ContainerType {
	return []ContainerType{
		ContainerStandardPallet,
		ContainerOversizePallet,
		ContainerGlassSmallPallet,
		ContainerStandardCrate,
	}
}

// DeliveryCapabilities describes what the receiving site can handle.
type DeliveryCapabilities struct {
	AcceptsPallets      bool `json:"acceptsPallets"`
	AcceptsCrates       bool `json:"acceptsCrates"`
	HasLoadingDock      bool `json:"hasLoadingDock"`
	RequiresLiftgate    bool `json:"requiresLiftgate"`
	NeedsInsideDelivery bool `json:"needsInsideDelivery"`
}

// DefaultDelivery is assumed when a request does not describe the delivery
// site: a commercial dock that takes pallets and crates.
func DefaultDelivery() DeliveryCapabilities {
	return DeliveryCapabilities{AcceptsPallets: true, AcceptsCrates: true, HasLoadingDock: true}
}

// Footprint is an item's planar size sorted so that LongSide >= ShortSide.
type Footprint struct {
	LongSide  float64
	ShortSide float64
}

// NewFootprint orders two planar dimensions.
func NewFootprint(a, b float64) Footprint {
	if b > a {
		a, b = b, a
	}
	return Footprint{LongSide: a, ShortSide: b}
}

// Dimensions is a length/width/height triple in inches.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// String renders the freight format "<L>x<W>x<H>" with each side rounded up.
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%dx%d", CeilInch(d.Length), CeilInch(d.Width), CeilInch(d.Height))
}

// CeilInch rounds a raw measurement up to whole inches.
func CeilInch(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Ceil(v))
}
