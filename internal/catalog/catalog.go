package catalog

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/eugenenazirov/shipment-planner/internal/model"
)

// BoxSpec describes the geometry and capacity of one box type. Length and
// Width are the planar outer size, Height is the stacking thickness.
type BoxSpec struct {
	Type            model.BoxType `json:"type" yaml:"type"`
	Length          float64       `json:"length" yaml:"length"`
	Width           float64       `json:"width" yaml:"width"`
	Height          float64       `json:"height" yaml:"height"`
	InnerLength     float64       `json:"innerLength" yaml:"inner_length"`
	InnerWidth      float64       `json:"innerWidth" yaml:"inner_width"`
	InnerHeight     float64       `json:"innerHeight" yaml:"inner_height"`
	Tare            float64       `json:"tare" yaml:"tare"`
	NominalCapacity int           `json:"nominalCapacity" yaml:"nominal_capacity"`
	Telescoping     bool          `json:"telescoping" yaml:"telescoping"`
}

// Nominal returns the catalog outer dimensions.
func (b BoxSpec) Nominal() model.Dimensions {
	return model.Dimensions{Length: b.Length, Width: b.Width, Height: b.Height}
}

// ContainerSpec describes one outer container type.
type ContainerSpec struct {
	Type     model.ContainerType `json:"type" yaml:"type"`
	Length   float64             `json:"length" yaml:"length"`
	Width    float64             `json:"width" yaml:"width"`
	Tare     float64             `json:"tare" yaml:"tare"`
	MaxBoxes int                 `json:"maxBoxes" yaml:"max_boxes"`
	// Allowed box types; empty means every box type is accepted.
	Allowed []model.BoxType `json:"allowed,omitempty" yaml:"allowed,omitempty"`
}

// Allows reports whether boxes of type t may be loaded on this container.
func (c ContainerSpec) Allows(t model.BoxType) bool {
	return len(c.Allowed) == 0 || slices.Contains(c.Allowed, t)
}

// Thresholds holds the boundary constants used by classification and
// consolidation. All lengths are in inches.
type Thresholds struct {
	StandardBox      float64 `json:"standardBox" yaml:"standard_box"`
	LargeBox         float64 `json:"largeBox" yaml:"large_box"`
	TelescopingMax   float64 `json:"telescopingMax" yaml:"telescoping_max"`
	OversizedReport  float64 `json:"oversizedReport" yaml:"oversized_report"`
	MaxStackHeight   float64 `json:"maxStackHeight" yaml:"max_stack_height"`
	DefaultDepth     float64 `json:"defaultDepth" yaml:"default_depth"`
	OversizeCapacity int     `json:"oversizeCapacity" yaml:"oversize_capacity"`
}

// Catalog is an immutable lookup of box and container geometry, capacity
// tables and material weight factors. The zero value is empty; use Default or
// Apply to build one.
type Catalog struct {
	boxes      map[model.BoxType]BoxSpec
	containers map[model.ContainerType]ContainerSpec
	capacities map[model.ProductCategory]map[model.BoxType]int
	factors    map[model.Material]decimal.Decimal
	thresholds Thresholds
}

// Box returns the spec for a box type.
func (c Catalog) Box(t model.BoxType) (BoxSpec, bool) {
	spec, ok := c.boxes[t]
	return spec, ok
}

// Container returns the spec for a container type.
func (c Catalog) Container(t model.ContainerType) (ContainerSpec, bool) {
	spec, ok := c.containers[t]
	return spec, ok
}

// Capacity returns the per-box piece limit for a category in a box type.
func (c Catalog) Capacity(cat model.ProductCategory, t model.BoxType) (int, bool) {
	byType, ok := c.capacities[cat]
	if !ok {
		return 0, false
	}
	limit, ok := byType[t]
	return limit, ok
}

// Factor returns the per-square-inch weight factor of a material.
func (c Catalog) Factor(m model.Material) (decimal.Decimal, bool) {
	f, ok := c.factors[m]
	return f, ok
}

// Factors returns a copy of the material factor table.
func (c Catalog) Factors() map[model.Material]decimal.Decimal {
	return maps.Clone(c.factors)
}

// Thresholds returns the boundary constants.
func (c Catalog) Thresholds() Thresholds {
	return c.thresholds
}

// Validate checks that the catalog can drive a packing run.
func (c Catalog) Validate() error {
	for _, t := range []model.BoxType{model.BoxStandard, model.BoxLarge} {
		spec, ok := c.boxes[t]
		if !ok {
			return fmt.Errorf("%w: missing box type %s", ErrInvalidCatalog, t)
		}
		if spec.NominalCapacity <= 0 || spec.InnerHeight <= 0 {
			return fmt.Errorf("%w: box type %s needs positive capacity and inner height", ErrInvalidCatalog, t)
		}
	}
	for _, t := range model.ContainerTypes() {
		spec, ok := c.containers[t]
		if !ok {
			return fmt.Errorf("%w: missing container type %s", ErrInvalidCatalog, t)
		}
		if spec.MaxBoxes <= 0 {
			return fmt.Errorf("%w: container type %s needs a positive box limit", ErrInvalidCatalog, t)
		}
		if spec.Tare < 0 {
			return fmt.Errorf("%w: container type %s has negative tare", ErrInvalidCatalog, t)
		}
	}
	for cat, byType := range c.capacities {
		for t, limit := range byType {
			if limit <= 0 {
				return fmt.Errorf("%w: capacity for %s in %s must be positive", ErrInvalidCatalog, cat, t)
			}
		}
	}
	for m, f := range c.factors {
		if f.IsNegative() {
			return fmt.Errorf("%w: negative weight factor for %s", ErrInvalidCatalog, m)
		}
	}
	th := c.thresholds
	if th.StandardBox <= 0 || th.LargeBox < th.StandardBox || th.TelescopingMax < th.LargeBox {
		return fmt.Errorf("%w: box thresholds must satisfy 0 < standard <= large <= telescoping", ErrInvalidCatalog)
	}
	if th.MaxStackHeight <= 0 || th.DefaultDepth <= 0 || th.OversizeCapacity <= 0 {
		return fmt.Errorf("%w: stack height, default depth and oversize capacity must be positive", ErrInvalidCatalog)
	}
	return nil
}
