package palletize

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/eugenenazirov/shipment-planner/internal/catalog"
	"github.com/eugenenazirov/shipment-planner/internal/model"
	"github.com/eugenenazirov/shipment-planner/internal/packing"
	"github.com/eugenenazirov/shipment-planner/internal/weight"
)

// Container is an immutable snapshot of a loaded pallet or crate.
type Container struct {
	ID            string              `json:"id"`
	Type          model.ContainerType `json:"type"`
	BoxIDs        []string            `json:"boxIds"`
	Boxes         []packing.Box       `json:"-"`
	Tare          float64             `json:"-"`
	TareWeight    int                 `json:"tareWeight"`
	StackHeight   float64             `json:"stackHeight"`
	Footprint     model.Dimensions    `json:"footprint"`
	ContentWeight int                 `json:"contentWeight"`
	TotalWeight   int                 `json:"totalWeight"`
}

// ContainerBuilder loads boxes onto one outer container, enforcing the type's
// allow-list, its box count and the stacking height limit.
type ContainerBuilder struct {
	id       string
	spec     catalog.ContainerSpec
	maxStack float64

	boxes   []packing.Box
	height  float64
	content int
}

// NewContainerBuilder opens an empty container. maxStack is the summed box
// height the container may carry.
func NewContainerBuilder(id string, spec catalog.ContainerSpec, maxStack float64) *ContainerBuilder {
	return &ContainerBuilder{id: id, spec: spec, maxStack: maxStack}
}

// ID returns the container identifier.
func (c *ContainerBuilder) ID() string { return c.id }

// Type returns the container type.
func (c *ContainerBuilder) Type() model.ContainerType { return c.spec.Type }

// Len returns the number of loaded boxes.
func (c *ContainerBuilder) Len() int { return len(c.boxes) }

// StackHeight returns the summed height of the loaded boxes.
func (c *ContainerBuilder) StackHeight() float64 { return c.height }

// CanAccommodate reports whether b may be added.
func (c *ContainerBuilder) CanAccommodate(b packing.Box) bool {
	if !c.spec.Allows(b.Type) {
		return false
	}
	if len(c.boxes) >= c.spec.MaxBoxes {
		return false
	}
	return c.height+b.Height() <= c.maxStack
}

// AddBox loads b. Callers check CanAccommodate first.
func (c *ContainerBuilder) AddBox(b packing.Box) {
	c.boxes = append(c.boxes, b)
	c.height += b.Height()
	c.content += b.Weight
}

// TotalWeight is the tare plus every loaded box, rounded up.
func (c *ContainerBuilder) TotalWeight() int {
	total := decimal.NewFromFloat(c.spec.Tare).Add(decimal.NewFromInt(int64(c.content)))
	return int(total.Ceil().IntPart())
}

// Footprint is the freight size of the load: the longest and widest box and
// the stack height capped at the stacking limit.
func (c *ContainerBuilder) Footprint() model.Dimensions {
	var dims model.Dimensions
	for _, b := range c.boxes {
		dims.Length = max(dims.Length, b.Dimensions.Length)
		dims.Width = max(dims.Width, b.Dimensions.Width)
	}
	dims.Height = min(c.height, c.maxStack)
	return dims
}

// Snapshot returns an immutable copy of the container.
func (c *ContainerBuilder) Snapshot() Container {
	ids := make([]string, len(c.boxes))
	for i, b := range c.boxes {
		ids[i] = b.ID
	}
	return Container{
		ID:            c.id,
		Type:          c.spec.Type,
		BoxIDs:        ids,
		Boxes:         slices.Clone(c.boxes),
		Tare:          c.spec.Tare,
		TareWeight:    weight.CeilPounds(c.spec.Tare),
		StackHeight:   c.height,
		Footprint:     c.Footprint(),
		ContentWeight: c.content,
		TotalWeight:   c.TotalWeight(),
	}
}
