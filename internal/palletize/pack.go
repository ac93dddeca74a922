package palletize

import (
	"fmt"

	"github.com/eugenenazirov/shipment-planner/internal/catalog"
	"github.com/eugenenazirov/shipment-planner/internal/model"
	"github.com/eugenenazirov/shipment-planner/internal/packing"
	"github.com/eugenenazirov/shipment-planner/internal/weight"
)

// Reasons recorded for boxes that found no outer container.
const (
	ReasonNoOuterContainer = "delivery site accepts neither pallets nor crates"
	ReasonNoPallet         = "no pallet can accommodate box"
	ReasonNoCrate          = "no crate can accommodate box"
)

// UnassignedBox is a box that could not be loaded anywhere.
type UnassignedBox struct {
	Box    packing.Box `json:"box"`
	Reason string      `json:"reason"`
}

// Result is the outcome of consolidating boxes into outer containers.
type Result struct {
	Containers []Container     `json:"containers"`
	Unassigned []UnassignedBox `json:"unassigned"`
}

// PackagingWeight sums the container tares, rounded up once.
func (r Result) PackagingWeight() int {
	total := 0.0
	for _, c := range r.Containers {
		total += c.Tare
	}
	return weight.CeilPounds(total)
}

// Packer consolidates boxes into pallets or crates using the catalog's
// container geometry.
type Packer struct {
	catalog catalog.Catalog
}

// NewPacker creates a Packer bound to c.
func NewPacker(c catalog.Catalog) *Packer {
	return &Packer{catalog: c}
}

// ChooseStandardPallet picks the pallet type for n standard boxes by comparing
// total tare: full standard pallets against full oversize pallets. Ties go to
// the option with fewer pallets, then to standard pallets.
func ChooseStandardPallet(n int, standard, oversize catalog.ContainerSpec) model.ContainerType {
	stdCount := palletsFor(n, standard.MaxBoxes)
	overCount := palletsFor(n, oversize.MaxBoxes)
	stdTare := float64(stdCount) * standard.Tare
	overTare := float64(overCount) * oversize.Tare

	switch {
	case overTare < stdTare:
		return oversize.Type
	case overTare == stdTare && overCount < stdCount:
		return oversize.Type
	default:
		return standard.Type
	}
}

func palletsFor(n, perPallet int) int {
	if perPallet <= 0 {
		return n
	}
	return (n + perPallet - 1) / perPallet
}

// Pack loads boxes according to what the delivery site accepts. Pallets win
// over crates when both are accepted.
func (p *Packer) Pack(boxes []packing.Box, caps model.DeliveryCapabilities) (Result, error) {
	switch {
	case caps.AcceptsPallets:
		return p.packPallets(boxes)
	case caps.AcceptsCrates:
		return p.packCrates(boxes)
	default:
		res := Result{}
		for _, b := range boxes {
			res.Unassigned = append(res.Unassigned, UnassignedBox{Box: b, Reason: ReasonNoOuterContainer})
		}
		return res, nil
	}
}

// load tracks the open containers of one Pack call.
type load struct {
	maxStack   float64
	prefix     string
	containers []*ContainerBuilder
	unassigned []UnassignedBox
}

func (l *load) firstFit(b packing.Box, accept func(*ContainerBuilder) bool) *ContainerBuilder {
	for _, c := range l.containers {
		if accept(c) && c.CanAccommodate(b) {
			return c
		}
	}
	return nil
}

// open starts a container of spec when an empty one could take b.
func (l *load) open(spec catalog.ContainerSpec, b packing.Box) *ContainerBuilder {
	c := NewContainerBuilder(fmt.Sprintf("%s-%d", l.prefix, len(l.containers)+1), spec, l.maxStack)
	if !c.CanAccommodate(b) {
		return nil
	}
	l.containers = append(l.containers, c)
	return c
}

func (l *load) place(b packing.Box, accept func(*ContainerBuilder) bool, spec catalog.ContainerSpec) bool {
	c := l.firstFit(b, accept)
	if c == nil {
		c = l.open(spec, b)
	}
	if c == nil {
		return false
	}
	c.AddBox(b)
	return true
}

func (l *load) result() Result {
	res := Result{Unassigned: l.unassigned}
	for _, c := range l.containers {
		res.Containers = append(res.Containers, c.Snapshot())
	}
	return res
}

func anyContainer(*ContainerBuilder) bool { return true }

func (p *Packer) spec(t model.ContainerType) (catalog.ContainerSpec, error) {
	spec, ok := p.catalog.Container(t)
	if !ok {
		return catalog.ContainerSpec{}, fmt.Errorf("%w: %s", ErrUnknownContainerType, t)
	}
	return spec, nil
}

func (p *Packer) packPallets(boxes []packing.Box) (Result, error) {
	standardSpec, err := p.spec(model.ContainerStandardPallet)
	if err != nil {
		return Result{}, err
	}
	oversizeSpec, err := p.spec(model.ContainerOversizePallet)
	if err != nil {
		return Result{}, err
	}

	var standard, large []packing.Box
	for _, b := range boxes {
		if b.Type == model.BoxLarge {
			large = append(large, b)
		} else {
			standard = append(standard, b)
		}
	}

	chosen := standardSpec
	if ChooseStandardPallet(len(standard), standardSpec, oversizeSpec) == oversizeSpec.Type {
		chosen = oversizeSpec
	}

	l := &load{maxStack: p.catalog.Thresholds().MaxStackHeight, prefix: "pallet"}
	var retry []packing.Box
	for _, b := range standard {
		if !l.place(b, anyContainer, chosen) {
			retry = append(retry, b)
		}
	}
	for _, b := range large {
		if !l.place(b, anyContainer, oversizeSpec) {
			retry = append(retry, b)
		}
	}

	onlyOversize := func(c *ContainerBuilder) bool { return c.Type() == oversizeSpec.Type }
	for _, b := range retry {
		if !l.place(b, onlyOversize, oversizeSpec) {
			l.unassigned = append(l.unassigned, UnassignedBox{Box: b, Reason: ReasonNoPallet})
		}
	}
	return l.result(), nil
}

func (p *Packer) packCrates(boxes []packing.Box) (Result, error) {
	crate, err := p.spec(model.ContainerStandardCrate)
	if err != nil {
		return Result{}, err
	}
	l := &load{maxStack: p.catalog.Thresholds().MaxStackHeight, prefix: "crate"}
	for _, b := range boxes {
		if !l.place(b, anyContainer, crate) {
			l.unassigned = append(l.unassigned, UnassignedBox{Box: b, Reason: ReasonNoCrate})
		}
	}
	return l.result(), nil
}
