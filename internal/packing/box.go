package packing

import (
	"fmt"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/eugenenazirov/shipment-planner/internal/catalog"
	"github.com/eugenenazirov/shipment-planner/internal/model"
)

// Allocation is one item line placed in a box.
type Allocation struct {
	Item        model.Item `json:"item"`
	PieceWeight int        `json:"pieceWeight"`
}

// Weight returns the rounded per-piece weight times quantity.
func (a Allocation) Weight() int {
	return a.PieceWeight * a.Item.Quantity
}

// Box is an immutable snapshot of a packed box.
type Box struct {
	ID               string           `json:"id"`
	Type             model.BoxType    `json:"type"`
	Contents         []Allocation     `json:"contents"`
	Notes            []string         `json:"notes,omitempty"`
	Dimensions       model.Dimensions `json:"dimensions"`
	Required         model.Dimensions `json:"required"`
	TelescopedLength float64          `json:"telescopedLength,omitempty"`
	Pieces           int              `json:"pieces"`
	Tare             float64          `json:"tare"`
	ContentWeight    int              `json:"contentWeight"`
	Weight           int              `json:"weight"`
}

// Height is the stacking height the box contributes to an outer container.
func (b Box) Height() float64 {
	return b.Dimensions.Height
}

// Telescoped reports whether the box was stretched past its nominal length.
func (b Box) Telescoped() bool {
	return b.TelescopedLength > 0
}

var handlingNotes = map[model.HandlingFlag]string{
	model.FlagTactile:     "tactile panel: pack face-up with raised-surface foam",
	model.FlagRaisedFloat: "raised-float mount: add corner blocks",
	model.FlagFragile:     "fragile: use double-wall insert",
	model.FlagHighValue:   "high value: seal and photograph before closing",
}

// BoxBuilder accumulates items into one box under the policy of a packing
// mode. It belongs to a single packing run.
type BoxBuilder struct {
	id    string
	spec  catalog.BoxSpec
	mode  Mode
	rules Rules

	allocations []Allocation
	notes       []string
	pieces      int
	depth       float64
}

// NewBoxBuilder opens an empty box of type t.
func NewBoxBuilder(id string, t model.BoxType, mode Mode, rules Rules) (*BoxBuilder, error) {
	spec, ok := rules.Catalog.Box(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBoxType, t)
	}
	return &BoxBuilder{id: id, spec: spec, mode: mode, rules: rules}, nil
}

// ID returns the box identifier.
func (b *BoxBuilder) ID() string { return b.id }

// Type returns the box type.
func (b *BoxBuilder) Type() model.BoxType { return b.spec.Type }

// Pieces returns the number of pieces allocated so far.
func (b *BoxBuilder) Pieces() int { return b.pieces }

// Empty reports whether nothing has been allocated yet.
func (b *BoxBuilder) Empty() bool { return len(b.allocations) == 0 }

// CanAccommodate reports whether the whole quantity of it can join the box.
func (b *BoxBuilder) CanAccommodate(it model.Item) bool {
	cls := b.rules.Classifier
	if cls.NeedsCustomPackaging(it) {
		return false
	}
	if cls.RequiresOversizeBox(it) && b.spec.Type != model.BoxLarge {
		return false
	}
	if !b.fits(it) {
		return false
	}

	switch b.mode {
	case ModeByMedium:
		if !b.Empty() && b.allocations[0].Item.Category != it.Category {
			return false
		}
		return b.pieces+it.Quantity <= b.Limit(it)
	case ModeByStrictestConstraint:
		limit := b.Limit(it)
		for _, a := range b.allocations {
			limit = min(limit, b.Limit(a.Item))
		}
		return b.pieces+it.Quantity <= limit
	case ModeByDepth:
		need := it.DepthOr(b.defaultDepth()) * float64(it.Quantity)
		return b.depth+need <= b.spec.InnerHeight
	default:
		return false
	}
}

// fits checks the planar footprint against the inner size, allowing a
// telescoping box to stretch its length.
func (b *BoxBuilder) fits(it model.Item) bool {
	fp := it.Footprint()
	if fp.ShortSide > b.spec.InnerWidth {
		return false
	}
	if fp.LongSide <= b.spec.InnerLength {
		return true
	}
	return b.spec.Telescoping && b.rules.Classifier.FitsTelescopingBox(it)
}

// Limit returns the per-box piece limit for the item's category in this box
// type. Categories missing from the capacity table fall back to the oversize
// default for oversize items and to the box's nominal capacity otherwise.
func (b *BoxBuilder) Limit(it model.Item) int {
	if limit, ok := b.rules.Catalog.Capacity(it.Category, b.spec.Type); ok {
		return limit
	}
	if b.rules.Classifier.RequiresOversizeBox(it) {
		return b.rules.Catalog.Thresholds().OversizeCapacity
	}
	return b.spec.NominalCapacity
}

// MaxPerBox is the largest group of it that an empty box of this type could
// take, used as the split size.
func (b *BoxBuilder) MaxPerBox(it model.Item) int {
	limit := b.Limit(it)
	if b.mode == ModeByDepth {
		byDepth := int(math.Floor(b.spec.InnerHeight / it.DepthOr(b.defaultDepth())))
		limit = min(limit, byDepth)
	}
	return max(limit, 1)
}

// AddArt allocates the item to the box and records any handling notes.
// Callers check CanAccommodate first.
func (b *BoxBuilder) AddArt(it model.Item) error {
	piece, err := b.rules.Weights.PieceWeight(it)
	if err != nil {
		return err
	}
	b.allocations = append(b.allocations, Allocation{Item: it, PieceWeight: piece})
	b.pieces += it.Quantity
	b.depth += it.DepthOr(b.defaultDepth()) * float64(it.Quantity)

	for _, flag := range it.Flags {
		if note, ok := handlingNotes[flag]; ok {
			b.addNote(note)
		}
	}
	if it.Category == model.CategoryMirror {
		b.addNote("mirror: tape face and mark fragile")
	}
	return nil
}

func (b *BoxBuilder) addNote(note string) {
	if !slices.Contains(b.notes, note) {
		b.notes = append(b.notes, note)
	}
}

// RequiredDimensions returns the bounding size the contents need: the longest
// and widest piece, and a height that depends on the mode. Depth mode stacks
// piece depths; the count modes ship the box at its catalog height.
func (b *BoxBuilder) RequiredDimensions() model.Dimensions {
	var dims model.Dimensions
	for _, a := range b.allocations {
		fp := a.Item.Footprint()
		dims.Length = max(dims.Length, fp.LongSide)
		dims.Width = max(dims.Width, fp.ShortSide)
	}
	if b.mode == ModeByDepth {
		dims.Height = b.depth
	} else {
		dims.Height = b.spec.Height
	}
	return dims
}

// TelescopingLength returns the stretched outer length when the contents are
// longer than the box's inner length but still within the telescoping rule.
func (b *BoxBuilder) TelescopingLength() (float64, bool) {
	if !b.spec.Telescoping || b.Empty() {
		return 0, false
	}
	required := b.RequiredDimensions()
	if required.Length <= b.spec.InnerLength {
		return 0, false
	}
	for _, a := range b.allocations {
		if !b.rules.Classifier.FitsTelescopingBox(a.Item) {
			return 0, false
		}
	}
	return required.Length + (b.spec.Length - b.spec.InnerLength), true
}

// Snapshot returns an immutable copy of the box.
func (b *BoxBuilder) Snapshot() Box {
	required := b.RequiredDimensions()
	outer := model.Dimensions{Length: b.spec.Length, Width: b.spec.Width, Height: required.Height}
	telescoped, ok := b.TelescopingLength()
	if ok {
		outer.Length = max(outer.Length, telescoped)
	}

	contents := make([]Allocation, len(b.allocations))
	content := 0
	for i, a := range b.allocations {
		a.Item = a.Item.WithQuantity(a.Item.ID, a.Item.Quantity)
		contents[i] = a
		content += a.Weight()
	}
	total := decimal.NewFromFloat(b.spec.Tare).Add(decimal.NewFromInt(int64(content))).Ceil()

	return Box{
		ID:               b.id,
		Type:             b.spec.Type,
		Contents:         contents,
		Notes:            slices.Clone(b.notes),
		Dimensions:       outer,
		Required:         required,
		TelescopedLength: telescoped,
		Pieces:           b.pieces,
		Tare:             b.spec.Tare,
		ContentWeight:    content,
		Weight:           int(total.IntPart()),
	}
}

func (b *BoxBuilder) defaultDepth() float64 {
	return b.rules.Catalog.Thresholds().DefaultDepth
}
