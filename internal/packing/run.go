package packing

import (
	"fmt"
	"maps"
	"sort"

	"github.com/eugenenazirov/shipment-planner/internal/model"
)

// Unassigned reasons that callers may match on.
const (
	ReasonCrateOnly      = "crate-only product category cannot be boxed"
	ReasonAfterSplitting = "cannot accommodate even after splitting"
)

// Unassigned is an item (or split fragment) that no box could take.
type Unassigned struct {
	Item   model.Item `json:"item"`
	Reason string     `json:"reason"`
}

// Result is the outcome of one strategy run.
type Result struct {
	Strategy    string            `json:"strategy"`
	Boxes       []Box             `json:"boxes"`
	Unassigned  []Unassigned      `json:"unassigned"`
	Assignments map[string]string `json:"assignments"`
}

// AssignedQuantity sums the pieces placed in boxes.
func (r Result) AssignedQuantity() int {
	total := 0
	for _, b := range r.Boxes {
		total += b.Pieces
	}
	return total
}

// UnassignedQuantity sums the pieces that were not placed.
func (r Result) UnassignedQuantity() int {
	total := 0
	for _, u := range r.Unassigned {
		total += u.Item.Quantity
	}
	return total
}

// finder looks for an existing box that can take it.
type finder func(r *run, it model.Item, preferred model.BoxType) *BoxBuilder

// run holds the mutable state of a single strategy invocation.
type run struct {
	rules       Rules
	mode        Mode
	boxes       []*BoxBuilder
	unassigned  []Unassigned
	assignments map[string]string
	// ids holds every input id and every split id issued so far.
	ids map[string]struct{}
}

func newRun(rules Rules, mode Mode) *run {
	return &run{
		rules:       rules,
		mode:        mode,
		assignments: make(map[string]string),
		ids:         make(map[string]struct{}),
	}
}

// admit validates the input, claims the item ids and checks that every
// material is priced before any box is opened.
func (r *run) admit(items []model.Item) error {
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
		if err := r.claim(it.ID); err != nil {
			return err
		}
	}
	if _, err := r.rules.Weights.TotalWeight(items); err != nil {
		return err
	}
	return nil
}

// reject returns the reason an item can never be boxed, if any.
func (r *run) reject(it model.Item) (string, bool) {
	cls := r.rules.Classifier
	switch {
	case cls.NeedsCustomPackaging(it), !cls.FitsAnyBox(it):
		return cls.CustomPackagingReason(it), true
	case cls.RequiresCrateOnly(it):
		return ReasonCrateOnly, true
	}
	return "", false
}

// place puts it into an existing or new box, splitting the quantity when even
// an empty box is too small for it.
func (r *run) place(it model.Item, find finder) error {
	if reason, rejected := r.reject(it); rejected {
		r.unassign(it, reason)
		return nil
	}

	preferred := r.rules.Classifier.PreferredBoxType(it)
	if b := find(r, it, preferred); b != nil {
		return r.assign(b, it)
	}

	fresh, err := NewBoxBuilder("", preferred, r.mode, r.rules)
	if err != nil {
		return err
	}
	if fresh.CanAccommodate(it) {
		return r.assign(r.commit(fresh), it)
	}

	parts := model.Split(it, fresh.MaxPerBox(it))
	for _, part := range parts {
		if err := r.claim(part.ID); err != nil {
			return fmt.Errorf("split item %s: %w", it.ID, err)
		}
	}
	for _, part := range parts {
		if b := find(r, part, preferred); b != nil {
			if err := r.assign(b, part); err != nil {
				return err
			}
			continue
		}
		next, err := NewBoxBuilder("", preferred, r.mode, r.rules)
		if err != nil {
			return err
		}
		if !next.CanAccommodate(part) {
			r.unassign(part, ReasonAfterSplitting)
			continue
		}
		if err := r.assign(r.commit(next), part); err != nil {
			return err
		}
	}
	return nil
}

// claim reserves id for this run. Assignments are keyed by id, so an id may
// only be used once.
func (r *run) claim(id string) error {
	if _, taken := r.ids[id]; taken {
		return fmt.Errorf("%w: duplicate item id %s", model.ErrInvalidItem, id)
	}
	r.ids[id] = struct{}{}
	return nil
}

func (r *run) commit(b *BoxBuilder) *BoxBuilder {
	b.id = fmt.Sprintf("box-%d", len(r.boxes)+1)
	r.boxes = append(r.boxes, b)
	return b
}

func (r *run) assign(b *BoxBuilder, it model.Item) error {
	if err := b.AddArt(it); err != nil {
		return err
	}
	r.assignments[it.ID] = b.ID()
	return nil
}

func (r *run) unassign(it model.Item, reason string) {
	r.unassigned = append(r.unassigned, Unassigned{Item: it, Reason: reason})
}

func (r *run) result(strategy string) Result {
	boxes := make([]Box, len(r.boxes))
	for i, b := range r.boxes {
		boxes[i] = b.Snapshot()
	}
	unassigned := make([]Unassigned, len(r.unassigned))
	copy(unassigned, r.unassigned)
	return Result{
		Strategy:    strategy,
		Boxes:       boxes,
		Unassigned:  unassigned,
		Assignments: maps.Clone(r.assignments),
	}
}

// sortByFootprint orders items by long side, then short side, both
// descending. Ties keep input order.
func sortByFootprint(items []model.Item) []model.Item {
	sorted := make([]model.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Footprint(), sorted[j].Footprint()
		if a.LongSide != b.LongSide {
			return a.LongSide > b.LongSide
		}
		return a.ShortSide > b.ShortSide
	})
	return sorted
}
