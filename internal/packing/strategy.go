package packing

import (
	"fmt"

	"github.com/eugenenazirov/shipment-planner/internal/model"
)

// Strategy assigns items to boxes. Implementations keep no state between
// calls, so one value may serve concurrent runs.
type Strategy interface {
	ID() string
	Pack(items []model.Item) (Result, error)
}

// DefaultStrategy is used when a request does not name one.
const DefaultStrategy = string(ModeByMedium)

// Strategies lists the registered strategy ids.
func Strategies() []string {
	return []string{string(ModeByMedium), string(ModeByStrictestConstraint), string(ModeByDepth)}
}

// New returns the strategy registered under id.
func New(id string, rules Rules) (Strategy, error) {
	switch Mode(id) {
	case ModeByMedium:
		return &byMedium{rules: rules}, nil
	case ModeByStrictestConstraint:
		return &byStrictest{rules: rules}, nil
	case ModeByDepth:
		return &byDepth{rules: rules}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, id)
	}
}

// byMedium is first-fit with one product category per box.
type byMedium struct {
	rules Rules
}

func (s *byMedium) ID() string { return string(ModeByMedium) }

func (s *byMedium) Pack(items []model.Item) (Result, error) {
	r := newRun(s.rules, ModeByMedium)
	if err := r.admit(items); err != nil {
		return Result{}, err
	}
	for _, it := range sortByFootprint(items) {
		if err := r.place(it, findSameMedium); err != nil {
			return Result{}, err
		}
	}
	return r.result(s.ID()), nil
}

// findSameMedium scans boxes of the preferred type, plus large boxes for
// standard items. The mode itself keeps categories apart.
func findSameMedium(r *run, it model.Item, preferred model.BoxType) *BoxBuilder {
	for _, b := range r.boxes {
		eligible := b.Type() == preferred || (preferred == model.BoxStandard && b.Type() == model.BoxLarge)
		if eligible && b.CanAccommodate(it) {
			return b
		}
	}
	return nil
}

// byStrictest mixes categories under the strictest per-category limit.
type byStrictest struct {
	rules Rules
}

func (s *byStrictest) ID() string { return string(ModeByStrictestConstraint) }

func (s *byStrictest) Pack(items []model.Item) (Result, error) {
	r := newRun(s.rules, ModeByStrictestConstraint)
	if err := r.admit(items); err != nil {
		return Result{}, err
	}
	for _, it := range sortByFootprint(items) {
		if err := r.place(it, findFirstFit); err != nil {
			return Result{}, err
		}
	}
	return r.result(s.ID()), nil
}

func findFirstFit(r *run, it model.Item, _ model.BoxType) *BoxBuilder {
	for _, b := range r.boxes {
		if b.CanAccommodate(it) {
			return b
		}
	}
	return nil
}

// byDepth fills boxes by stacking depth, large items first, scanning the most
// recent boxes first so gaps are filled in order.
type byDepth struct {
	rules Rules
}

func (s *byDepth) ID() string { return string(ModeByDepth) }

func (s *byDepth) Pack(items []model.Item) (Result, error) {
	r := newRun(s.rules, ModeByDepth)
	if err := r.admit(items); err != nil {
		return Result{}, err
	}

	sorted := sortByFootprint(items)
	var large, standard []model.Item
	for _, it := range sorted {
		if s.rules.Classifier.RequiresOversizeBox(it) {
			large = append(large, it)
		} else {
			standard = append(standard, it)
		}
	}

	for _, pass := range [][]model.Item{large, standard} {
		for _, it := range pass {
			if err := r.place(it, findMostRecent); err != nil {
				return Result{}, err
			}
		}
	}
	return r.result(s.ID()), nil
}

func findMostRecent(r *run, it model.Item, _ model.BoxType) *BoxBuilder {
	for i := len(r.boxes) - 1; i >= 0; i-- {
		if r.boxes[i].CanAccommodate(it) {
			return r.boxes[i]
		}
	}
	return nil
}
