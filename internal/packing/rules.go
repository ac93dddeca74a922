package packing

import (
	"github.com/eugenenazirov/shipment-planner/internal/catalog"
	"github.com/eugenenazirov/shipment-planner/internal/classify"
	"github.com/eugenenazirov/shipment-planner/internal/weight"
)

// Mode selects the capacity and grouping policy of a box.
type Mode string

const (
	// ModeByMedium keeps one product category per box.
	ModeByMedium Mode = "by-medium"
	// ModeByStrictestConstraint mixes categories under the strictest limit present.
	ModeByStrictestConstraint Mode = "by-strictest-constraint"
	// ModeByDepth fills boxes by physical stacking depth.
	ModeByDepth Mode = "by-depth"
)

// Rules bundles the immutable lookups a packing run depends on.
type Rules struct {
	Catalog    catalog.Catalog
	Classifier *classify.Classifier
	Weights    *weight.Engine
}

// NewRules derives the classifier and weight engine from a catalog.
func NewRules(c catalog.Catalog) Rules {
	return Rules{
		Catalog:    c,
		Classifier: classify.New(c.Thresholds()),
		Weights:    weight.New(c.Factors()),
	}
}
