package catalog

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/shipment-planner/internal/model"
)

// Document is the serialisable form of a catalog. Every section is optional
// when applied on top of a base catalog: box and container specs replace the
// entry of the same type, capacities and factors are merged key by key, and a
// non-nil Thresholds replaces the base thresholds.
type Document struct {
	Boxes           []BoxSpec                                       `json:"boxes,omitempty" yaml:"boxes,omitempty"`
	Containers      []ContainerSpec                                 `json:"containers,omitempty" yaml:"containers,omitempty"`
	Capacities      map[model.ProductCategory]map[model.BoxType]int `json:"capacities,omitempty" yaml:"capacities,omitempty"`
	MaterialFactors map[model.Material]string                       `json:"materialFactors,omitempty" yaml:"material_factors,omitempty"`
	Thresholds      *Thresholds                                     `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
}

var defaultDocument = Document{
	Boxes: []BoxSpec{
		{Type: model.BoxStandard, Length: 44, Width: 37, Height: 12, InnerLength: 43.5, InnerWidth: 36, InnerHeight: 11, Tare: 6, NominalCapacity: 6, Telescoping: true},
		{Type: model.BoxLarge, Length: 45, Width: 45, Height: 14, InnerLength: 43.5, InnerWidth: 43.5, InnerHeight: 13, Tare: 9, NominalCapacity: 3},
		{Type: model.BoxSmallParcel, Length: 20, Width: 16, Height: 6, InnerLength: 18, InnerWidth: 14, InnerHeight: 5, Tare: 2, NominalCapacity: 2},
		{Type: model.BoxLargeParcel, Length: 38, Width: 26, Height: 8, InnerLength: 36, InnerWidth: 24, InnerHeight: 7, Tare: 4, NominalCapacity: 4},
	},
	Containers: []ContainerSpec{
		{Type: model.ContainerStandardPallet, Length: 48, Width: 40, Tare: 60, MaxBoxes: 4, Allowed: []model.BoxType{model.BoxStandard, model.BoxSmallParcel, model.BoxLargeParcel}},
		{Type: model.ContainerOversizePallet, Length: 60, Width: 48, Tare: 75, MaxBoxes: 5, Allowed: []model.BoxType{model.BoxStandard, model.BoxLarge, model.BoxSmallParcel, model.BoxLargeParcel}},
		{Type: model.ContainerGlassSmallPallet, Length: 48, Width: 24, Tare: 40, MaxBoxes: 2, Allowed: []model.BoxType{model.BoxStandard, model.BoxSmallParcel}},
		{Type: model.ContainerStandardCrate, Length: 50, Width: 46, Tare: 125, MaxBoxes: 4},
	},
	Capacities: map[model.ProductCategory]map[model.BoxType]int{
		model.CategoryPaperPrint:          {model.BoxStandard: 6, model.BoxLarge: 6},
		model.CategoryPaperPrintTitled:    {model.BoxStandard: 6, model.BoxLarge: 6},
		model.CategoryCanvasFloatFrame:    {model.BoxStandard: 4, model.BoxLarge: 4},
		model.CategoryWallDecor:           {model.BoxStandard: 4, model.BoxLarge: 3},
		model.CategoryAcousticPanel:       {model.BoxStandard: 4, model.BoxLarge: 4},
		model.CategoryAcousticPanelFramed: {model.BoxStandard: 4, model.BoxLarge: 4},
		model.CategoryMetalPrint:          {model.BoxStandard: 6, model.BoxLarge: 6},
		model.CategoryMirror:              {model.BoxStandard: 4, model.BoxLarge: 3},
		model.CategoryPatientBoard:        {model.BoxStandard: 8, model.BoxLarge: 8},
	},
	MaterialFactors: map[model.Material]string{
		model.MaterialGlass:        "0.0098",
		model.MaterialAcrylic:      "0.0094",
		model.MaterialCanvas:       "0.0062",
		model.MaterialMirror:       "0.0140",
		model.MaterialAcousticFoam: "0.0038",
		model.MaterialPatientBoard: "0.0156",
		model.MaterialAluminum:     "0.0061",
		model.MaterialNoGlazing:    "0",
	},
	Thresholds: &Thresholds{
		StandardBox:      36,
		LargeBox:         43.5,
		TelescopingMax:   84,
		OversizedReport:  43,
		MaxStackHeight:   84,
		DefaultDepth:     2,
		OversizeCapacity: 3,
	},
}

// Default returns the built-in catalog.
func Default() Catalog {
	c, err := Apply(Catalog{}, defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in document is invalid: %v", err))
	}
	return c
}

// Apply layers doc on top of base and returns a new, validated catalog. The
// base catalog is never modified.
func Apply(base Catalog, doc Document) (Catalog, error) {
	out := Catalog{
		boxes:      maps.Clone(base.boxes),
		containers: make(map[model.ContainerType]ContainerSpec, len(base.containers)),
		capacities: make(map[model.ProductCategory]map[model.BoxType]int, len(base.capacities)),
		factors:    maps.Clone(base.factors),
		thresholds: base.thresholds,
	}
	if out.boxes == nil {
		out.boxes = make(map[model.BoxType]BoxSpec)
	}
	if out.factors == nil {
		out.factors = make(map[model.Material]decimal.Decimal)
	}
	for t, spec := range base.containers {
		spec.Allowed = slices.Clone(spec.Allowed)
		out.containers[t] = spec
	}
	for cat, byType := range base.capacities {
		out.capacities[cat] = maps.Clone(byType)
	}

	for _, spec := range doc.Boxes {
		if spec.Type == "" {
			return Catalog{}, fmt.Errorf("%w: box spec without type", ErrInvalidCatalog)
		}
		out.boxes[spec.Type] = spec
	}
	for _, spec := range doc.Containers {
		if spec.Type == "" {
			return Catalog{}, fmt.Errorf("%w: container spec without type", ErrInvalidCatalog)
		}
		spec.Allowed = slices.Clone(spec.Allowed)
		out.containers[spec.Type] = spec
	}
	for cat, byType := range doc.Capacities {
		if _, err := model.ParseCategory(string(cat)); err != nil {
			return Catalog{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}
		merged := out.capacities[cat]
		if merged == nil {
			merged = make(map[model.BoxType]int, len(byType))
		}
		for t, limit := range byType {
			merged[t] = limit
		}
		out.capacities[cat] = merged
	}
	for m, raw := range doc.MaterialFactors {
		f, err := decimal.NewFromString(raw)
		if err != nil {
			return Catalog{}, fmt.Errorf("%w: weight factor for %s: %v", ErrInvalidCatalog, m, err)
		}
		out.factors[m] = f
	}
	if doc.Thresholds != nil {
		out.thresholds = *doc.Thresholds
	}

	if err := out.Validate(); err != nil {
		return Catalog{}, err
	}
	return out, nil
}

// Document renders the complete catalog in serialisable form with a stable
// ordering of boxes and containers.
func (c Catalog) Document() Document {
	doc := Document{
		Capacities:      make(map[model.ProductCategory]map[model.BoxType]int, len(c.capacities)),
		MaterialFactors: make(map[model.Material]string, len(c.factors)),
	}
	for _, t := range sortedKeys(c.boxes) {
		doc.Boxes = append(doc.Boxes, c.boxes[t])
	}
	for _, t := range sortedKeys(c.containers) {
		spec := c.containers[t]
		spec.Allowed = slices.Clone(spec.Allowed)
		doc.Containers = append(doc.Containers, spec)
	}
	for cat, byType := range c.capacities {
		doc.Capacities[cat] = maps.Clone(byType)
	}
	for m, f := range c.factors {
		doc.MaterialFactors[m] = f.String()
	}
	th := c.thresholds
	doc.Thresholds = &th
	return doc
}

// LoadFile reads a YAML catalog document and applies it over the defaults.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read file: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Catalog{}, fmt.Errorf("parse YAML: %w", err)
	}

	return Apply(Default(), doc)
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
