package shipment

import (
	"fmt"
	"sort"

	"github.com/eugenenazirov/shipment-planner/internal/catalog"
	"github.com/eugenenazirov/shipment-planner/internal/classify"
	"github.com/eugenenazirov/shipment-planner/internal/model"
	"github.com/eugenenazirov/shipment-planner/internal/packing"
	"github.com/eugenenazirov/shipment-planner/internal/palletize"
)

const defaultHardwareLabel = "hardware"

// pricedItem pairs an input item with its rounded weight.
type pricedItem struct {
	item   model.Item
	weight int
}

func priceItems(rules packing.Rules, items []model.Item) ([]pricedItem, error) {
	priced := make([]pricedItem, len(items))
	for i, it := range items {
		w, err := rules.Weights.Weight(it)
		if err != nil {
			return nil, err
		}
		priced[i] = pricedItem{item: it, weight: w}
	}
	return priced, nil
}

func buildWorkOrder(cls *classify.Classifier, items []pricedItem) WorkOrderSummary {
	summary := WorkOrderSummary{OversizedGroups: []OversizedGroup{}}
	groups := make(map[[2]int]*OversizedGroup)
	for _, p := range items {
		summary.TotalPieces += p.item.Quantity
		if !cls.IsOversized(p.item) {
			summary.StandardPieces += p.item.Quantity
			continue
		}
		summary.OversizedPieces += p.item.Quantity

		long, short := p.item.RoundedDimensions()
		key := [2]int{long, short}
		g, ok := groups[key]
		if !ok {
			g = &OversizedGroup{Dimensions: fmt.Sprintf("%dx%d", long, short), Long: long, Short: short}
			groups[key] = g
		}
		g.Pieces += p.item.Quantity
		g.Weight += p.weight
	}

	for _, g := range groups {
		summary.OversizedGroups = append(summary.OversizedGroups, *g)
	}
	sort.Slice(summary.OversizedGroups, func(i, j int) bool {
		a, b := summary.OversizedGroups[i], summary.OversizedGroups[j]
		if a.Long != b.Long {
			return a.Long > b.Long
		}
		return a.Short > b.Short
	})
	return summary
}

func buildWeights(cls *classify.Classifier, items []pricedItem, containers palletize.Result) WeightSummary {
	var summary WeightSummary
	for _, p := range items {
		summary.ArtworkWeight += p.weight
		if p.item.Material == model.MaterialGlass {
			summary.GlassWeight += p.weight
		}
		if cls.IsOversized(p.item) {
			summary.OversizedWeight += p.weight
		}
	}
	summary.PackagingWeight = containers.PackagingWeight()
	summary.FinalWeight = summary.ArtworkWeight + summary.PackagingWeight
	return summary
}

func buildPacking(cat catalog.Catalog, items []model.Item, boxes []packing.Box, containers []palletize.Container) PackingSummary {
	summary := PackingSummary{
		BoxCount:       len(boxes),
		ContainerCount: len(containers),
		Boxes:          []TypeCount{},
		Containers:     []TypeCount{},
		Hardware:       map[string]int{},
	}

	boxCounts := make(map[model.BoxType]int)
	for _, b := range boxes {
		boxCounts[b.Type]++
		if b.Telescoped() {
			summary.TelescopedBoxes++
		}
	}
	for _, t := range model.BoxTypes() {
		if boxCounts[t] == 0 {
			continue
		}
		tc := TypeCount{Type: string(t), Count: boxCounts[t]}
		if spec, ok := cat.Box(t); ok {
			tc.Dimensions = spec.Nominal().String()
		}
		summary.Boxes = append(summary.Boxes, tc)
	}

	containerCounts := make(map[model.ContainerType]int)
	for _, c := range containers {
		containerCounts[c.Type]++
	}
	for _, t := range model.ContainerTypes() {
		if containerCounts[t] == 0 {
			continue
		}
		tc := TypeCount{Type: string(t), Count: containerCounts[t]}
		if spec, ok := cat.Container(t); ok {
			tc.Dimensions = fmt.Sprintf("%dx%d", model.CeilInch(spec.Length), model.CeilInch(spec.Width))
		}
		summary.Containers = append(summary.Containers, tc)
	}

	for _, it := range items {
		if it.HardwareCount <= 0 {
			continue
		}
		label := it.HardwareLabel
		if label == "" {
			label = defaultHardwareLabel
		}
		summary.Hardware[label] += it.HardwareCount * it.Quantity
	}
	return summary
}

func buildBusiness(cls *classify.Classifier, items []model.Item, caps model.DeliveryCapabilities, containers []palletize.Container) BusinessSummary {
	summary := BusinessSummary{
		FlaggedCategories: []model.ProductCategory{},
		RiskFlags:         []string{},
		DeliveryNotes:     []string{},
	}

	present := make(map[model.ProductCategory]bool)
	var glass, mirror, highValue int
	for _, it := range items {
		if cls.RequiresSpecialHandling(it) {
			summary.SpecialHandlingPieces += it.Quantity
		}
		if classify.FlaggedCategory(it.Category) {
			present[it.Category] = true
		}
		if it.Material == model.MaterialGlass {
			glass += it.Quantity
		}
		if it.Category == model.CategoryMirror || it.Material == model.MaterialMirror {
			mirror += it.Quantity
		}
		if it.HasFlag(model.FlagHighValue) {
			highValue += it.Quantity
		}
	}
	for _, c := range model.Categories() {
		if present[c] {
			summary.FlaggedCategories = append(summary.FlaggedCategories, c)
		}
	}

	if glass > 0 {
		summary.RiskFlags = append(summary.RiskFlags, fmt.Sprintf("glass glazing: %d pieces", glass))
	}
	if mirror > 0 {
		summary.RiskFlags = append(summary.RiskFlags, fmt.Sprintf("mirror content: %d pieces", mirror))
	}
	if highValue > 0 {
		summary.RiskFlags = append(summary.RiskFlags, fmt.Sprintf("high value: %d pieces", highValue))
	}

	if caps.RequiresLiftgate {
		summary.DeliveryNotes = append(summary.DeliveryNotes, "liftgate required at delivery")
	}
	if caps.NeedsInsideDelivery {
		summary.DeliveryNotes = append(summary.DeliveryNotes, "inside delivery requested")
	}
	if !caps.HasLoadingDock && len(containers) > 0 {
		summary.DeliveryNotes = append(summary.DeliveryNotes, "no loading dock: outer containers unload at ground level")
	}
	if !caps.AcceptsPallets && !caps.AcceptsCrates {
		summary.DeliveryNotes = append(summary.DeliveryNotes, "site accepts neither pallets nor crates")
	}
	return summary
}

func buildFreight(containers []palletize.Container) []FreightLine {
	lines := make([]FreightLine, 0, len(containers))
	for _, c := range containers {
		dims := c.Footprint.String()
		lines = append(lines, FreightLine{
			ContainerID: c.ID,
			Type:        c.Type,
			Dimensions:  dims,
			Weight:      c.TotalWeight,
			Boxes:       len(c.BoxIDs),
			Line:        fmt.Sprintf("%s @ %d lbs", dims, c.TotalWeight),
		})
	}
	return lines
}

func telescopingWarnings(cat catalog.Catalog, boxes []packing.Box) []string {
	warnings := []string{}
	for _, b := range boxes {
		if !b.Telescoped() {
			continue
		}
		nominal := 0.0
		if spec, ok := cat.Box(b.Type); ok {
			nominal = spec.Length
		}
		warnings = append(warnings, fmt.Sprintf("%s telescoped from %gin to %gin", b.ID, nominal, b.TelescopedLength))
	}
	return warnings
}
