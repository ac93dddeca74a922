package shipment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eugenenazirov/shipment-planner/internal/catalog"
	"github.com/eugenenazirov/shipment-planner/internal/model"
	"github.com/eugenenazirov/shipment-planner/internal/packing"
	"github.com/eugenenazirov/shipment-planner/internal/weight"
)

var dock = model.DeliveryCapabilities{AcceptsPallets: true, AcceptsCrates: true, HasLoadingDock: true}

func glassPrint(id string, l, w float64, qty int) model.Item {
	return model.Item{ID: id, Category: model.CategoryPaperPrint, Material: model.MaterialGlass, Length: l, Width: w, Quantity: qty}
}

func goldenA() Request {
	return Request{
		Items: []model.Item{
			glassPrint("a", 33, 43, 11),
			glassPrint("b", 31, 55, 1),
			glassPrint("c", 34, 47, 1),
		},
		Delivery: dock,
	}
}

// steppingClock advances by one second on every call.
func steppingClock() func() time.Time {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

type recordingObserver struct {
	reports  []Report
	failures []string
}

func (o *recordingObserver) Observe(r Report)              { o.reports = append(o.reports, r) }
func (o *recordingObserver) ObserveFailure(strategy string) { o.failures = append(o.failures, strategy) }

func newPlanner(opts ...Option) *Planner {
	base := []Option{
		WithClock(steppingClock()),
		WithIDGenerator(func() string { return "run-1" }),
	}
	return New(catalog.NewMemoryStore(catalog.Default()), append(base, opts...)...)
}

func TestGoldenScenarioA(t *testing.T) {
	t.Parallel()

	report, err := newPlanner().PackageEverything(context.Background(), goldenA())
	require.NoError(t, err)

	assert.Equal(t, WeightSummary{
		ArtworkWeight:   187,
		GlassWeight:     187,
		OversizedWeight: 33,
		PackagingWeight: 60,
		FinalWeight:     247,
	}, report.Weights)

	assert.Equal(t, 13, report.WorkOrder.TotalPieces)
	assert.Equal(t, 11, report.WorkOrder.StandardPieces)
	assert.Equal(t, 2, report.WorkOrder.OversizedPieces)
	assert.Equal(t, []OversizedGroup{
		{Dimensions: "55x31", Long: 55, Short: 31, Pieces: 1, Weight: 17},
		{Dimensions: "47x34", Long: 47, Short: 34, Pieces: 1, Weight: 16},
	}, report.WorkOrder.OversizedGroups)

	assert.Equal(t, 3, report.Packing.BoxCount)
	assert.Equal(t, 1, report.Packing.TelescopedBoxes)
	assert.Equal(t, []TypeCount{{Type: "standard", Count: 3, Dimensions: "44x37x12"}}, report.Packing.Boxes)
	assert.Equal(t, []TypeCount{{Type: "standard_pallet", Count: 1, Dimensions: "48x40"}}, report.Packing.Containers)

	require.Len(t, report.Freight, 1)
	assert.Equal(t, "pallet-1", report.Freight[0].ContainerID)
	assert.Equal(t, "56x37x36 @ 265 lbs", report.Freight[0].Line)

	assert.Equal(t, "run-1", report.Metadata.RunID)
	assert.Equal(t, "by-medium", report.Metadata.Strategy)
	assert.Equal(t, []string{"box-1 telescoped from 44in to 55.5in"}, report.Metadata.TelescopingWarnings)
	assert.Zero(t, report.Metadata.UnassignedItems)
	assert.Zero(t, report.Metadata.UnassignedBoxes)
	assert.Empty(t, report.Metadata.Warnings)
	assert.Empty(t, report.Metadata.Errors)
	assert.True(t, report.Metadata.FinishedAt.After(report.Metadata.StartedAt))
	assert.Equal(t, int64(1000), report.Metadata.DurationMs)

	assert.Equal(t, []string{"glass glazing: 13 pieces"}, report.Business.RiskFlags)
	assert.Empty(t, report.Business.FlaggedCategories)
	assert.Empty(t, report.Business.DeliveryNotes)
	assert.Equal(t, 13, report.Business.SpecialHandlingPieces)
}

func TestGoldenScenarioB(t *testing.T) {
	t.Parallel()

	req := Request{Items: []model.Item{glassPrint("g", 36, 44, 70)}, Delivery: dock}
	report, err := newPlanner().PackageEverything(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 12, report.Packing.BoxCount)
	assert.Equal(t, []TypeCount{{Type: "standard_pallet", Count: 3, Dimensions: "48x40"}}, report.Packing.Containers)
	assert.Equal(t, 1120, report.Weights.ArtworkWeight)
	assert.Equal(t, 180, report.Weights.PackagingWeight)
	assert.Equal(t, 1300, report.Weights.FinalWeight)
	assert.Equal(t, []OversizedGroup{{Dimensions: "44x36", Long: 44, Short: 36, Pieces: 70, Weight: 1120}}, report.WorkOrder.OversizedGroups)
	assert.Len(t, report.Freight, 3)
}

func TestSoftFailuresAreReported(t *testing.T) {
	t.Parallel()

	req := Request{
		Items: []model.Item{
			glassPrint("ok", 20, 16, 2),
			glassPrint("huge", 50, 50, 1),
		},
		Delivery: model.DeliveryCapabilities{RequiresLiftgate: true, NeedsInsideDelivery: true},
	}
	report, err := newPlanner().PackageEverything(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Metadata.UnassignedItems)
	assert.Equal(t, 1, report.Metadata.UnassignedPieces)
	assert.Equal(t, 1, report.Metadata.UnassignedBoxes)
	require.Len(t, report.Metadata.Warnings, 1)
	assert.Contains(t, report.Metadata.Warnings[0], "custom packaging")
	assert.Equal(t, []string{"box box-1 not loaded: delivery site accepts neither pallets nor crates"}, report.Metadata.Errors)

	assert.Empty(t, report.Containers)
	assert.Empty(t, report.Freight)
	assert.Equal(t, 0, report.Weights.PackagingWeight)
	assert.Equal(t, report.Weights.ArtworkWeight, report.Weights.FinalWeight)
	assert.Equal(t, []string{
		"liftgate required at delivery",
		"inside delivery requested",
		"site accepts neither pallets nor crates",
	}, report.Business.DeliveryNotes)
}

func TestBusinessAndHardwareSummaries(t *testing.T) {
	t.Parallel()

	mirror := model.Item{ID: "m", Category: model.CategoryMirror, Material: model.MaterialMirror, Length: 24, Width: 18, Quantity: 2, HardwareLabel: "z-clip", HardwareCount: 2}
	decor := model.Item{ID: "d", Category: model.CategoryWallDecor, Material: model.MaterialNoGlazing, Length: 20, Width: 20, Quantity: 1, HardwareCount: 4}
	acrylic := model.Item{ID: "p", Category: model.CategoryPaperPrint, Material: model.MaterialAcrylic, Length: 16, Width: 12, Quantity: 3, HardwareLabel: "z-clip", HardwareCount: 1, Flags: []model.HandlingFlag{model.FlagHighValue}}

	req := Request{Items: []model.Item{mirror, decor, acrylic}, Delivery: model.DeliveryCapabilities{AcceptsCrates: true}}
	report, err := newPlanner().PackageEverything(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []model.ProductCategory{model.CategoryWallDecor, model.CategoryMirror}, report.Business.FlaggedCategories)
	assert.Equal(t, []string{"mirror content: 2 pieces", "high value: 3 pieces"}, report.Business.RiskFlags)
	assert.Equal(t, 6, report.Business.SpecialHandlingPieces)
	assert.Equal(t, []string{"no loading dock: outer containers unload at ground level"}, report.Business.DeliveryNotes)
	assert.Equal(t, map[string]int{"z-clip": 7, "hardware": 4}, report.Packing.Hardware)
	assert.Equal(t, []TypeCount{{Type: "standard_crate", Count: 1, Dimensions: "50x46"}}, report.Packing.Containers)
	assert.Equal(t, 0, report.Weights.GlassWeight)
}

func TestStrategySelection(t *testing.T) {
	t.Parallel()

	p := newPlanner(WithDefaultStrategy(string(packing.ModeByDepth)))
	assert.Equal(t, "by-depth", p.DefaultStrategy())

	report, err := p.PackageEverything(context.Background(), goldenA())
	require.NoError(t, err)
	assert.Equal(t, "by-depth", report.Metadata.Strategy)

	req := goldenA()
	req.Strategy = string(packing.ModeByStrictestConstraint)
	report, err = p.PackageEverything(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "by-strictest-constraint", report.Metadata.Strategy)
	assert.Equal(t, 247, report.Weights.FinalWeight)
}

func TestHardFailures(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	p := newPlanner(WithObserver(obs))

	req := goldenA()
	req.Strategy = "by-colour"
	_, err := p.PackageEverything(context.Background(), req)
	assert.ErrorIs(t, err, packing.ErrUnknownStrategy)

	req = goldenA()
	req.Items[2].Material = "granite"
	_, err = p.PackageEverything(context.Background(), req)
	assert.ErrorIs(t, err, weight.ErrUnknownMaterial)

	_, err = p.PackageEverything(context.Background(), Request{Delivery: dock})
	assert.ErrorIs(t, err, ErrNoItems)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.PackageEverything(ctx, goldenA())
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []string{"by-colour", "by-medium", "by-medium", "by-medium"}, obs.failures)
	assert.Empty(t, obs.reports)
}

func TestCatalogChangesApplyToNextRun(t *testing.T) {
	t.Parallel()

	store := catalog.NewMemoryStore(catalog.Default())
	p := New(store)

	pallet, ok := catalog.Default().Container(model.ContainerStandardPallet)
	require.True(t, ok)
	pallet.Tare = 45
	_, err := store.Set(catalog.Document{Containers: []catalog.ContainerSpec{pallet}})
	require.NoError(t, err)

	report, err := p.PackageEverything(context.Background(), goldenA())
	require.NoError(t, err)
	assert.Equal(t, 45, report.Weights.PackagingWeight)
	assert.Equal(t, 232, report.Weights.FinalWeight)
}

func TestRunsAreLogged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	obs := &recordingObserver{}
	p := newPlanner(WithLogger(zap.New(core)), WithObserver(obs))

	_, err := p.PackageEverything(context.Background(), goldenA())
	require.NoError(t, err)

	entries := logs.FilterMessage("packing run completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "run-1", fields["run_id"])
	assert.Equal(t, int64(247), fields["final_weight"])
	assert.Len(t, obs.reports, 1)
}
